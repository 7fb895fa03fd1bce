package main

import "github.com/goplus/winebuild/cmd/winebuild/internal"

func main() {
	internal.Execute()
}
