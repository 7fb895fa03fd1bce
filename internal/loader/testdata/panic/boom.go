package main

import "github.com/goplus/winebuild/options"

func ConfigureOptions(project string, opts *options.Options) {
	if project == "wine-32" {
		panic("no 32-bit today")
	}
	opts.AppendFlags(options.CFLAGS, "-g")
}

func main() {}
