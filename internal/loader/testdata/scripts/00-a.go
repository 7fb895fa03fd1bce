package main

import (
	"strings"

	"github.com/goplus/winebuild/options"
)

func ConfigureOptions(project string, opts *options.Options) {
	opts.SetFlags(options.CFLAGS, "-O1")
	if strings.HasPrefix(project, "wine-") {
		opts.AppendArgs("--without-x")
	}
}

func main() {}
