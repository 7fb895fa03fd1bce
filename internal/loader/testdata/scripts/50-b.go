package main

import "github.com/goplus/winebuild/options"

func ConfigureOptions(project string, opts *options.Options) {
	opts.SetFlags(options.CFLAGS, "-O3")
	opts.AppendFlags(options.LDFLAGS, "-pipe")
}

func main() {}
