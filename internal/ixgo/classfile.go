// Copyright 2024 The winebuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ixgo registers the option script classfile and the packages that
// option scripts may import.
package ixgo

import (
	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/mod/modfile"

	_ "github.com/goplus/ixgo/pkg/fmt"
	_ "github.com/goplus/ixgo/pkg/os"
	_ "github.com/goplus/ixgo/pkg/strings"

	_ "github.com/goplus/winebuild/internal/ixgo/pkg/github.com/goplus/winebuild/options"
	_ "github.com/goplus/winebuild/internal/ixgo/pkg/github.com/qiniu/x/gsh"
	_ "github.com/goplus/winebuild/internal/ixgo/pkg/golang.org/x/mod/semver"
)

// ClassExt is the file suffix of option script classfiles.
const ClassExt = "_opts.gox"

func init() {
	xgobuild.RegisterProject(&modfile.Project{
		Ext:   ClassExt,
		Class: "OptionsF",
		PkgPaths: []string{
			"github.com/goplus/winebuild/options",
		},
		Import: []*modfile.Import{
			{
				Name: "semver",
				Path: "golang.org/x/mod/semver",
			},
		},
	})
}
