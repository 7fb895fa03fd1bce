package targets

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goplus/winebuild/internal/env"
	"github.com/goplus/winebuild/internal/project"
	"github.com/goplus/winebuild/options"
)

// Lib32PkgConfigPath is the pkg-config search path of the 32-bit Wine build.
const Lib32PkgConfigPath = "/usr/lib32/pkgconfig/"

// EnvScript is the name of the developer shell helper written by Wine.
const EnvScript = "wine-env.sh"

// Wine creates the Wine projects of arch under <build>/wine and writes the
// env helper script into the build root.
//
// With X86_64, the 64-bit build is moved ahead in the build order and the
// 32-bit build, which is pointed at the 64-bit tree, installs first.
func Wine(ctx *env.Context, arch Arch) ([]*project.Project, error) {
	srcDir := filepath.Join(ctx.SrcDir, "wine")
	buildDir := filepath.Join(ctx.BuildDir, "wine")
	dir32 := filepath.Join(buildDir, "wine32")
	dir64 := filepath.Join(buildDir, "wine64")
	installDir := filepath.Join(buildDir, "install")

	cflags, cppflags, ldflags := ctx.BaseFlags()
	newOptions := func(args ...string) *options.Options {
		opts := options.New(args...)
		opts.SetFlags(options.CFLAGS, cflags)
		opts.SetFlags(options.CPPFLAGS, cppflags)
		opts.SetFlags(options.LDFLAGS, ldflags)
		return opts
	}

	var projects []*project.Project
	if arch.has64() {
		p := project.New("wine-64", project.Autotools, srcDir, dir64, ctx.Environ(),
			newOptions("--prefix", installDir, "--enable-win64"))
		if arch == X86_64 {
			p.BuildPriority--
		}
		projects = append(projects, p)
	}
	if arch.has32() {
		opts := newOptions("--prefix", installDir)
		if arch == X86_64 {
			opts.AppendArgs("--with-wine64=" + dir64)
		}
		p := project.New("wine-32", project.Autotools, srcDir, dir32, ctx.Environ(), opts)
		if arch == X86_64 {
			p.InstallPriority--
		}
		p.Env["PKG_CONFIG_PATH"] = Lib32PkgConfigPath
		projects = append(projects, p)
	}

	if err := WriteEnvScript(ctx, filepath.Join(ctx.BuildDir, EnvScript)); err != nil {
		return nil, err
	}
	return projects, nil
}

// WriteEnvScript writes an executable bash script that puts the Wine install
// tree on PATH and LD_LIBRARY_PATH and starts an interactive shell whose
// prompt is tagged with the build directory name.
func WriteEnvScript(ctx *env.Context, path string) error {
	install := filepath.Join(ctx.BuildDir, "wine", "install")
	vars := []struct{ key, value string }{
		{"PATH", filepath.Join(install, "bin") + ":$PATH"},
		{"LD_LIBRARY_PATH", fmt.Sprintf("%s:%s:$LD_LIBRARY_PATH",
			filepath.Join(install, "lib"), filepath.Join(install, "lib64"))},
	}

	var b bytes.Buffer
	b.WriteString("#!/bin/bash\n\n")
	for _, v := range vars {
		fmt.Fprintf(&b, "export %s=\"%s\"\n", v.key, v.value)
	}
	fmt.Fprintf(&b, "\nexec bash --rcfile <(echo 'source ~/.bashrc; export PS1=\"(%s) $PS1\"') -i",
		filepath.Base(ctx.BuildDir))

	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, fi.Mode().Perm()|0o110)
}
