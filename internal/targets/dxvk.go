package targets

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goplus/winebuild/internal/crossfile"
	"github.com/goplus/winebuild/internal/env"
	"github.com/goplus/winebuild/internal/project"
	"github.com/goplus/winebuild/options"
)

// Flavor selects how DXVK is built.
type Flavor int

const (
	// MinGW cross-compiles native Windows DLLs.
	MinGW Flavor = iota
	// WineLib builds against winelib, to run hosted under Wine.
	WineLib
)

var flavors = map[string]Flavor{
	"dxvk-mingw":   MinGW,
	"dxvk-winelib": WineLib,
}

// Prefix is the project name prefix and build subdirectory of f.
func (f Flavor) Prefix() string {
	if f == WineLib {
		return "dxvk-winelib"
	}
	return "dxvk-mingw"
}

func (f Flavor) crossFileBase() string {
	if f == WineLib {
		return "build-wine"
	}
	return "build-win"
}

// SetupScript is copied from the DXVK source into the build root.
const SetupScript = "setup_dxvk.sh"

// DXVK creates the 64-bit and 32-bit projects of flavor and copies the
// setup script into <build>/<prefix>.
func DXVK(ctx *env.Context, flavor Flavor) ([]*project.Project, error) {
	prefix := flavor.Prefix()
	srcDir := filepath.Join(ctx.SrcDir, "dxvk")
	buildDir := filepath.Join(ctx.BuildDir, prefix)

	var projects []*project.Project
	for _, bits := range []string{"64", "32"} {
		dstDir := filepath.Join(buildDir, "build."+bits)
		crossFile := filepath.Join(srcDir, flavor.crossFileBase()+bits+".txt")
		subdir := "x" + bits

		opts := options.New(
			"--cross-file", crossFile,
			"--bindir", subdir,
			"--libdir", subdir,
			"--prefix", buildDir,
			dstDir,
		)
		if err := mesonFlags(ctx, crossFile, opts); err != nil {
			return nil, err
		}
		projects = append(projects, project.New(
			prefix+"-"+subdir, project.Meson, srcDir, dstDir, ctx.Environ(), opts))
	}

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return nil, err
	}
	if err := copyFile(filepath.Join(srcDir, SetupScript), filepath.Join(buildDir, SetupScript)); err != nil {
		return nil, err
	}
	return projects, nil
}

// mesonFlags fills the meson flag keys of opts: cross file flags first,
// then the context's CFLAGS, CPPFLAGS and LDFLAGS.
func mesonFlags(ctx *env.Context, crossFile string, opts *options.Options) error {
	cross, err := crossfile.Flags(crossFile)
	if err != nil {
		return err
	}
	cflags, cppflags, ldflags := ctx.BaseFlags()
	for _, kv := range []struct{ key, base string }{
		{options.CArgs, cflags},
		{options.CppArgs, cppflags},
		{options.CLinkArgs, ldflags},
		{options.CppLinkArgs, ldflags},
	} {
		opts.SetFlags(kv.key, options.Merge(append(slices.Clone(cross[kv.key]), kv.base)...))
	}
	return nil
}

func copyFile(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, fi.Mode().Perm()); err != nil {
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(dst, fi.Mode().Perm())
}
