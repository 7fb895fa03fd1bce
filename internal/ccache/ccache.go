// Package ccache provisions compiler-cache shims: a directory of symlinks
// named after the compilers, all pointing at the ccache binary.
package ccache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/unix"

	"github.com/goplus/winebuild/internal/env"
)

// ErrNotFound is returned when no ccache executable is on the context PATH.
var ErrNotFound = errors.New("cannot find path to ccache binary")

var prefixes = []string{"", "x86_64-w64-mingw32-", "i686-w64-mingw32-"}

// Names returns the compiler names that get a shim.
func Names() []string {
	names := []string{"clang", "clang++"}
	for _, prefix := range prefixes {
		for _, bin := range []string{"cc", "c++", "gcc", "g++"} {
			names = append(names, prefix+bin)
		}
	}
	return names
}

// LookPath searches the PATH-style list path for an executable file called name.
func LookPath(name, path string) (string, error) {
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		p := filepath.Join(dir, name)
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		if unix.Access(p, unix.X_OK) == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Provision creates ctx.CCacheBinDir() and a shim for each of Names. An
// existing entry is reported and left as is.
func Provision(ctx *env.Context, logger hclog.Logger) error {
	bin, err := LookPath("ccache", ctx.Getenv("PATH"))
	if err != nil {
		return err
	}
	dir := ctx.CCacheBinDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range Names() {
		path := filepath.Join(dir, name)
		err := os.Symlink(bin, path)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrExist):
			logger.Warn("file already exists", "path", path)
		default:
			return err
		}
	}
	return nil
}
