// Package env holds the per-invocation Context and helpers for flag and
// PATH-style environment values.
package env

import (
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/goplus/winebuild/options"
	"github.com/goplus/winebuild/x/buildsys"
)

// Context is the process-wide bundle every project is derived from. It is
// not modified after New returns.
type Context struct {
	SrcDir   string
	BuildDir string
	// CCache records whether compiler-cache shims are enabled for this run.
	CCache bool

	env map[string]string
}

// Option customizes New.
type Option func(*Context)

// WithCCache enables the ccache shims: CCACHE_CONFIGPATH points into the
// source tree and <build>/build_bin is put first on PATH.
func WithCCache(enabled bool) Option {
	return func(c *Context) { c.CCache = enabled }
}

// WithEnv overrides entries of the inherited environment.
func WithEnv(extra map[string]string) Option {
	return func(c *Context) {
		for k, v := range extra {
			c.env[k] = v
		}
	}
}

// New returns a Context rooted at srcDir and buildDir with a copy of environ.
func New(srcDir, buildDir string, environ []string, opts ...Option) (*Context, error) {
	src, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, err
	}
	build, err := filepath.Abs(buildDir)
	if err != nil {
		return nil, err
	}
	c := &Context{
		SrcDir:   src,
		BuildDir: build,
		env:      buildsys.ParseEnviron(environ),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.CCache {
		c.env["CCACHE_CONFIGPATH"] = filepath.Join(c.SrcDir, "ccache", "ccache.conf")
		PrependPaths(c.env, c.CCacheBinDir())
	}
	return c, nil
}

// DefaultSrcDir returns the directory holding the running executable, with
// symlinks resolved.
func DefaultSrcDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// CCacheBinDir is where the compiler shims live.
func (c *Context) CCacheBinDir() string {
	return filepath.Join(c.BuildDir, "build_bin")
}

// Getenv returns the value of key in the context environment.
func (c *Context) Getenv(key string) string {
	return c.env[key]
}

// Environ returns a private copy of the context environment.
func (c *Context) Environ() map[string]string {
	return maps.Clone(c.env)
}

// BaseFlags returns CFLAGS, CPPFLAGS and LDFLAGS of the context environment.
func (c *Context) BaseFlags() (cflags, cppflags, ldflags string) {
	return c.env[options.CFLAGS], c.env[options.CPPFLAGS], c.env[options.LDFLAGS]
}

// PrependPaths puts dirs in front of env["PATH"], skipping empty entries.
func PrependPaths(env map[string]string, dirs ...string) {
	parts := make([]string, 0, len(dirs)+1)
	for _, d := range dirs {
		if d != "" {
			parts = append(parts, d)
		}
	}
	if old := env["PATH"]; old != "" {
		parts = append(parts, old)
	}
	env["PATH"] = strings.Join(parts, string(os.PathListSeparator))
}
