// Package autotools wraps the classic configure/make/make-install workflow.
package autotools

import (
	"context"
	"maps"
	"os"
	"path/filepath"

	"github.com/goplus/winebuild/x/buildsys"
)

// AutoTools drives Autotools-style builds. Every tool runs inside buildDir
// with exactly the environment given to New.
type AutoTools struct {
	sourceDir string
	buildDir  string
	env       map[string]string
	exe       buildsys.Executor
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// New returns a ready-to-use AutoTools. env is copied.
func New(sourceDir, buildDir string, env map[string]string, exe buildsys.Executor) *AutoTools {
	return &AutoTools{
		sourceDir: sourceDir,
		buildDir:  buildDir,
		env:       maps.Clone(env),
		exe:       exe,
	}
}

// Configure runs <sourceDir>/configure inside buildDir.
func (a *AutoTools) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(a.buildDir, 0o755); err != nil {
		return err
	}
	return a.run(ctx, filepath.Join(a.sourceDir, "configure"), args)
}

// Build runs "make all".
func (a *AutoTools) Build(ctx context.Context, jobs int) error {
	return a.make(ctx, "all", jobs)
}

// Install runs "make install" followed by "make clean".
func (a *AutoTools) Install(ctx context.Context, jobs int) error {
	if err := a.make(ctx, "install", jobs); err != nil {
		return err
	}
	return a.make(ctx, "clean", jobs)
}

func (a *AutoTools) make(ctx context.Context, target string, jobs int) error {
	return a.run(ctx, "make", append([]string{target}, buildsys.JobsArg(jobs)...))
}

func (a *AutoTools) run(ctx context.Context, name string, args []string) error {
	return a.exe.Run(buildsys.Command(ctx, name, args, a.env, a.buildDir))
}
