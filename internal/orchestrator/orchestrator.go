// Package orchestrator drives the configure and build commands: it resolves
// the requested kinds into projects, applies option scripts and runs the
// project lifecycle in priority order.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/hashicorp/go-hclog"

	"github.com/goplus/winebuild/internal/ccache"
	"github.com/goplus/winebuild/internal/config"
	"github.com/goplus/winebuild/internal/env"
	"github.com/goplus/winebuild/internal/loader"
	"github.com/goplus/winebuild/internal/project"
	"github.com/goplus/winebuild/internal/targets"
	"github.com/goplus/winebuild/x/buildsys"
)

// Command is a top-level operation.
type Command int

const (
	Configure Command = iota + 1
	Build
)

func (c Command) String() string {
	switch c {
	case Configure:
		return "configure"
	case Build:
		return "build"
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ErrUnknownCommand is returned for a command other than configure or build.
var ErrUnknownCommand = errors.New("unknown command")

// ErrNoKinds is returned when no kind was requested.
var ErrNoKinds = errors.New("no kinds given")

// ParseCommand parses "configure" or "build".
func ParseCommand(s string) (Command, error) {
	switch s {
	case "configure":
		return Configure, nil
	case "build":
		return Build, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownCommand, s)
}

var (
	colArrow   = color.HEX("#FFEB3B")
	colSuccess = color.HEX("#1976D2")
)

// Options configures one Run.
type Options struct {
	Command Command
	Kinds   []string

	SrcDir   string
	BuildDir string
	// Environ is the inherited environment; Env entries override it.
	Environ []string
	Env     map[string]string
	// ScriptsDir holds the option scripts. Empty means <src>/config_scripts.
	ScriptsDir string

	// Jobs is the make/ninja parallelism; 0 leaves it to the tool.
	Jobs   int
	CCache bool
	// DryRun prints the commands instead of running them.
	DryRun bool

	// Executor runs the toolchain commands. Nil selects a buildsys.Exec,
	// or a buildsys.Recorder printing to Out when DryRun is set.
	Executor buildsys.Executor
	Logger   hclog.Logger
	// Out receives progress lines. Nil means stdout.
	Out io.Writer
}

// Run executes o.Command. Command and kinds are validated before anything
// touches the disk; the first failing step aborts the run.
func Run(ctx context.Context, o Options) error {
	if o.Command != Configure && o.Command != Build {
		return fmt.Errorf("%w: %v", ErrUnknownCommand, o.Command)
	}
	if len(o.Kinds) == 0 {
		return ErrNoKinds
	}
	if err := targets.Validate(o.Kinds); err != nil {
		return err
	}

	logger := o.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	exe := o.Executor
	switch {
	case o.DryRun:
		exe = &buildsys.Recorder{Out: out}
	case exe == nil:
		exe = &buildsys.Exec{Logger: logger}
	}

	envCtx, err := env.New(o.SrcDir, o.BuildDir, o.Environ, env.WithCCache(o.CCache), env.WithEnv(o.Env))
	if err != nil {
		return err
	}
	logger.Debug("context", "src", envCtx.SrcDir, "build", envCtx.BuildDir, "ccache", envCtx.CCache)
	if envCtx.CCache && !o.DryRun {
		if err := ccache.Provision(envCtx, logger); err != nil {
			return err
		}
	}

	projects, err := targets.ResolveAll(envCtx, o.Kinds)
	if err != nil {
		return err
	}
	if err := applyScripts(o.ScriptsDir, envCtx, projects, logger); err != nil {
		return err
	}

	r := &runner{exe: exe, jobs: o.Jobs, out: out}
	switch o.Command {
	case Configure:
		err = r.configure(ctx, projects)
	case Build:
		err = r.build(ctx, projects)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s%s\n", colArrow.Sprint("-> "), colSuccess.Sprintf("%s finished", o.Command))
	return nil
}

func applyScripts(dir string, envCtx *env.Context, projects []*project.Project, logger hclog.Logger) error {
	if dir == "" {
		dir = filepath.Join(envCtx.SrcDir, config.DefaultScriptsDir)
	}
	paths, err := loader.Discover(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}
	logger.Debug("loading option scripts", "dir", dir, "count", len(paths))
	scripts, err := loader.New(nil).LoadAll(paths)
	if err != nil {
		return err
	}
	return loader.Apply(scripts, projects)
}

type runner struct {
	exe  buildsys.Executor
	jobs int
	out  io.Writer
}

func (r *runner) progress(verb, name string) {
	fmt.Fprintf(r.out, "%s%s %s\n", colArrow.Sprint("-> "), verb, name)
}

// configure finalizes every project first, then configures them in the
// order they were created.
func (r *runner) configure(ctx context.Context, projects []*project.Project) error {
	for _, p := range projects {
		p.PreConfigure()
	}
	for _, p := range projects {
		r.progress("Configuring", p.Name)
		if err := p.Configure(ctx, r.exe); err != nil {
			return err
		}
	}
	return nil
}

// build runs every build in build priority order, then every install in
// install priority order.
func (r *runner) build(ctx context.Context, projects []*project.Project) error {
	ordered := append([]*project.Project(nil), projects...)

	project.SortByBuild(ordered)
	for _, p := range ordered {
		r.progress("Building", p.Name)
		if err := p.Build(ctx, r.exe, r.jobs); err != nil {
			return err
		}
	}

	project.SortByInstall(ordered)
	for _, p := range ordered {
		r.progress("Installing", p.Name)
		if err := p.Install(ctx, r.exe, r.jobs); err != nil {
			return err
		}
	}
	return nil
}
