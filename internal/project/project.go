// Package project models one build unit and its configure/build/install
// lifecycle.
package project

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/goplus/winebuild/options"
	"github.com/goplus/winebuild/x/autotools"
	"github.com/goplus/winebuild/x/buildsys"
	"github.com/goplus/winebuild/x/meson"
)

// DefaultPriority is the build and install priority of a new Project.
// Lower priorities run first.
const DefaultPriority = 10

// Toolchain selects how a Project is configured and built. The set is closed.
type Toolchain int

const (
	// Autotools is configure + make.
	Autotools Toolchain = iota
	// Meson is meson + ninja.
	Meson
)

func (t Toolchain) String() string {
	switch t {
	case Autotools:
		return "autotools"
	case Meson:
		return "meson"
	}
	return fmt.Sprintf("Toolchain(%d)", int(t))
}

// flagVars are the option keys exported as environment variables by Autotools.
var flagVars = []string{options.CFLAGS, options.CPPFLAGS, options.LDFLAGS}

// flagDefines are the option keys passed as -D defines by Meson, in order.
var flagDefines = []string{options.CArgs, options.CppArgs, options.CLinkArgs, options.CppLinkArgs}

// Project is one build unit. Env is owned by the project; Options is shared
// with option scripts until PreConfigure runs.
type Project struct {
	Name      string
	Toolchain Toolchain
	SourceDir string
	DestDir   string
	Env       map[string]string
	Options   *options.Options

	BuildPriority   int
	InstallPriority int

	args      []string
	finalized bool
}

// New returns a Project with default priorities. env is copied; a nil opts
// is replaced by empty Options.
func New(name string, tc Toolchain, sourceDir, destDir string, env map[string]string, opts *options.Options) *Project {
	if opts == nil {
		opts = options.New()
	}
	e := maps.Clone(env)
	if e == nil {
		e = make(map[string]string)
	}
	return &Project{
		Name:            name,
		Toolchain:       tc,
		SourceDir:       sourceDir,
		DestDir:         destDir,
		Env:             e,
		Options:         opts,
		BuildPriority:   DefaultPriority,
		InstallPriority: DefaultPriority,
	}
}

// PreConfigure derives the configure arguments and environment from Options.
// It never modifies Options and may be called again after Options change.
func (p *Project) PreConfigure() {
	args := p.Options.Args()
	switch p.Toolchain {
	case Autotools:
		for _, k := range flagVars {
			p.Env[k] = p.Options.Flags(k)
		}
	case Meson:
		for _, k := range flagDefines {
			if flags := p.Options.Flags(k); flags != "" {
				args = append(args, meson.Define(k, flags))
			}
		}
	}
	p.args = args
	p.finalized = true
}

// Args returns the arguments computed by the last PreConfigure.
func (p *Project) Args() []string {
	return slices.Clone(p.args)
}

// Configure runs the toolchain's configure step in DestDir. PreConfigure is
// run first if it has not been.
func (p *Project) Configure(ctx context.Context, exe buildsys.Executor) error {
	if !p.finalized {
		p.PreConfigure()
	}
	if err := p.buildSystem(exe).Configure(ctx, p.args...); err != nil {
		return fmt.Errorf("%s: configure: %w", p.Name, err)
	}
	return nil
}

// Build runs the toolchain's build step. jobs of 0 leaves parallelism to the tool.
func (p *Project) Build(ctx context.Context, exe buildsys.Executor, jobs int) error {
	if err := p.buildSystem(exe).Build(ctx, jobs); err != nil {
		return fmt.Errorf("%s: build: %w", p.Name, err)
	}
	return nil
}

// Install runs the toolchain's install step.
func (p *Project) Install(ctx context.Context, exe buildsys.Executor, jobs int) error {
	if err := p.buildSystem(exe).Install(ctx, jobs); err != nil {
		return fmt.Errorf("%s: install: %w", p.Name, err)
	}
	return nil
}

func (p *Project) buildSystem(exe buildsys.Executor) buildsys.BuildSystem {
	switch p.Toolchain {
	case Meson:
		return meson.New(p.SourceDir, p.DestDir, p.Env, exe)
	default:
		return autotools.New(p.SourceDir, p.DestDir, p.Env, exe)
	}
}

// SortByBuild orders projects by ascending BuildPriority, keeping the
// relative order of equal priorities.
func SortByBuild(projects []*Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].BuildPriority < projects[j].BuildPriority
	})
}

// SortByInstall orders projects by ascending InstallPriority, keeping the
// relative order of equal priorities.
func SortByInstall(projects []*Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].InstallPriority < projects[j].InstallPriority
	})
}
