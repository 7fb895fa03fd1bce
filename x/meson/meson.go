// Package meson wraps the meson configure / ninja build workflow.
package meson

import (
	"context"
	"maps"
	"os"

	"github.com/goplus/winebuild/x/buildsys"
)

// Meson drives meson/ninja builds.
//
// meson is invoked from the source directory; the build directory is
// expected among the configure arguments. ninja runs in the build directory.
type Meson struct {
	sourceDir string
	buildDir  string
	env       map[string]string
	exe       buildsys.Executor
}

var _ buildsys.BuildSystem = (*Meson)(nil)

// New returns a ready-to-use Meson. env is copied.
func New(sourceDir, buildDir string, env map[string]string, exe buildsys.Executor) *Meson {
	return &Meson{
		sourceDir: sourceDir,
		buildDir:  buildDir,
		env:       maps.Clone(env),
		exe:       exe,
	}
}

// Define renders a -D<key>=<value> argument.
func Define(key, value string) string {
	return "-D" + key + "=" + value
}

// Configure creates buildDir and runs "meson args..." in sourceDir.
func (m *Meson) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(m.buildDir, 0o755); err != nil {
		return err
	}
	return m.exe.Run(buildsys.Command(ctx, "meson", args, m.env, m.sourceDir))
}

// Build runs "ninja install", which builds and installs in one step.
func (m *Meson) Build(ctx context.Context, jobs int) error {
	args := append([]string{"install"}, buildsys.JobsArg(jobs)...)
	return m.exe.Run(buildsys.Command(ctx, "ninja", args, m.env, m.buildDir))
}

// Install does nothing; Build already installed.
func (m *Meson) Install(context.Context, int) error {
	return nil
}
