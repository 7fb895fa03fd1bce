// Package buildsys holds what the toolchain drivers share: the lifecycle
// interface and the way external tools are spawned.
package buildsys

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/kballard/go-shellquote"
)

// BuildSystem captures the lifecycle every toolchain driver implements.
// A jobs value of 0 means no parallelism hint is passed to the tool.
type BuildSystem interface {
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, jobs int) error
	Install(ctx context.Context, jobs int) error
}

// Executor runs a prepared command to completion.
type Executor interface {
	Run(cmd *exec.Cmd) error
}

// CommandError reports a tool that could not be started or exited non-zero.
type CommandError struct {
	Args []string
	Dir  string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s (in %s): %v", shellquote.Join(e.Args...), e.Dir, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the exit status of the failed tool, or -1 if it never ran.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Exec is the default Executor. It inherits stdio and logs every command
// line before running it.
type Exec struct {
	Logger hclog.Logger
}

// Run implements Executor.
func (e *Exec) Run(cmd *exec.Cmd) error {
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	logger := e.Logger
	if logger == nil {
		logger = hclog.Default()
	}
	logger.Info("Executing " + shellquote.Join(cmd.Args...))
	if cmd.Dir != "" {
		logger.Debug("working directory", "dir", cmd.Dir)
	}
	if err := cmd.Run(); err != nil {
		return &CommandError{Args: cmd.Args, Dir: cmd.Dir, Err: err}
	}
	return nil
}

// Command prepares name with args to run in dir. env replaces the process
// environment entirely when non-nil.
func Command(ctx context.Context, name string, args []string, env map[string]string, dir string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = Environ(env)
	}
	return cmd
}

// JobsArg returns the -jN argument for jobs, or nil when jobs is not positive.
func JobsArg(jobs int) []string {
	if jobs <= 0 {
		return nil
	}
	return []string{"-j" + strconv.Itoa(jobs)}
}

// Environ flattens env into sorted KEY=VALUE pairs.
func Environ(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// ParseEnviron turns KEY=VALUE pairs into a map. Later duplicates win.
func ParseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}
