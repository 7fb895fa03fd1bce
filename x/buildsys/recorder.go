package buildsys

import (
	"fmt"
	"io"
	"os/exec"
	"slices"

	"github.com/kballard/go-shellquote"
)

// Invocation is one command seen by a Recorder.
type Invocation struct {
	Args []string
	Dir  string
	Env  []string
}

// Getenv returns the value of key in the invocation environment.
func (i Invocation) Getenv(key string) (string, bool) {
	v, ok := ParseEnviron(i.Env)[key]
	return v, ok
}

// String renders the invocation as a shell command line.
func (i Invocation) String() string {
	return fmt.Sprintf("(cd %s && %s)", shellquote.Join(i.Dir), shellquote.Join(i.Args...))
}

// Recorder is an Executor that records commands instead of running them.
// It backs dry runs.
type Recorder struct {
	// Out, when set, receives one line per recorded command.
	Out io.Writer
	// Fail, when set, is consulted for every command; a non-nil result is
	// returned as the command's error.
	Fail func(Invocation) error

	Invocations []Invocation
}

// Run implements Executor.
func (r *Recorder) Run(cmd *exec.Cmd) error {
	inv := Invocation{
		Args: slices.Clone(cmd.Args),
		Dir:  cmd.Dir,
		Env:  slices.Clone(cmd.Env),
	}
	r.Invocations = append(r.Invocations, inv)
	if r.Out != nil {
		fmt.Fprintln(r.Out, inv.String())
	}
	if r.Fail != nil {
		if err := r.Fail(inv); err != nil {
			return &CommandError{Args: inv.Args, Dir: inv.Dir, Err: err}
		}
	}
	return nil
}

// Commands returns the argv of every recorded invocation.
func (r *Recorder) Commands() [][]string {
	out := make([][]string, len(r.Invocations))
	for i, inv := range r.Invocations {
		out[i] = inv.Args
	}
	return out
}
