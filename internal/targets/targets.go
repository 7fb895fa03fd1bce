// Package targets turns requested kinds into projects.
package targets

import (
	"errors"
	"fmt"

	"github.com/goplus/winebuild/internal/env"
	"github.com/goplus/winebuild/internal/project"
)

// Arch selects which Wine variants are built.
type Arch int

const (
	X86    Arch = iota + 1 // 32-bit only
	X64                    // 64-bit only
	X86_64                 // both, with the 32-bit build linked to the 64-bit one
)

func (a Arch) has64() bool { return a == X64 || a == X86_64 }
func (a Arch) has32() bool { return a == X86 || a == X86_64 }

// Kinds lists every kind accepted by Resolve.
var Kinds = []string{"wine32", "wine64", "wine", "dxvk-winelib", "dxvk-mingw"}

// ErrUnknownKind is returned by Resolve for a kind outside Kinds.
var ErrUnknownKind = errors.New("unknown configure kind")

var wineArchs = map[string]Arch{
	"wine32": X86,
	"wine64": X64,
	"wine":   X86_64,
}

// Validate reports the first kind that Resolve would reject.
func Validate(kinds []string) error {
	for _, kind := range kinds {
		if _, ok := wineArchs[kind]; ok {
			continue
		}
		if _, ok := flavors[kind]; ok {
			continue
		}
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return nil
}

// Resolve creates the projects of one kind, performing the kind's setup.
func Resolve(ctx *env.Context, kind string) ([]*project.Project, error) {
	if arch, ok := wineArchs[kind]; ok {
		return Wine(ctx, arch)
	}
	if flavor, ok := flavors[kind]; ok {
		return DXVK(ctx, flavor)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// ResolveAll resolves every kind in order into one flat list.
func ResolveAll(ctx *env.Context, kinds []string) ([]*project.Project, error) {
	if err := Validate(kinds); err != nil {
		return nil, err
	}
	var projects []*project.Project
	for _, kind := range kinds {
		ps, err := Resolve(ctx, kind)
		if err != nil {
			return nil, err
		}
		projects = append(projects, ps...)
	}
	return projects, nil
}
