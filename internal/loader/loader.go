// Package loader discovers option scripts, loads them with ixgo and applies
// their hooks to projects.
package loader

import (
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"unsafe"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goplus/ixgo"
	"github.com/goplus/ixgo/xgobuild"

	gox "github.com/goplus/winebuild/internal/ixgo"
	"github.com/goplus/winebuild/internal/project"
	"github.com/goplus/winebuild/options"
)

// EntryPoint is the function a plain Go option script exports.
const EntryPoint = "ConfigureOptions"

// Pattern matches option scripts directly inside the scripts directory.
const Pattern = "*.{go,gox}"

// classfileMain represents an XGo class file that can be executed.
type classfileMain interface {
	Main()
}

// Script is a loaded option script.
type Script struct {
	Path string
	Hook options.Hook
}

// Loader loads option scripts into hooks.
type Loader struct {
	ctx *ixgo.Context
}

// New creates a Loader with the given ixgo context. A nil ctx gets a fresh
// context that supports multiple interpreters.
func New(ctx *ixgo.Context) *Loader {
	if ctx == nil {
		ctx = ixgo.NewContext(ixgo.SupportMultipleInterp)
	}
	return &Loader{ctx: ctx}
}

// Discover returns the option scripts of dir sorted by file name. A missing
// dir has no scripts.
func Discover(dir string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	names, err := doublestar.Glob(os.DirFS(dir), Pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	paths := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// Load loads one script and returns its hook. A script that loads cleanly
// but has no entry point returns a nil hook and no error.
//
// A .go file is a standalone main package that may export
//
//	func ConfigureOptions(project string, opts *options.Options)
//
// A *_opts.gox file is an OptionsF classfile whose onProject callback is
// the hook. Its file name before "_opts.gox" must be a valid identifier.
func (l *Loader) Load(path string) (hook options.Hook, err error) {
	defer func() {
		if r := recover(); r != nil {
			hook, err = nil, fmt.Errorf("load %s: panic: %v", filepath.Base(path), r)
		}
	}()

	switch {
	case strings.HasSuffix(path, gox.ClassExt):
		hook, err = l.loadClassfile(path)
	case filepath.Ext(path) == ".go":
		hook, err = l.loadGoFile(path)
	default:
		return nil, fmt.Errorf("load %s: unsupported script type", filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return hook, nil
}

func (l *Loader) loadGoFile(path string) (options.Hook, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	interp, err := l.interp(path, src)
	if err != nil {
		return nil, err
	}
	fn, ok := interp.GetFunc(EntryPoint)
	if !ok {
		return nil, nil
	}
	switch f := fn.(type) {
	case func(string, *options.Options):
		return f, nil
	case options.Hook:
		return f, nil
	}
	return nil, fmt.Errorf("%s has type %T, want func(string, *options.Options)", EntryPoint, fn)
}

func (l *Loader) loadClassfile(path string) (options.Hook, error) {
	className := strings.TrimSuffix(filepath.Base(path), gox.ClassExt)
	if !token.IsIdentifier(className) || strings.HasPrefix(className, "_") {
		return nil, fmt.Errorf("class name %q is not a valid identifier", className)
	}
	// Classfiles are only recognized by name when built as a directory.
	source, err := xgobuild.BuildFSDir(l.ctx, scriptFS{path: filepath.Clean(path)}, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	interp, err := l.interp("main.go", source)
	if err != nil {
		return nil, err
	}

	typ, ok := interp.GetType(className)
	if !ok {
		return nil, fmt.Errorf("class not found: %s", className)
	}
	val := reflect.New(typ)
	val.Interface().(classfileMain).Main()

	hook, _ := valueOf(val.Elem(), "fOnProject").(options.Hook)
	if hook == nil {
		return nil, nil
	}
	return hook, nil
}

// scriptFS is a directory view holding only the script at path, so that
// sibling scripts are not compiled into the same package.
type scriptFS struct {
	path string
}

func (s scriptFS) ReadDir(string) ([]fs.DirEntry, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return nil, err
	}
	return []fs.DirEntry{fs.FileInfoToDirEntry(fi)}, nil
}

func (s scriptFS) ReadFile(filename string) ([]byte, error) {
	if filename != s.path {
		return nil, &fs.PathError{Op: "open", Path: filename, Err: fs.ErrNotExist}
	}
	return os.ReadFile(filename)
}

func (scriptFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

func (scriptFS) Base(filename string) string {
	return filepath.Base(filename)
}

func (scriptFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// interp loads a Go source file and runs its package initialization.
func (l *Loader) interp(filename string, src []byte) (*ixgo.Interp, error) {
	pkg, err := l.ctx.LoadFile(filename, src)
	if err != nil {
		return nil, err
	}
	interp, err := l.ctx.NewInterp(pkg)
	if err != nil {
		return nil, err
	}
	if err = interp.RunInit(); err != nil {
		return nil, err
	}
	return interp, nil
}

// LoadAll loads paths in order, dropping scripts without an entry point.
// The first failing script aborts loading.
func (l *Loader) LoadAll(paths []string) ([]Script, error) {
	var scripts []Script
	for _, path := range paths {
		hook, err := l.Load(path)
		if err != nil {
			return nil, err
		}
		if hook == nil {
			continue
		}
		scripts = append(scripts, Script{Path: path, Hook: hook})
	}
	return scripts, nil
}

// Apply calls every script once per project, scripts in order, passing the
// project's own Options. A panicking script aborts with an error naming it.
func Apply(scripts []Script, projects []*project.Project) error {
	for _, s := range scripts {
		for _, p := range projects {
			if err := call(s, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func call(s Script, p *project.Project) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: project %s: panic: %v", filepath.Base(s.Path), p.Name, r)
		}
	}()
	s.Hook(p.Name, p.Options)
	return nil
}

// unexportValueOf creates a reflect.Value that allows access to unexported fields.
func unexportValueOf(field reflect.Value) reflect.Value {
	return reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
}

// valueOf retrieves the value of a field by name from a struct element,
// including fields promoted from embedded structs. It returns nil when the
// field does not exist.
func valueOf(elem reflect.Value, name string) any {
	field := elem.FieldByName(name)
	if !field.IsValid() {
		return nil
	}
	if token.IsExported(name) {
		return field.Interface()
	}
	return unexportValueOf(field).Interface()
}
