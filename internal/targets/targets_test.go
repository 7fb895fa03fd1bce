package targets

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/winebuild/internal/env"
	"github.com/goplus/winebuild/internal/project"
	"github.com/goplus/winebuild/options"
)

// newTree lays out a minimal source tree and returns a context over it.
func newTree(t *testing.T, environ ...string) *env.Context {
	t.Helper()
	src := t.TempDir()
	build := t.TempDir()
	dxvk := filepath.Join(src, "dxvk")
	if err := os.MkdirAll(dxvk, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"build-win32.txt":  "[properties]\nc_args = ['-m32','-pthread']\nc_link_args = ['-static']\n",
		"build-win64.txt":  "[properties]\nc_args = '-m64'\n",
		"build-wine32.txt": "[properties]\ncpp_args = ['-m32']\n",
		"build-wine64.txt": "[binaries]\nc = 'winegcc'\n",
		SetupScript:        "#!/bin/sh\necho setup\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dxvk, name), []byte(content), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	ctx, err := env.New(src, build, environ)
	if err != nil {
		t.Fatal(err)
	}
	return ctx
}

func byName(ps []*project.Project) map[string]*project.Project {
	m := make(map[string]*project.Project, len(ps))
	for _, p := range ps {
		m[p.Name] = p
	}
	return m
}

func TestDXVKMinGW(t *testing.T) {
	ctx := newTree(t, "CFLAGS=-O2", "LDFLAGS=-Wl,-O1")
	projects, err := DXVK(ctx, MinGW)
	if err != nil {
		t.Fatalf("DXVK: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "dxvk-mingw-x64" || projects[1].Name != "dxvk-mingw-x32" {
		t.Fatalf("projects = %v", projects)
	}

	root := filepath.Join(ctx.BuildDir, "dxvk-mingw")
	x32 := projects[1]
	if x32.DestDir != filepath.Join(root, "build.32") || projects[0].DestDir != filepath.Join(root, "build.64") {
		t.Fatalf("dest dirs = %q, %q", projects[0].DestDir, x32.DestDir)
	}
	if x32.Toolchain != project.Meson || x32.SourceDir != filepath.Join(ctx.SrcDir, "dxvk") {
		t.Fatalf("x32 = %+v", x32)
	}

	x32.PreConfigure()
	crossFile := filepath.Join(ctx.SrcDir, "dxvk", "build-win32.txt")
	want := []string{
		"--cross-file", crossFile,
		"--bindir", "x32",
		"--libdir", "x32",
		"--prefix", root,
		filepath.Join(root, "build.32"),
		"-Dc_args=-m32 -pthread -O2",
		"-Dc_link_args=-static -Wl,-O1",
		"-Dcpp_link_args=-Wl,-O1",
	}
	if diff := cmp.Diff(want, x32.Args()); diff != "" {
		t.Fatalf("x32 args mismatch (-want +got):\n%s", diff)
	}

	x64 := projects[0]
	if got := x64.Options.Flags(options.CArgs); got != "-m64 -O2" {
		t.Errorf("x64 c_args = %q", got)
	}

	data, err := os.ReadFile(filepath.Join(root, SetupScript))
	if err != nil {
		t.Fatalf("setup script not copied: %v", err)
	}
	if !strings.Contains(string(data), "echo setup") {
		t.Errorf("setup script content = %q", data)
	}
	if fi, _ := os.Stat(filepath.Join(root, SetupScript)); fi.Mode().Perm()&0o100 == 0 {
		t.Errorf("setup script lost its execute bit: %v", fi.Mode())
	}
}

func TestDXVKWineLib(t *testing.T) {
	ctx := newTree(t)
	projects, err := DXVK(ctx, WineLib)
	if err != nil {
		t.Fatalf("DXVK: %v", err)
	}
	ps := byName(projects)
	x32, ok := ps["dxvk-winelib-x32"]
	if !ok {
		t.Fatalf("missing dxvk-winelib-x32 in %v", projects)
	}
	if got := x32.Options.Flags(options.CppArgs); got != "-m32" {
		t.Errorf("cpp_args = %q", got)
	}
	x64 := ps["dxvk-winelib-x64"]
	for _, k := range []string{options.CArgs, options.CppArgs, options.CLinkArgs, options.CppLinkArgs} {
		if x64.Options.HasFlags(k) {
			t.Errorf("x64 %s = %q, want empty", k, x64.Options.Flags(k))
		}
	}
	if !slices.Contains(x64.Options.Args(), filepath.Join(ctx.SrcDir, "dxvk", "build-wine64.txt")) {
		t.Errorf("x64 args lack the winelib cross file: %v", x64.Options.Args())
	}
}

func TestDXVKMalformedCrossFile(t *testing.T) {
	ctx := newTree(t)
	bad := filepath.Join(ctx.SrcDir, "dxvk", "build-win64.txt")
	if err := os.WriteFile(bad, []byte("[properties]\nc_args = run('x')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DXVK(ctx, MinGW); err == nil {
		t.Fatal("expected an error for a malformed cross file")
	}
}

func TestWineBoth(t *testing.T) {
	ctx := newTree(t, "CFLAGS=-O2", "PKG_CONFIG_PATH=/usr/lib/pkgconfig")
	projects, err := Wine(ctx, X86_64)
	if err != nil {
		t.Fatalf("Wine: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	ps := byName(projects)
	w64, w32 := ps["wine-64"], ps["wine-32"]
	if w64 == nil || w32 == nil {
		t.Fatalf("projects = %v", projects)
	}

	if w64.BuildPriority != project.DefaultPriority-1 || w64.InstallPriority != project.DefaultPriority {
		t.Errorf("wine-64 priorities = %d/%d", w64.BuildPriority, w64.InstallPriority)
	}
	if w32.InstallPriority != project.DefaultPriority-1 || w32.BuildPriority != project.DefaultPriority {
		t.Errorf("wine-32 priorities = %d/%d", w32.BuildPriority, w32.InstallPriority)
	}

	root := filepath.Join(ctx.BuildDir, "wine")
	install := filepath.Join(root, "install")
	if diff := cmp.Diff([]string{"--prefix", install, "--enable-win64"}, w64.Options.Args()); diff != "" {
		t.Errorf("wine-64 args mismatch (-want +got):\n%s", diff)
	}
	wantArgs := []string{"--prefix", install, "--with-wine64=" + filepath.Join(root, "wine64")}
	if diff := cmp.Diff(wantArgs, w32.Options.Args()); diff != "" {
		t.Errorf("wine-32 args mismatch (-want +got):\n%s", diff)
	}

	if w32.Env["PKG_CONFIG_PATH"] != Lib32PkgConfigPath {
		t.Errorf("wine-32 PKG_CONFIG_PATH = %q", w32.Env["PKG_CONFIG_PATH"])
	}
	if w64.Env["PKG_CONFIG_PATH"] != "/usr/lib/pkgconfig" {
		t.Errorf("wine-64 PKG_CONFIG_PATH = %q", w64.Env["PKG_CONFIG_PATH"])
	}
	if ctx.Getenv("PKG_CONFIG_PATH") != "/usr/lib/pkgconfig" {
		t.Error("context environment was modified")
	}
	if w32.DestDir != filepath.Join(root, "wine32") || w64.DestDir != filepath.Join(root, "wine64") {
		t.Errorf("dest dirs = %q, %q", w32.DestDir, w64.DestDir)
	}
	if got := w32.Options.Flags(options.CFLAGS); got != "-O2" {
		t.Errorf("wine-32 CFLAGS = %q", got)
	}
}

func TestWineSingleArch(t *testing.T) {
	for _, tt := range []struct {
		arch Arch
		name string
	}{
		{X86, "wine-32"},
		{X64, "wine-64"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTree(t)
			projects, err := Wine(ctx, tt.arch)
			if err != nil {
				t.Fatalf("Wine: %v", err)
			}
			if len(projects) != 1 || projects[0].Name != tt.name {
				t.Fatalf("projects = %v", projects)
			}
			p := projects[0]
			if p.BuildPriority != project.DefaultPriority || p.InstallPriority != project.DefaultPriority {
				t.Errorf("priorities = %d/%d, want defaults", p.BuildPriority, p.InstallPriority)
			}
			for _, arg := range p.Options.Args() {
				if strings.HasPrefix(arg, "--with-wine64") {
					t.Errorf("single arch build got %q", arg)
				}
			}
		})
	}
}

func TestWriteEnvScript(t *testing.T) {
	ctx := newTree(t)
	if _, err := Wine(ctx, X64); err != nil {
		t.Fatalf("Wine: %v", err)
	}
	path := filepath.Join(ctx.BuildDir, EnvScript)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("env script missing: %v", err)
	}
	install := filepath.Join(ctx.BuildDir, "wine", "install")
	for _, snippet := range []string{
		"#!/bin/bash\n",
		`export PATH="` + install + `/bin:$PATH"`,
		`export LD_LIBRARY_PATH="` + install + "/lib:" + install + `/lib64:$LD_LIBRARY_PATH"`,
		`export PS1="(` + filepath.Base(ctx.BuildDir) + `) $PS1"`,
		") -i",
	} {
		if !strings.Contains(string(data), snippet) {
			t.Errorf("env script missing %q:\n%s", snippet, data)
		}
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm()&0o110 != 0o110 {
		t.Errorf("env script mode = %v, want user and group execute", fi.Mode())
	}
}

func TestResolve(t *testing.T) {
	ctx := newTree(t)
	projects, err := ResolveAll(ctx, []string{"wine", "dxvk-mingw"})
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	var got []string
	for _, p := range projects {
		got = append(got, p.Name)
	}
	want := []string{"wine-64", "wine-32", "dxvk-mingw-x64", "dxvk-mingw-x32"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveUnknownKind(t *testing.T) {
	ctx := newTree(t)
	_, err := ResolveAll(ctx, []string{"wine", "dxvk-native"})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("ResolveAll error = %v, want ErrUnknownKind", err)
	}
	// Validation happens before any setup side effect.
	if _, err := os.Stat(filepath.Join(ctx.BuildDir, EnvScript)); !os.IsNotExist(err) {
		t.Errorf("env script written before validation: %v", err)
	}
	if _, err := Resolve(ctx, "wine128"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Resolve error = %v, want ErrUnknownKind", err)
	}
	if err := Validate(Kinds); err != nil {
		t.Errorf("Validate(Kinds) = %v", err)
	}
}
