package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `
jobs = 8
ccache = false
src = "../wine-src"
scripts = "/etc/winebuild/scripts"

[env]
CFLAGS = "-O2"
LDFLAGS = "-Wl,-O1"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Jobs != 8 {
		t.Errorf("Jobs = %d", cfg.Jobs)
	}
	if cfg.CCacheEnabled(true) {
		t.Error("ccache = false was not honored")
	}
	if want := filepath.Join(filepath.Dir(path), "../wine-src"); cfg.Src != want {
		t.Errorf("Src = %q, want %q", cfg.Src, want)
	}
	if got := cfg.ScriptsDir("/src"); got != "/etc/winebuild/scripts" {
		t.Errorf("ScriptsDir = %q", got)
	}
	want := map[string]string{"CFLAGS": "-O2", "LDFLAGS": "-Wl,-O1"}
	if diff := cmp.Diff(want, cfg.Env); diff != "" {
		t.Errorf("Env mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Jobs != 0 || !cfg.CCacheEnabled(true) || cfg.CCacheEnabled(false) {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if got := cfg.ScriptsDir("/src"); got != filepath.Join("/src", DefaultScriptsDir) {
		t.Errorf("ScriptsDir = %q", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":   "jobs = = 3",
		"type":     `jobs = "many"`,
		"negative": "jobs = -2",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(write(t, content)); err == nil {
				t.Fatal("Load succeeded, want error")
			}
		})
	}
}
