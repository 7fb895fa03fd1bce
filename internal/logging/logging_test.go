package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestLevel(t *testing.T) {
	t.Setenv(EnvLevel, "")
	if got := Level(""); got != DefaultLevel {
		t.Errorf("Level() = %q, want %q", got, DefaultLevel)
	}
	t.Setenv(EnvLevel, "debug")
	if got := Level(""); got != "debug" {
		t.Errorf("Level() = %q, want debug from env", got)
	}
	if got := Level("trace"); got != "trace" {
		t.Errorf("Level(trace) = %q, flag must win", got)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New("winebuild", "warn", &buf)
	logger.Info("hidden")
	logger.Warn("file already exists", "path", "/tmp/x")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN]  winebuild: file already exists: path=/tmp/x") {
		t.Errorf("unexpected output %q", out)
	}
	if logger.GetLevel() != hclog.Warn {
		t.Errorf("level = %v", logger.GetLevel())
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("winebuild", "json:debug", &buf)
	logger.Debug("Executing", "cmd", "make all")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not JSON: %q: %v", buf.String(), err)
	}
	if line["@message"] != "Executing" || line["cmd"] != "make all" {
		t.Errorf("line = %v", line)
	}
}
