// Package logging builds the hclog loggers used by winebuild.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// EnvLevel names the environment variable consulted when no level is given.
const EnvLevel = "WINEBUILD_LOG_LEVEL"

// DefaultLevel is used when neither a flag nor EnvLevel sets a level.
const DefaultLevel = "info"

// Level picks the effective level name: flag first, then EnvLevel, then
// DefaultLevel.
func Level(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvLevel); env != "" {
		return env
	}
	return DefaultLevel
}

// New returns a logger writing to w, or stderr when w is nil. A level of
// the form "json" or "json:<level>" switches to JSON output.
func New(name, level string, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	jsonFormat := false
	if rest, ok := strings.CutPrefix(level, "json"); ok {
		jsonFormat = true
		level = strings.TrimPrefix(rest, ":")
		if level == "" {
			level = DefaultLevel
		}
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		Level:       hclog.LevelFromString(level),
		JSONFormat:  jsonFormat,
		Output:      w,
		DisableTime: true,
	})
}
