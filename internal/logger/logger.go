package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured logging tagged with the emitting component.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// ParseLevel maps a level name to a zerolog level. An empty name falls back
// to LOG_LEVEL, then DEBUG=1, then info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		name = os.Getenv("LOG_LEVEL")
	}
	if name == "" && os.Getenv("DEBUG") == "1" {
		name = "debug"
	}

	switch strings.ToLower(name) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// New builds a console or JSON logger writing to stderr.
func New(format string, level zerolog.Level) (*ZerologAdapter, error) {
	switch strings.ToLower(format) {
	case "", "console":
		return NewConsoleLogger(level), nil
	case "json":
		return NewZerolog(os.Stderr, level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, string, map[string]interface{})   {}
func (nopLogger) Info(string, string, map[string]interface{})    {}
func (nopLogger) Warning(string, string, map[string]interface{}) {}
func (nopLogger) Error(string, error, map[string]interface{})    {}
