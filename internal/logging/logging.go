// Package logging provides component-scoped structured logging on zerolog,
// with optional size-rotated file output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field (shorthand for structured logging)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      string `mapstructure:"level" toml:"level"`             // debug, info, warn, error
	File       string `mapstructure:"file" toml:"file"`               // log file path (empty = stderr only)
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb"` // max size before rotation (default: 10)
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"` // number of backups to keep (default: 5)
	JSON       bool   `mapstructure:"json" toml:"json"`               // raw JSON lines instead of console format
}

// DefaultConfig returns default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 5,
	}
}

// ParseLevel converts a string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger writes component-tagged entries.
type Logger struct {
	zl   zerolog.Logger
	file *rotatingFile
}

// New creates a Logger writing to stderr and, when cfg.File is set, to a
// rotated log file.
func New(cfg Config) (*Logger, error) {
	var console io.Writer = os.Stderr
	if !cfg.JSON {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	l := &Logger{}
	writers := []io.Writer{console}

	if cfg.File != "" {
		path := cfg.File
		if strings.HasPrefix(path, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("unable to get home dir: %w", err)
			}
			path = filepath.Join(home, path[1:])
		}

		rf, err := openRotatingFile(path, int64(cfg.MaxSizeMB)*1024*1024, cfg.MaxBackups)
		if err != nil {
			return nil, err
		}
		l.file = rf
		writers = append(writers, rf)
	}

	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().Logger()
	return l, nil
}

// NewWithWriter builds a Logger that writes JSON lines to w. Used by tests and
// by callers that manage their own output.
func NewWithWriter(w io.Writer, level string) *Logger {
	return &Logger{zl: zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()}
}

func (l *Logger) event(e *zerolog.Event, component string, fields []Field) *zerolog.Event {
	e = e.Str("component", component)
	for _, f := range fields {
		e = e.Interface(f.Key, f.Value)
	}
	return e
}

// Debug logs a debug message
func (l *Logger) Debug(component, msg string, fields ...Field) {
	if l == nil {
		return
	}
	l.event(l.zl.Debug(), component, fields).Msg(msg)
}

// Info logs an info message
func (l *Logger) Info(component, msg string, fields ...Field) {
	if l == nil {
		return
	}
	l.event(l.zl.Info(), component, fields).Msg(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(component, msg string, fields ...Field) {
	if l == nil {
		return
	}
	l.event(l.zl.Warn(), component, fields).Msg(msg)
}

// Error logs an error message with an error
func (l *Logger) Error(component, msg string, err error, fields ...Field) {
	if l == nil {
		return
	}
	l.event(l.zl.Error().Err(err), component, fields).Msg(msg)
}

// Level returns the current minimum level.
func (l *Logger) Level() zerolog.Level {
	return l.zl.GetLevel()
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level string) {
	l.zl = l.zl.Level(ParseLevel(level))
}

// FilePath returns the log file path, or "" when logging only to stderr.
func (l *Logger) FilePath() string {
	if l.file == nil {
		return ""
	}
	return l.file.path
}

// Close closes the log file
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Nop returns a no-operation logger that discards all output
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}
