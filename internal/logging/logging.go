// Package logging provides the process logger: a thin facade over zerolog
// so the rest of the code passes flat key-value pairs and never imports
// the logging library directly.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger behind level methods taking alternating
// key-value pairs after the message.
type Logger struct {
	zlog zerolog.Logger
}

// Options controls logger construction.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Format is "console" for human output or "json". Empty means console.
	Format string
	// Writer overrides the output, used by tests. Nil means stderr.
	Writer io.Writer
}

// New creates a Logger from Options.
func New(opts Options) *Logger {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}
	if opts.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zlog := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(opts.Level))
	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Component returns a child logger tagged with a component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", name).Logger()}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, kv ...any) { emit(l.zlog.Debug(), msg, kv) }

// Info logs at info level.
func (l *Logger) Info(msg string, kv ...any) { emit(l.zlog.Info(), msg, kv) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, kv ...any) { emit(l.zlog.Warn(), msg, kv) }

// Error logs at error level.
func (l *Logger) Error(msg string, kv ...any) { emit(l.zlog.Error(), msg, kv) }

func emit(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}

func parseLevel(s string) zerolog.Level {
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
