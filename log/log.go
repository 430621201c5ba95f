package log

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Loggable is implemented by anything that wants its String() identity
// attached to every log line it emits through, e.g. a Face or a Transport.
type Loggable interface {
	String() string
}

// Logger is a small leveled, key-value logger. The concrete implementation
// wraps log/slog; callers never depend on slog directly.
type Logger struct {
	level atomic.Int64
	sl    *slog.Logger
}

var defaultOnce sync.Once
var defaultLogger *Logger

// Default returns the process-wide default logger.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stderr)
	})
	return defaultLogger
}

// New constructs a Logger writing text-formatted lines to w at LevelInfo.
func New(w *os.File) *Logger {
	l := &Logger{sl: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	l.level.Store(int64(LevelInfo))
	return l
}

// Level returns the logger's current minimum level.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the logger's minimum level.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int64(level))
}

func (l *Logger) log(level Level, obj any, msg string, kv ...any) {
	if level < l.Level() {
		return
	}
	args := make([]any, 0, len(kv)+2)
	if obj != nil {
		if s, ok := obj.(Loggable); ok {
			args = append(args, "module", s.String())
		} else {
			args = append(args, "module", fmt.Sprintf("%v", obj))
		}
	}
	args = append(args, kv...)

	switch {
	case level <= LevelTrace:
		l.sl.Debug(msg, args...)
	case level <= LevelDebug:
		l.sl.Debug(msg, args...)
	case level <= LevelInfo:
		l.sl.Info(msg, args...)
	case level <= LevelWarn:
		l.sl.Warn(msg, args...)
	default:
		l.sl.Error(msg, args...)
	}
}

// Trace logs at LevelTrace on the default logger.
func Trace(obj any, msg string, kv ...any) { Default().log(LevelTrace, obj, msg, kv...) }

// Debug logs at LevelDebug on the default logger.
func Debug(obj any, msg string, kv ...any) { Default().log(LevelDebug, obj, msg, kv...) }

// Info logs at LevelInfo on the default logger.
func Info(obj any, msg string, kv ...any) { Default().log(LevelInfo, obj, msg, kv...) }

// Warn logs at LevelWarn on the default logger.
func Warn(obj any, msg string, kv ...any) { Default().log(LevelWarn, obj, msg, kv...) }

// Error logs at LevelError on the default logger.
func Error(obj any, msg string, kv ...any) { Default().log(LevelError, obj, msg, kv...) }

// Fatal logs at LevelFatal on the default logger and terminates the process,
// matching the teacher's convention of using Fatal only for unrecoverable
// startup errors, never for per-packet failures.
func Fatal(obj any, msg string, kv ...any) {
	Default().log(LevelFatal, obj, msg, kv...)
	os.Exit(1)
}
