package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel enumerates severity tiers.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogLevel maps a case-insensitive level name to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	for i, n := range levelNames {
		if strings.EqualFold(s, n) {
			return LogLevel(i), nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// Logger is the levelled logger shared across the pipeline. It formats
// printf-style messages and hands them to a slog handler.
type Logger struct {
	mu    sync.Mutex
	inner *slog.Logger
	file  *os.File
}

var (
	globalLogger *Logger
	logOnce      sync.Once
)

// InitLogger creates the singleton logger. Call once at startup.
// With console=false nothing is written to stdout; use that while a
// terminal UI owns the screen.
func InitLogger(minLevel LogLevel, logFilePath string, console bool) *Logger {
	logOnce.Do(func() {
		var writers []io.Writer
		if console {
			writers = append(writers, os.Stdout)
		}

		var f *os.File
		if logFilePath != "" {
			var err error
			f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				writers = append(writers, f)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not open log file %s: %v\n", logFilePath, err)
			}
		}

		var w io.Writer = io.Discard
		if len(writers) > 0 {
			w = io.MultiWriter(writers...)
		}
		globalLogger = NewLogger(w, minLevel)
		globalLogger.file = f
	})
	return globalLogger
}

// NewLogger builds a standalone logger writing text records to w.
func NewLogger(w io.Writer, minLevel LogLevel) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: minLevel.slogLevel()})
	return &Logger{inner: slog.New(h)}
}

// L returns the global logger, initialising a stdout-only INFO logger
// if InitLogger has not been called.
func L() *Logger {
	if globalLogger == nil {
		return InitLogger(INFO, "", true)
	}
	return globalLogger
}

// Close closes the log file, if any.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func (l *Logger) log(lvl slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !l.inner.Enabled(ctx, lvl) {
		return
	}
	l.inner.Log(ctx, lvl, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(f string, a ...any) { l.log(slog.LevelDebug, f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.log(slog.LevelInfo, f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.log(slog.LevelWarn, f, a...) }
func (l *Logger) Error(f string, a ...any) { l.log(slog.LevelError, f, a...) }
