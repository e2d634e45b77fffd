package utils

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the levelled logger used across the pipeline. It wraps a
// logrus.Logger and keeps printf-style call sites.
type Logger struct {
	mu    sync.Mutex
	inner *logrus.Logger
	file  *os.File
}

var (
	globalLogger *Logger
	logOnce      sync.Once
)

// ParseLevel converts "debug", "info", "warn", "error" to a logrus level.
// Unknown strings fall back to info.
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// NewLogger builds a logger writing to w.
func NewLogger(w io.Writer, minLevel logrus.Level) *Logger {
	inner := logrus.New()
	inner.SetOutput(w)
	inner.SetLevel(minLevel)
	inner.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return &Logger{inner: inner}
}

// InitLogger creates the singleton logger. Call once at startup.
// Stdout is always a target; logFilePath adds an append-only file.
func InitLogger(minLevel logrus.Level, logFilePath string) *Logger {
	logOnce.Do(func() {
		writers := []io.Writer{os.Stdout}

		var f *os.File
		if logFilePath != "" {
			var err error
			f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				writers = append(writers, f)
			} else {
				logrus.Warnf("could not open log file %s: %v", logFilePath, err)
			}
		}

		globalLogger = NewLogger(io.MultiWriter(writers...), minLevel)
		globalLogger.file = f
	})
	return globalLogger
}

// L returns the global logger, initialising a stdout-only info logger
// if InitLogger has not been called.
func L() *Logger {
	if globalLogger == nil {
		return InitLogger(logrus.InfoLevel, "")
	}
	return globalLogger
}

// SetLevel changes the minimum level after initialisation.
func (l *Logger) SetLevel(lvl logrus.Level) {
	l.inner.SetLevel(lvl)
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

func (l *Logger) Debug(f string, a ...any) { l.inner.Debugf(f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.inner.Infof(f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.inner.Warnf(f, a...) }
func (l *Logger) Error(f string, a ...any) { l.inner.Errorf(f, a...) }
func (l *Logger) Fatal(f string, a ...any) { l.inner.Fatalf(f, a...) }
