// Package log wraps logrus behind a small package-level API. The TUI owns
// the terminal, so by default everything goes to a log file rather than
// stdout.
package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var logger = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard) // silent until Setup is called
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// Setup directs logging to the given file, creating parent directories as
// needed, and sets the level. An empty path leaves logging discarded, which
// is what tests want.
func Setup(path string, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	logger.SetOutput(f)
	return nil
}

// SetOutput redirects log output. Used by tests to capture entries.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Fields is re-exported so callers don't import logrus directly.
type Fields = logrus.Fields

// WithFields returns an entry carrying structured fields.
func WithFields(f Fields) *logrus.Entry {
	return logger.WithFields(f)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Warnf logs a formatted warning.
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Errorf logs a formatted error.
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
