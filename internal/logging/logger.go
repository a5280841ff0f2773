// Package logging provides a logging abstraction layer that decouples the categorizer
// from a specific logging framework. Components receive a Logger through their
// constructors; the logrus-backed implementation is the production default.
package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger defines the interface for structured logging throughout the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger

	// Fatal logs a fatal-level message and exits the program
	Fatal(msg string, fields ...Field)

	// Fatalf logs a fatal-level message with formatting and exits the program
	Fatalf(msg string, args ...interface{})
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = logrus.New()
)

// GetLogger returns a Logger backed by the process-wide logrus instance.
// Constructors fall back to it when no logger is injected.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return NewLogrusAdapterFromLogger(defaultLogger)
}

// SetDefaultLogger replaces the process-wide logrus instance.
func SetDefaultLogger(logger *logrus.Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// SetAllLogLevels sets the level on the global logrus logger and on the
// process-wide default used by GetLogger.
func SetAllLogLevels(level logrus.Level) {
	logrus.SetLevel(level)
	defaultMu.Lock()
	defaultLogger.SetLevel(level)
	defaultMu.Unlock()
}
