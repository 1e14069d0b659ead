// Package logger provides a structured, module-aware logging system built on Go's standard log/slog.
//
// Every component receives a Logger scoped to its module:
//
//	log := logger.Global().Module("backend")
//	log.Info("fetched containers",
//	    logger.Int("count", len(containers)),
//	    logger.Duration("elapsed", time.Since(start)))
//
// Module loggers can be nested ("analytics.loader") and carry accumulated
// fields through With. Tests use NewSlogLogger with a buffer or io.Discard.
package logger

import (
	"time"
)

// LogLevel represents log severity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// Logger is the logging interface injected into components
type Logger interface {
	// Module returns a logger scoped to a sub-module
	Module(name string) Logger

	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that adds fields to every entry
	With(fields ...Field) Logger
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates a 64-bit integer field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Uint64 creates an unsigned 64-bit integer field.
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float field. Values are rounded to 3 decimals on output.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field. The key is always "error".
func Error(err error) Field {
	if err == nil {
		return Field{Key: errorKey, Value: nil}
	}
	return Field{Key: errorKey, Value: err.Error()}
}

// Duration creates a duration field rendered as a human readable string.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Time creates a time field.
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// Any creates a field holding an arbitrary value.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

const (
	errorKey  = "error"
	moduleKey = "module"
)
