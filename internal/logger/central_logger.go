package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// floatPrecisionRatio rounds floats to 3 decimal places in log output
const floatPrecisionRatio = 1000.0

// Global logger instance
var (
	globalLogger   *CentralLogger
	globalLoggerMu sync.Mutex
)

// SetGlobal sets the global CentralLogger instance.
// This should be called once during application startup after loading configuration.
func SetGlobal(cl *CentralLogger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = cl
}

// Global returns the global CentralLogger instance.
// If no logger has been set via SetGlobal, it returns a fallback stderr logger.
func Global() *CentralLogger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalLogger != nil {
		return globalLogger
	}

	globalLogger = &CentralLogger{
		handler:      slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
		level:        slog.LevelInfo,
		moduleLevels: map[string]slog.Level{},
	}
	return globalLogger
}

// CentralLogger owns the output handler and hands out module-scoped loggers
type CentralLogger struct {
	handler      slog.Handler
	level        slog.Level
	moduleLevels map[string]slog.Level
	closer       io.Closer
}

// NewCentralLogger creates a central logger writing to stderr or, when
// cfg.FilePath is set, to that file.
func NewCentralLogger(cfg *LoggingConfig) (*CentralLogger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging config cannot be nil")
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer
	)
	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // path comes from settings
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
		}
		out, closer = f, f
	}

	cl := newCentralLogger(out, parseLogLevel(cfg.Level), cfg.JSON, parseModuleLevels(cfg.ModuleLevels))
	cl.closer = closer
	return cl, nil
}

func parseModuleLevels(levels map[string]string) map[string]slog.Level {
	parsed := make(map[string]slog.Level, len(levels))
	for module, lvl := range levels {
		parsed[strings.TrimSpace(module)] = parseLogLevel(lvl)
	}
	return parsed
}

// NewSlogLogger returns a module-less Logger writing text records to w.
// Intended for tests and tools.
func NewSlogLogger(w io.Writer, level LogLevel) Logger {
	return newCentralLogger(w, parseLogLevel(string(level)), false, nil).Module("")
}

// newCentralLogger builds the shared handler at the most verbose level any
// module asks for; moduleLogger.log applies the effective per-module level.
func newCentralLogger(w io.Writer, level slog.Level, json bool, moduleLevels map[string]slog.Level) *CentralLogger {
	handlerLevel := level
	for _, l := range moduleLevels {
		handlerLevel = min(handlerLevel, l)
	}
	if moduleLevels == nil {
		moduleLevels = map[string]slog.Level{}
	}

	opts := &slog.HandlerOptions{Level: handlerLevel}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &CentralLogger{
		handler:      h,
		level:        level,
		moduleLevels: moduleLevels,
	}
}

// Module returns a logger scoped to a specific module
func (cl *CentralLogger) Module(name string) Logger {
	if cl == nil {
		return nil
	}
	level := cl.level
	if l, ok := cl.moduleLevels[name]; ok {
		level = l
	}
	return &moduleLogger{
		module: name,
		logger: slog.New(cl.handler),
		level:  level,
	}
}

// Close releases the log file, if any
func (cl *CentralLogger) Close() error {
	if cl == nil || cl.closer == nil {
		return nil
	}
	return cl.closer.Close()
}

// parseLogLevel converts string level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// moduleLogger implements Logger for a specific module
type moduleLogger struct {
	module string
	logger *slog.Logger
	level  slog.Level
	fields []Field
}

// Module creates a sub-module logger. Fields are cloned so children never
// observe later changes to the parent.
func (m *moduleLogger) Module(name string) Logger {
	if m == nil {
		return nil
	}
	module := name
	if m.module != "" {
		module = m.module + "." + name
	}
	return &moduleLogger{
		module: module,
		logger: m.logger,
		level:  m.level,
		fields: slices.Clone(m.fields),
	}
}

func (m *moduleLogger) Debug(msg string, fields ...Field) { m.log(slog.LevelDebug, msg, fields...) }
func (m *moduleLogger) Info(msg string, fields ...Field)  { m.log(slog.LevelInfo, msg, fields...) }
func (m *moduleLogger) Warn(msg string, fields ...Field)  { m.log(slog.LevelWarn, msg, fields...) }
func (m *moduleLogger) Error(msg string, fields ...Field) { m.log(slog.LevelError, msg, fields...) }

// With returns a new logger with accumulated fields
func (m *moduleLogger) With(fields ...Field) Logger {
	if m == nil {
		return nil
	}
	return &moduleLogger{
		module: m.module,
		logger: m.logger,
		level:  m.level,
		fields: slices.Concat(m.fields, fields),
	}
}

func (m *moduleLogger) log(level slog.Level, msg string, fields ...Field) {
	if m == nil || level < m.level {
		return
	}

	attrs := make([]slog.Attr, 0, len(m.fields)+len(fields)+1)
	if m.module != "" {
		attrs = append(attrs, slog.String(moduleKey, m.module))
	}
	for i := range m.fields {
		attrs = append(attrs, fieldToAttr(m.fields[i]))
	}
	for i := range fields {
		attrs = append(attrs, fieldToAttr(fields[i]))
	}

	m.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func roundFloat(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	return math.Round(val*floatPrecisionRatio) / floatPrecisionRatio
}

// fieldToAttr converts Field to slog.Attr
func fieldToAttr(f Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int:
		return slog.Int(f.Key, v)
	case int64:
		return slog.Int64(f.Key, v)
	case uint64:
		return slog.Uint64(f.Key, v)
	case float64:
		return slog.Float64(f.Key, roundFloat(v))
	case bool:
		return slog.Bool(f.Key, v)
	case time.Time:
		return slog.Time(f.Key, v)
	case time.Duration:
		// slog.Duration renders nanoseconds in JSON
		return slog.String(f.Key, v.Round(time.Millisecond).String())
	default:
		return slog.Any(f.Key, v)
	}
}
