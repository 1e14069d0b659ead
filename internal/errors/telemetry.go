// Package errors - telemetry integration (optional)
package errors

import (
	"fmt"
	"sync/atomic"

	"github.com/getsentry/sentry-go"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/privacy"
)

// TelemetryReporter is an interface for reporting errors to telemetry systems
type TelemetryReporter interface {
	ReportError(err *EnhancedError)
	IsEnabled() bool
}

var globalTelemetryReporter atomic.Pointer[TelemetryReporter]

// SetTelemetryReporter sets the global telemetry reporter. nil disables reporting.
func SetTelemetryReporter(reporter TelemetryReporter) {
	if reporter == nil {
		globalTelemetryReporter.Store(nil)
		return
	}
	globalTelemetryReporter.Store(&reporter)
}

func reportToTelemetry(ee *EnhancedError) {
	ptr := globalTelemetryReporter.Load()
	if ptr == nil {
		return
	}
	if r := *ptr; r != nil && r.IsEnabled() {
		r.ReportError(ee)
	}
}

// SentryReporter implements TelemetryReporter for Sentry
type SentryReporter struct {
	enabled bool
}

// NewSentryReporter creates a new Sentry telemetry reporter
func NewSentryReporter(enabled bool) *SentryReporter {
	return &SentryReporter{enabled: enabled}
}

// IsEnabled returns whether Sentry telemetry is enabled
func (sr *SentryReporter) IsEnabled() bool {
	return sr.enabled
}

// ReportError sends the error to Sentry with URLs, tokens and coordinates scrubbed.
// Validation errors are expected user input problems and are not reported.
func (sr *SentryReporter) ReportError(ee *EnhancedError) {
	if !sr.enabled || ee.IsReported() || ee.Category == CategoryValidation {
		return
	}

	message := privacy.ScrubMessage(fmt.Sprintf("[%s] %s", ee.Category, ee.Err.Error()))

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", ee.Component)
		scope.SetTag("category", string(ee.Category))
		for key, value := range ee.GetContext() {
			if s, ok := value.(string); ok {
				value = privacy.ScrubMessage(s)
			}
			scope.SetContext(key, map[string]any{"value": value})
		}
		scope.SetLevel(levelFor(ee.Category))
		scope.SetFingerprint([]string{ee.Component, string(ee.Category)})

		event := sentry.NewEvent()
		event.Message = message
		event.Level = levelFor(ee.Category)
		event.Exception = []sentry.Exception{{
			Type:  fmt.Sprintf("%s %s", ee.Component, ee.Category),
			Value: message,
		}}
		sentry.CaptureEvent(event)
	})

	ee.MarkReported()
}

func levelFor(category ErrorCategory) sentry.Level {
	switch category {
	case CategoryNetwork, CategoryHTTP, CategoryGeolocation, CategoryCancellation:
		return sentry.LevelWarning
	default:
		return sentry.LevelError
	}
}
