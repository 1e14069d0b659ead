// Package telemetry connects the error reporter to Sentry.
package telemetry

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/conf"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/privacy"
)

var sentryInitialized atomic.Bool

// GetLogger returns the module logger for telemetry
func GetLogger() logger.Logger {
	return logger.Global().Module("telemetry")
}

// InitSentry initializes Sentry when enabled in settings and installs the
// Sentry reporter for enhanced errors. It is a no-op when disabled.
func InitSentry(settings *conf.Settings, version string) error {
	if settings == nil || !settings.Telemetry.Sentry.Enabled {
		errors.SetTelemetryReporter(nil)
		return nil
	}

	return initialize(sentry.ClientOptions{
		Dsn:         settings.Telemetry.Sentry.DSN,
		SampleRate:  1.0,
		Environment: "production",
		Release:     fmt.Sprintf("ecotachos@%s", version),
	})
}

func initialize(opts sentry.ClientOptions) error {
	// Privacy-compliant settings
	opts.AttachStacktrace = false
	opts.ServerName = ""
	opts.BeforeSend = func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
		return applyPrivacyFilters(event)
	}

	if err := sentry.Init(opts); err != nil {
		return errors.New(fmt.Errorf("sentry initialization failed: %w", err)).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Build()
	}

	sentryInitialized.Store(true)
	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	GetLogger().Info("sentry error reporting enabled", logger.String("environment", opts.Environment))
	return nil
}

// applyPrivacyFilters strips user, host and device data from an event and
// scrubs its messages.
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""
	event.Request = nil
	event.Message = privacy.ScrubMessage(event.Message)
	for i := range event.Exception {
		event.Exception[i].Value = privacy.ScrubMessage(event.Exception[i].Value)
	}

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}

	return event
}

// Flush waits for buffered events to be sent. It does nothing when Sentry was
// never initialized.
func Flush(timeout time.Duration) {
	if !sentryInitialized.Load() {
		return
	}
	sentry.Flush(timeout)
}
