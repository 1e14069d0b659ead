// conf/validate.go

package conf

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateBackendSettings(&settings.Backend); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateLocationSettings(&settings.Location); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.User.ID < 0 {
		ve.Errors = append(ve.Errors, "user.id must not be negative")
	}

	if r := settings.Proximity.RadiusKm; math.IsNaN(r) || r < 0 {
		ve.Errors = append(ve.Errors, "proximity.radiuskm must be a non-negative number")
	}

	if err := validateSubmissionSettings(&settings.Submission); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	for module, level := range settings.Logging.ModuleLevels {
		if err := validateEnvLogLevel(level); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("logging.modulelevels.%s %v", module, err))
		}
	}

	if settings.Telemetry.Sentry.Enabled && settings.Telemetry.Sentry.DSN == "" {
		ve.Errors = append(ve.Errors, "telemetry.sentry.dsn is required when sentry is enabled")
	}

	if settings.Watch.Interval <= 0 {
		ve.Errors = append(ve.Errors, "watch.interval must be positive")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateBackendSettings(settings *BackendSettings) error {
	u, err := url.Parse(settings.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.baseurl must be an absolute http(s) URL, got %q", settings.BaseURL)
	}
	// Endpoints are joined with a leading slash.
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")

	if settings.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if settings.LookupCacheTTL < 0 {
		return fmt.Errorf("backend.lookupcachettl must not be negative")
	}
	return nil
}

func validateLocationSettings(settings *LocationSettings) error {
	if settings.Timeout <= 0 {
		return fmt.Errorf("location.timeout must be positive")
	}
	if !settings.Enabled {
		return nil
	}
	if settings.Latitude < -90 || settings.Latitude > 90 {
		return fmt.Errorf("location.latitude must be between -90 and 90")
	}
	if settings.Longitude < -180 || settings.Longitude > 180 {
		return fmt.Errorf("location.longitude must be between -180 and 180")
	}
	return nil
}

func validateSubmissionSettings(settings *SubmissionSettings) error {
	if settings.MaxDimension < 0 {
		return fmt.Errorf("submission.maxdimension must not be negative")
	}
	if settings.JPEGQuality < 1 || settings.JPEGQuality > 100 {
		return fmt.Errorf("submission.jpegquality must be between 1 and 100")
	}
	return nil
}
