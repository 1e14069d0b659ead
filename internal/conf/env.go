// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
)

// envPrefix is prepended to every environment variable, e.g. ECOTACHOS_BACKEND_BASEURL
const envPrefix = "ECOTACHOS"

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns the environment variables that are validated before use.
// Every other key is still reachable through AutomaticEnv.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "ECOTACHOS_DEBUG", validateEnvBool},
		{"backend.baseurl", "ECOTACHOS_BACKEND_BASEURL", validateEnvURL},
		{"backend.token", "ECOTACHOS_BACKEND_TOKEN", nil},
		{"backend.timeout", "ECOTACHOS_BACKEND_TIMEOUT", validateEnvDuration},
		{"user.id", "ECOTACHOS_USER_ID", validateEnvUserID},
		{"location.enabled", "ECOTACHOS_LOCATION_ENABLED", validateEnvBool},
		{"location.latitude", "ECOTACHOS_LOCATION_LATITUDE", validateEnvLatitude},
		{"location.longitude", "ECOTACHOS_LOCATION_LONGITUDE", validateEnvLongitude},
		{"proximity.radiuskm", "ECOTACHOS_PROXIMITY_RADIUSKM", validateEnvRadius},
		{"logging.level", "ECOTACHOS_LOGGING_LEVEL", validateEnvLogLevel},
		{"telemetry.sentry.dsn", "ECOTACHOS_TELEMETRY_SENTRY_DSN", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars(v *viper.Viper) error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		// Invalid values are reported but do not prevent startup;
		// ValidateSettings rejects the ones that matter.
		if value := os.Getenv(binding.EnvVar); value != "" && binding.Validate != nil {
			if err := binding.Validate(value); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s: %v", binding.EnvVar, err))
			}
		}
	}

	if len(warnings) > 0 {
		return errors.Newf("environment variable problems: %s", strings.Join(warnings, "; ")).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false, got %q", value)
	}
	return nil
}

func validateEnvURL(value string) error {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return fmt.Errorf("must start with http:// or https://, got %q", value)
	}
	return nil
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration %q", value)
	}
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", d)
	}
	return nil
}

func validateEnvUserID(value string) error {
	id, err := strconv.Atoi(value)
	if err != nil || id < 0 {
		return fmt.Errorf("must be a non-negative integer, got %q", value)
	}
	return nil
}

func validateEnvLatitude(value string) error {
	lat, err := strconv.ParseFloat(value, 64)
	if err != nil || lat < -90 || lat > 90 {
		return fmt.Errorf("must be between -90 and 90, got %q", value)
	}
	return nil
}

func validateEnvLongitude(value string) error {
	lon, err := strconv.ParseFloat(value, 64)
	if err != nil || lon < -180 || lon > 180 {
		return fmt.Errorf("must be between -180 and 180, got %q", value)
	}
	return nil
}

func validateEnvRadius(value string) error {
	r, err := strconv.ParseFloat(value, 64)
	if err != nil || r < 0 {
		return fmt.Errorf("must be a non-negative number, got %q", value)
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	switch strings.ToLower(value) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("must be one of debug, info, warn, error, got %q", value)
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return bindEnvVars(v)
}
