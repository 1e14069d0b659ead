package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	path := writeConfig(t, "debug: false\n")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", settings.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, settings.Backend.Timeout)
	assert.InDelta(t, 1.0, settings.Proximity.RadiusKm, 1e-9)
	assert.Equal(t, 85, settings.Submission.JPEGQuality)
	assert.Equal(t, time.Minute, settings.Watch.Interval)
	assert.Nil(t, settings.CurrentUserID())
	assert.Same(t, settings, GetSettings())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
backend:
  baseurl: https://api.ecotachos.test/api/
  token: secret
  timeout: 5s
user:
  id: 42
location:
  enabled: true
  latitude: -2.9001
  longitude: -79.0059
proximity:
  radiuskm: 2.5
`)

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.ecotachos.test/api", settings.Backend.BaseURL, "trailing slash trimmed")
	assert.Equal(t, "secret", settings.Backend.Token)
	assert.Equal(t, 5*time.Second, settings.Backend.Timeout)
	require.NotNil(t, settings.CurrentUserID())
	assert.Equal(t, 42, *settings.CurrentUserID())
	assert.True(t, settings.Location.Enabled)
	assert.InDelta(t, -2.9001, settings.Location.Latitude, 1e-9)
	assert.InDelta(t, 2.5, settings.Proximity.RadiusKm, 1e-9)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "proximity:\n  radiuskm: 1\n")
	t.Setenv("ECOTACHOS_PROXIMITY_RADIUSKM", "3.5")
	t.Setenv("ECOTACHOS_USER_ID", "7")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 3.5, settings.Proximity.RadiusKm, 1e-9)
	assert.Equal(t, 7, settings.User.ID)
}

func TestLoad_InvalidSettings(t *testing.T) {
	path := writeConfig(t, `
backend:
  baseurl: not-a-url
submission:
  jpegquality: 0
`)

	_, err := Load(path)
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateSettings_LocationRange(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.Location.Enabled = true
	settings.Location.Latitude = 91

	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location.latitude")
}

func TestValidateSettings_SentryNeedsDSN(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.Telemetry.Sentry.Enabled = true

	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn")
}

func TestValidateSettings_ModuleLevels(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.Logging.ModuleLevels = map[string]string{"backend": "debug"}
	require.NoError(t, ValidateSettings(settings))

	settings.Logging.ModuleLevels["geo"] = "verbose"
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.modulelevels.geo")
}

func TestLoad_ModuleLevelsFromFile(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\n  modulelevels:\n    submission: debug\n")

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", settings.Logging.Level)
	assert.Equal(t, map[string]string{"submission": "debug"}, settings.Logging.ModuleLevels)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path, false))
	assert.Error(t, WriteDefaultConfig(path, false), "refuses to overwrite")
	require.NoError(t, WriteDefaultConfig(path, true))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", settings.Logging.Level)
}

func TestSaveYAMLConfig_RoundTripThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	settings := validSettings()
	settings.User.ID = 9
	settings.Proximity.RadiusKm = 4

	require.NoError(t, SaveYAMLConfig(path, settings))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "proximity")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.User.ID)
	assert.Equal(t, settings.Backend.Timeout, loaded.Backend.Timeout)
}

func validSettings() *Settings {
	return &Settings{
		Backend: BackendSettings{
			BaseURL:        "http://localhost:8000/api",
			Timeout:        time.Second,
			LookupCacheTTL: time.Minute,
		},
		Location:   LocationSettings{Timeout: time.Second},
		Proximity:  ProximitySettings{RadiusKm: 1},
		Submission: SubmissionSettings{MaxDimension: 1280, JPEGQuality: 85},
		Logging:    LoggingSettings{Level: "info"},
		Watch:      WatchSettings{Interval: time.Minute},
	}
}
