// Package conf loads, validates and persists the engine configuration.
package conf

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// BackendSettings contains settings for the REST backend
type BackendSettings struct {
	BaseURL        string        `yaml:"baseurl"`        // REST root, e.g. https://host/api
	Token          string        `yaml:"token"`          // optional API token
	Timeout        time.Duration `yaml:"timeout"`        // per request timeout
	UserAgent      string        `yaml:"useragent"`      // User-Agent header
	LookupCacheTTL time.Duration `yaml:"lookupcachettl"` // cache lifetime for auxiliary lookups
}

// UserSettings identifies the current user
type UserSettings struct {
	ID int `yaml:"id"` // 0 when no user is signed in
}

// LocationSettings configures the device position source
type LocationSettings struct {
	Enabled   bool          `yaml:"enabled"`
	Latitude  float64       `yaml:"latitude"`
	Longitude float64       `yaml:"longitude"`
	Timeout   time.Duration `yaml:"timeout"` // upper bound for a position lookup
}

// ProximitySettings configures the "near me" search
type ProximitySettings struct {
	RadiusKm float64 `yaml:"radiuskm"`
}

// SubmissionSettings configures image preparation for detection uploads
type SubmissionSettings struct {
	MaxDimension int    `yaml:"maxdimension"`
	JPEGQuality  int    `yaml:"jpegquality"`
	TempDir      string `yaml:"tempdir"`
}

// LoggingSettings configures the central logger
type LoggingSettings struct {
	Level        string            `yaml:"level"`
	JSON         bool              `yaml:"json"`
	File         string            `yaml:"file"`
	ModuleLevels map[string]string `yaml:"modulelevels"` // module name to level, overrides Level
}

// SentrySettings contains error reporting settings
type SentrySettings struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// TelemetrySettings groups optional telemetry integrations
type TelemetrySettings struct {
	Sentry SentrySettings `yaml:"sentry"`
}

// MetricsSettings configures the Prometheus endpoint
type MetricsSettings struct {
	Listen string `yaml:"listen"`
}

// WatchSettings configures periodic reloads
type WatchSettings struct {
	Interval time.Duration `yaml:"interval"`
}

// Settings contains all configuration options for the engine
type Settings struct {
	Debug      bool               `yaml:"debug"`
	Backend    BackendSettings    `yaml:"backend"`
	User       UserSettings       `yaml:"user"`
	Location   LocationSettings   `yaml:"location"`
	Proximity  ProximitySettings  `yaml:"proximity"`
	Submission SubmissionSettings `yaml:"submission"`
	Logging    LoggingSettings    `yaml:"logging"`
	Telemetry  TelemetrySettings  `yaml:"telemetry"`
	Metrics    MetricsSettings    `yaml:"metrics"`
	Watch      WatchSettings      `yaml:"watch"`
}

// CurrentUserID returns the configured user id, nil when no user is signed in.
func (s *Settings) CurrentUserID() *int {
	if s.User.ID <= 0 {
		return nil
	}
	id := s.User.ID
	return &id
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration from configFile, or from the default search
// paths when configFile is empty, applies defaults and environment overrides
// and validates the result.
func Load(configFile string) (*Settings, error) {
	v, err := newViper(configFile)
	if err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryFileParsing).
			Context("operation", "unmarshal-config").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()
	return settings, nil
}

// newViper builds a viper instance with defaults, config file and environment bindings.
func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaultConfig(v)

	if err := configureEnvironmentVariables(v); err != nil {
		GetLogger().Warn("environment variable validation reported problems", logger.Error(err))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		paths, err := GetDefaultConfigPaths()
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Defaults and environment are enough to run.
			GetLogger().Debug("no config file found, using defaults")
			return v, nil
		}
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "read-config").
			Context("config_file", configFile).
			Build()
	}

	GetLogger().Debug("config file loaded", logger.String("path", v.ConfigFileUsed()))
	return v, nil
}

// GetSettings returns the most recently loaded settings, nil before the first Load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// DefaultConfig returns the embedded default configuration file.
func DefaultConfig() ([]byte, error) {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "read-embedded-config").
			Build()
	}
	return data, nil
}

// WriteDefaultConfig writes the embedded default configuration to path.
// An existing file is only replaced when overwrite is set.
func WriteDefaultConfig(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Newf("config file already exists: %s", path).
				Component("conf").
				Category(errors.CategoryValidation).
				Build()
		}
	}

	data, err := DefaultConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return atomicWrite(path, data)
}

// SaveYAMLConfig writes settings to configPath as YAML.
// It overwrites the existing file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileParsing).
			Context("operation", "marshal-yaml").
			Build()
	}
	return atomicWrite(configPath, yamlData)
}

// atomicWrite writes data to a temporary file next to path and renames it into place.
func atomicWrite(path string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(path), "config-*.yaml")
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "create-temp").
			Build()
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "write-temp").
			Build()
	}
	if err := tempFile.Close(); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "close-temp").
			Build()
	}

	if err := os.Rename(tempFileName, path); err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("operation", "rename-config").
			Context("path", path).
			Build()
	}
	return nil
}
