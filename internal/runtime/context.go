// Package runtime holds the state shared by CLI commands for one invocation:
// build metadata, loaded settings and the lazily constructed services.
package runtime

import (
	"sync"
	"time"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/analytics"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/backend"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/conf"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/observability"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/submission"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/telemetry"
)

const flushTimeout = 2 * time.Second

// SkipInitAnnotation marks commands that run without loading settings.
const SkipInitAnnotation = "ecotachos/skip-init"

// Context contains runtime metadata and the services built from settings.
// Version and BuildDate are injected at startup; ConfigFile and Debug come
// from global flags.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string

	ConfigFile string
	Debug      bool

	// Settings is set by Init
	Settings *conf.Settings

	mu      sync.Mutex
	log     *logger.CentralLogger
	metrics *observability.Metrics
	client  *backend.Client
}

// New creates a context for a build.
func New(version, buildDate string) *Context {
	if version == "" {
		version = "dev"
	}
	return &Context{Version: version, BuildDate: buildDate}
}

// Init loads settings and sets up logging and error reporting.
func (c *Context) Init() error {
	settings, err := conf.Load(c.ConfigFile)
	if err != nil {
		return err
	}
	if c.Debug {
		settings.Debug = true
		settings.Logging.Level = "debug"
	}
	return c.InitWithSettings(settings)
}

// InitWithSettings is Init for already loaded settings.
func (c *Context) InitWithSettings(settings *conf.Settings) error {
	central, err := logger.NewCentralLogger(&logger.LoggingConfig{
		Level:        settings.Logging.Level,
		JSON:         settings.Logging.JSON,
		FilePath:     settings.Logging.File,
		ModuleLevels: settings.Logging.ModuleLevels,
	})
	if err != nil {
		return errors.New(err).
			Component("runtime").
			Category(errors.CategoryConfiguration).
			Context("operation", "init-logger").
			Build()
	}
	logger.SetGlobal(central)

	if err := telemetry.InitSentry(settings, c.Version); err != nil {
		// Reporting is optional; keep running without it.
		central.Module("runtime").Warn("sentry disabled", logger.Error(err))
	}

	c.mu.Lock()
	c.Settings = settings
	c.log = central
	c.mu.Unlock()
	return nil
}

// Metrics returns the metric collectors, creating them on first use.
func (c *Context) Metrics() (*observability.Metrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.metrics == nil {
		m, err := observability.NewMetrics()
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}
	return c.metrics, nil
}

// Backend returns the backend client, creating it on first use.
func (c *Context) Backend() (*backend.Client, error) {
	m, err := c.Metrics()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.Settings == nil {
		return nil, errors.Newf("settings not loaded").
			Component("runtime").
			Category(errors.CategoryState).
			Build()
	}

	client, err := backend.NewClient(backend.ConfigFromSettings(c.Settings))
	if err != nil {
		return nil, err
	}
	client.SetMetrics(m.Backend)
	c.client = client
	return client, nil
}

// Loader returns an analytics loader backed by the backend client.
func (c *Context) Loader() (*analytics.Loader, error) {
	client, err := c.Backend()
	if err != nil {
		return nil, err
	}
	m, err := c.Metrics()
	if err != nil {
		return nil, err
	}
	return analytics.NewLoader(client, m.Loader), nil
}

// Workflow returns a submission workflow backed by the backend client.
func (c *Context) Workflow() (*submission.Workflow, error) {
	client, err := c.Backend()
	if err != nil {
		return nil, err
	}
	m, err := c.Metrics()
	if err != nil {
		return nil, err
	}

	s := c.Settings
	return submission.NewWorkflow(client, c.LocationProvider(), submission.Options{
		Image: submission.ImageOptions{
			MaxDimension: s.Submission.MaxDimension,
			JPEGQuality:  s.Submission.JPEGQuality,
			TempDir:      s.Submission.TempDir,
		},
		LocationTimeout: s.Location.Timeout,
		Metrics:         m.Submission,
	}), nil
}

// ResolveUserID returns the current user for a command. An overridden value
// replaces the configured user; a non-positive override means no user.
func (c *Context) ResolveUserID(override int, overridden bool) *int {
	if overridden {
		if override <= 0 {
			return nil
		}
		return &override
	}
	if c.Settings == nil {
		return nil
	}
	return c.Settings.CurrentUserID()
}

// LocationProvider returns the configured device position, nil when the
// location source is disabled.
func (c *Context) LocationProvider() submission.LocationProvider {
	if c.Settings == nil || !c.Settings.Location.Enabled {
		return nil
	}
	return submission.StaticLocation(record.GeoPoint{
		Latitude:  c.Settings.Location.Latitude,
		Longitude: c.Settings.Location.Longitude,
	})
}

// Close releases the backend client, flushes telemetry and closes the log file.
func (c *Context) Close() {
	c.mu.Lock()
	client, central := c.client, c.log
	c.client = nil
	c.mu.Unlock()

	if client != nil {
		client.Close()
	}
	telemetry.Flush(flushTimeout)
	if central != nil {
		_ = central.Close()
	}
}
