package backend

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/conf"
)

// Config holds configuration for the backend client
type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	UserAgent      string
	LookupCacheTTL time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000/api",
		Timeout:        15 * time.Second,
		UserAgent:      "ecotachos-engine/1.0",
		LookupCacheTTL: 10 * time.Minute,
	}
}

// ConfigFromSettings maps loaded settings to a client configuration
func ConfigFromSettings(settings *conf.Settings) Config {
	return Config{
		BaseURL:        settings.Backend.BaseURL,
		Token:          settings.Backend.Token,
		Timeout:        settings.Backend.Timeout,
		UserAgent:      settings.Backend.UserAgent,
		LookupCacheTTL: settings.Backend.LookupCacheTTL,
	}
}

// Resource is a backend collection that supports soft deletion.
type Resource string

const (
	ResourceContainers Resource = "tachos"
	ResourceDetections Resource = "detecciones"
)

// Lookup is an administrative hierarchy list.
type Lookup string

const (
	LookupProvinces Lookup = "provincias"
	LookupCities    Lookup = "ciudades"
	LookupCantons   Lookup = "cantones"
)

// FormField is one multipart form value.
type FormField struct {
	Name  string
	Value string
}

// DetectionUpload is the multipart body of a new detection. Fields are sent
// in order, followed by the image file.
type DetectionUpload struct {
	Fields    []FormField
	ImagePath string
}

// APIError is a non-2xx backend response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s returned %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}
