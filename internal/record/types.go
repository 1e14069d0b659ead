// Package record normalizes raw backend payloads into container and detection
// records with a stable shape.
package record

import (
	"math"
	"time"
)

// Placeholder is the display default for missing optional text fields.
const Placeholder = "—"

// Kind is the ownership type of a container.
type Kind int

const (
	KindPersonal Kind = iota
	KindPublic
)

func (k Kind) String() string {
	if k == KindPublic {
		return "public"
	}
	return "personal"
}

// Status is the operational state of a container.
type Status int

const (
	StatusOutOfService Status = iota
	StatusActive
	StatusMaintenance
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusMaintenance:
		return "maintenance"
	default:
		return "out_of_service"
	}
}

// Category is the normalized waste category of a detection. Values match the
// labels the backend stores.
type Category string

const (
	CategoryOrganic    Category = "organico"
	CategoryRecyclable Category = "reciclable"
	CategoryInorganic  Category = "inorganico"
	CategoryOther      Category = "otro"
)

// AllCategories lists the categories in display order.
var AllCategories = []Category{CategoryOrganic, CategoryRecyclable, CategoryInorganic, CategoryOther}

// GeoPoint is a validated latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// NewGeoPoint returns a point when both values are finite and in range.
func NewGeoPoint(lat, lon float64) (*GeoPoint, bool) {
	if !validCoordinate(lat, 90) || !validCoordinate(lon, 180) {
		return nil, false
	}
	return &GeoPoint{Latitude: lat, Longitude: lon}, true
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}

// ContainerRecord is a normalized waste container ("tacho").
type ContainerRecord struct {
	ID               int
	OwnerID          *int
	Kind             Kind
	Location         *GeoPoint // nil when coordinates are missing or invalid
	Status           Status
	Name             string
	Code             string
	OrganizationName string
}

// DisplayOrganization returns the organization to show for the container.
// Personal containers never surface an organization.
func (c ContainerRecord) DisplayOrganization() string {
	if c.Kind != KindPublic {
		return ""
	}
	return c.OrganizationName
}

// DetectionRecord is a normalized classified-waste event.
type DetectionRecord struct {
	ID            int
	ContainerID   *int
	ContainerKind *Kind // type carried by the detection itself, if any
	Category      Category
	Label         string // classification as received, trimmed
	Confidence    float64
	Location      *GeoPoint
	RegisteredAt  time.Time
	OwnerUserID   *int
	ImageRef      string
}
