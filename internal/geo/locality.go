package geo

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

// UnknownLocality is returned when no coordinates are available.
const UnknownLocality = "Ubicación desconocida"

type locality struct {
	name  string
	bound orb.Bound
}

// bound builds an orb.Bound from latitude and longitude ranges; orb points are (lon, lat).
func bound(minLat, maxLat, minLon, maxLon float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{minLon, minLat},
		Max: orb.Point{maxLon, maxLat},
	}
}

// localities is checked in order; the first box containing the point wins.
var localities = []locality{
	{"Cuenca, Azuay", bound(-2.95, -2.85, -79.07, -78.95)},
	{"Azogues, Cañar", bound(-2.78, -2.70, -78.88, -78.81)},
	{"Quito, Pichincha", bound(-0.36, -0.05, -78.60, -78.40)},
	{"Guayaquil, Guayas", bound(-2.30, -2.05, -80.05, -79.85)},
	{"Loja, Loja", bound(-4.05, -3.93, -79.24, -79.17)},
	{"Machala, El Oro", bound(-3.30, -3.22, -80.02, -79.92)},
	{"Ambato, Tungurahua", bound(-1.30, -1.20, -78.66, -78.58)},
	{"Riobamba, Chimborazo", bound(-1.71, -1.62, -78.70, -78.61)},
	{"Manta, Manabí", bound(-1.00, -0.93, -80.76, -80.66)},
}

// Fallback thresholds in degrees.
const (
	southLatitude   = -2.5
	coastLongitude  = -79.3
	amazonLongitude = -77.9
)

// ApproximateLocality returns a coarse, human readable place name for the
// coordinates. Known cities are matched by bounding box; anything else gets a
// region name built from latitude and longitude thresholds. It never returns
// an empty string.
func ApproximateLocality(lat, lon float64) string {
	if !finite(lat) || !finite(lon) {
		return UnknownLocality
	}

	p := orb.Point{lon, lat}
	for _, l := range localities {
		if l.bound.Contains(p) {
			return l.name
		}
	}

	return region(lon) + " " + band(lat)
}

// LocalityOf is ApproximateLocality for an optional point.
func LocalityOf(p *record.GeoPoint) string {
	if p == nil {
		return UnknownLocality
	}
	return ApproximateLocality(p.Latitude, p.Longitude)
}

func band(lat float64) string {
	switch {
	case lat >= 0:
		return "Norte"
	case lat < southLatitude:
		return "Sur"
	default:
		return "Centro"
	}
}

func region(lon float64) string {
	switch {
	case lon < coastLongitude:
		return "Costa"
	case lon > amazonLongitude:
		return "Amazonía"
	default:
		return "Sierra"
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
