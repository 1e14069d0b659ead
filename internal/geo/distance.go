// Package geo provides great-circle distances and the approximate locality
// lookup used for container and detection coordinates.
package geo

import (
	"math"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b record.GeoPoint) float64 {
	lat1Rad := a.Latitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	// Rounding can push h just outside [0,1] for antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}
