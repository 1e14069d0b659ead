// Package proximity finds containers within a radius of the user.
package proximity

import (
	"cmp"
	"math"
	"slices"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/geo"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

// Result is a container together with its distance from the user.
type Result struct {
	Container  record.ContainerRecord
	DistanceKm float64
}

// Nearby returns the containers within radiusKm of user, nearest first.
// Equal distances are ordered by container id. Containers without valid
// coordinates are skipped. A negative or NaN radius matches nothing.
func Nearby(user record.GeoPoint, containers []record.ContainerRecord, radiusKm float64) []Result {
	results := []Result{}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return results
	}

	for _, c := range containers {
		if c.Location == nil {
			continue
		}
		d := geo.Haversine(user, *c.Location)
		if d <= radiusKm {
			results = append(results, Result{Container: c, DistanceKm: d})
		}
	}

	slices.SortFunc(results, func(a, b Result) int {
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		return cmp.Compare(a.Container.ID, b.Container.ID)
	})
	return results
}

// ActivePublic keeps the public containers whose status is exactly active,
// the candidate set for the "near me" search.
func ActivePublic(containers []record.ContainerRecord) []record.ContainerRecord {
	out := make([]record.ContainerRecord, 0, len(containers))
	for _, c := range containers {
		if c.Kind == record.KindPublic && c.Status == record.StatusActive {
			out = append(out, c)
		}
	}
	return out
}
