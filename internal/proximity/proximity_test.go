package proximity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

func container(id int, lat, lon float64) record.ContainerRecord {
	return record.ContainerRecord{
		ID:       id,
		Kind:     record.KindPublic,
		Status:   record.StatusActive,
		Location: &record.GeoPoint{Latitude: lat, Longitude: lon},
	}
}

func TestNearby_SingleContainerWithinRadius(t *testing.T) {
	t.Parallel()

	containers := []record.ContainerRecord{container(1, -2.90, -79.00)}
	user := record.GeoPoint{Latitude: -2.901, Longitude: -79.001}

	got := Nearby(user, containers, 10)

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Container.ID)
	assert.InDelta(t, 0.13, got[0].DistanceKm, 0.03)
}

func TestNearby_SortedWithIDTieBreak(t *testing.T) {
	t.Parallel()

	user := record.GeoPoint{Latitude: -2.90, Longitude: -79.00}
	containers := []record.ContainerRecord{
		container(5, -2.92, -79.00),
		container(3, -2.91, -79.00),
		container(2, -2.91, -79.00),
		container(9, -2.90, -79.00),
	}

	got := Nearby(user, containers, 5)

	var order []int
	for _, r := range got {
		order = append(order, r.Container.ID)
	}
	assert.Equal(t, []int{9, 2, 3, 5}, order)
	assert.Zero(t, got[0].DistanceKm)
}

func TestNearby_SkipsMissingCoordinates(t *testing.T) {
	t.Parallel()

	user := record.GeoPoint{Latitude: -2.90, Longitude: -79.00}
	containers := []record.ContainerRecord{{ID: 1, Kind: record.KindPublic, Status: record.StatusActive}}

	assert.Empty(t, Nearby(user, containers, 1000))
}

func TestNearby_RadiusMonotonicity(t *testing.T) {
	t.Parallel()

	user := record.GeoPoint{Latitude: -2.90, Longitude: -79.00}
	containers := []record.ContainerRecord{
		container(1, -2.90, -79.00),
		container(2, -2.95, -79.02),
		container(3, -3.10, -79.20),
		container(4, -0.18, -78.47),
	}

	previous := map[int]bool{}
	for _, radius := range []float64{0, 0.5, 5, 30, 100, 500} {
		current := map[int]bool{}
		for _, r := range Nearby(user, containers, radius) {
			current[r.Container.ID] = true
		}
		for id := range previous {
			assert.True(t, current[id], "radius %v dropped container %d", radius, id)
		}
		previous = current
	}
	assert.Len(t, previous, 4)
}

func TestNearby_InvalidRadius(t *testing.T) {
	t.Parallel()

	user := record.GeoPoint{Latitude: -2.90, Longitude: -79.00}
	containers := []record.ContainerRecord{container(1, -2.90, -79.00)}

	assert.Empty(t, Nearby(user, containers, -1))
	assert.Empty(t, Nearby(user, containers, math.NaN()))
	assert.NotNil(t, Nearby(user, containers, -1))
}

func TestActivePublic(t *testing.T) {
	t.Parallel()

	containers := []record.ContainerRecord{
		{ID: 1, Kind: record.KindPublic, Status: record.StatusActive},
		{ID: 2, Kind: record.KindPublic, Status: record.StatusMaintenance},
		{ID: 3, Kind: record.KindPersonal, Status: record.StatusActive},
		{ID: 4, Kind: record.KindPublic, Status: record.StatusOutOfService},
	}

	got := ActivePublic(containers)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}
