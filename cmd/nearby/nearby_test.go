package nearby

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/geo"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/proximity"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

func TestPrint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		results  []proximity.Result
		radius   float64
		contains []string
	}{
		{
			name:     "no results",
			radius:   1.5,
			contains: []string{"No active public containers within 1.50 km\n"},
		},
		{
			name: "named container with locality",
			results: []proximity.Result{{
				Container:  record.ContainerRecord{ID: 7, Name: "Parque Calderón", Location: &record.GeoPoint{Latitude: -2.9001, Longitude: -79.0059}},
				DistanceKm: 0.42,
			}},
			radius:   1,
			contains: []string{"     7  Parque Calderón", "0.42 km  Cuenca, Azuay\n"},
		},
		{
			name: "missing name and location fall back",
			results: []proximity.Result{{
				Container:  record.ContainerRecord{ID: 12},
				DistanceKm: 0,
			}},
			radius:   1,
			contains: []string{record.Placeholder, "0.00 km  " + geo.UnknownLocality},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			Print(&buf, tt.results, tt.radius)

			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestCommand_RequiresLatitudeAndLongitudeTogether(t *testing.T) {
	cmd := Command(runtime.New("test", ""))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--lat=-2.9"})

	err := cmd.ExecuteContext(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lon")
}
