package submit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

func TestFindContainer(t *testing.T) {
	t.Parallel()

	containers := []record.ContainerRecord{
		{ID: 1, Name: "Casa"},
		{ID: 4, Name: "Mercado 10 de Agosto", Kind: record.KindPublic},
	}

	tests := []struct {
		name     string
		id       int
		wantName string
	}{
		{name: "first", id: 1, wantName: "Casa"},
		{name: "public", id: 4, wantName: "Mercado 10 de Agosto"},
		{name: "missing", id: 9},
		{name: "zero id", id: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FindContainer(containers, tt.id)
			if tt.wantName == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}

	assert.Same(t, &containers[1], FindContainer(containers, 4), "returns a pointer into the slice")
}
