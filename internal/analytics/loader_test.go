package analytics

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/observability/metrics"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/ownership"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource serves fixed lists. When hold is set, the first ListContainers
// call blocks until hold is closed.
type fakeSource struct {
	containers []map[string]any
	detections []map[string]any
	err        error

	hold    chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func (f *fakeSource) ListContainers(ctx context.Context) ([]map[string]any, error) {
	if f.calls.Add(1) == 1 && f.hold != nil {
		close(f.started)
		select {
		case <-f.hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.containers, nil
}

func (f *fakeSource) ListDetections(context.Context) ([]map[string]any, error) {
	return f.detections, nil
}

func intPtr(v int) *int { return &v }

func fixtureSource() *fakeSource {
	return &fakeSource{
		containers: []map[string]any{
			{"id": 1, "propietario": 7, "tipo": "personal", "estado": "activo"},
			{"id": 2, "propietario": 7, "tipo": "publico", "estado": "activo"},
			{"id": 3, "propietario": 9, "tipo": "publico", "estado": "mantenimiento"},
			{"nombre": "sin id"},
		},
		detections: []map[string]any{
			{"id": 10, "tacho": 1, "clasificacion": "organico", "confianza_ia": 0.9},
			{"id": 11, "tacho": 2, "clasificacion": "plastico", "confianza_ia": 80},
			{"id": 12, "tacho": 3, "clasificacion": "inorganico", "confianza_ia": "0.5"},
			{"id": 13, "tacho": 99, "clasificacion": "organico", "confianza_ia": 1},
		},
	}
}

func TestLoad_DerivesGroupsAndStats(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := metrics.NewLoaderMetrics(registry)
	require.NoError(t, err)

	loader := NewLoader(fixtureSource(), m)
	snap, err := loader.Load(t.Context(), intPtr(7))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Generation)
	assert.Len(t, snap.Containers, 3)
	assert.Equal(t, 1, snap.DroppedContainers)
	assert.Equal(t, 0, snap.DroppedDetections)

	assert.Equal(t, []int{1}, snap.Partition.Personal.Sorted())
	assert.Equal(t, []int{2}, snap.Partition.Company.Sorted())
	assert.Equal(t, []int{2, 3}, snap.Partition.Public.Sorted())

	// Detection 13 references an unknown container and lands nowhere.
	assert.Equal(t, 1, snap.Personal.Total)
	assert.Equal(t, 1, snap.Company.Total)
	assert.Equal(t, 2, snap.Public.Total)
	assert.InDelta(t, 65.0, snap.Public.AverageConfidence, 1e-9)
	assert.Equal(t, 1, snap.Public.CountsByCategory[record.CategoryRecyclable])
	assert.Equal(t, 1, snap.Public.CountsByCategory[record.CategoryInorganic])
	assert.Equal(t, snap.Company, snap.Summary(ownership.GroupCompany))

	assert.Equal(t, 2, snap.ContainerStats.Active)
	assert.Equal(t, 1, snap.ContainerStats.Maintenance)

	assert.Same(t, snap, loader.Current())
	assert.Equal(t, 1, promtestutil.CollectAndCount(m, "ecotachos_loads_total"))
}

func TestLoad_AnonymousUserHasNoPersonalGroup(t *testing.T) {
	loader := NewLoader(fixtureSource(), nil)

	snap, err := loader.Load(t.Context(), nil)
	require.NoError(t, err)
	assert.Zero(t, snap.Personal.Total)
	assert.Zero(t, snap.Company.Total)
	assert.Equal(t, 2, snap.Public.Total)
}

func TestLoad_StaleResultIsDiscarded(t *testing.T) {
	source := fixtureSource()
	source.hold = make(chan struct{})
	source.started = make(chan struct{})

	var applied []uint64
	var mu sync.Mutex
	loader := NewLoader(source, nil)
	loader.OnApply(func(s *Snapshot) {
		mu.Lock()
		applied = append(applied, s.Generation)
		mu.Unlock()
	})

	type outcome struct {
		snap *Snapshot
		err  error
	}
	first := make(chan outcome, 1)
	go func() {
		snap, err := loader.Load(context.Background(), intPtr(7))
		first <- outcome{snap, err}
	}()

	testutil.WaitForChannel(t, source.started, testutil.DefaultTestTimeout, "first load did not start")
	second, err := loader.Load(t.Context(), intPtr(7))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Generation)

	close(source.hold)
	res := testutil.ReceiveWithTimeout(t, first, testutil.DefaultTestTimeout, "first load did not finish")
	require.ErrorIs(t, res.err, ErrStaleLoad)
	assert.Equal(t, uint64(1), res.snap.Generation)

	assert.Same(t, second, loader.Current())
	mu.Lock()
	assert.Equal(t, []uint64{2}, applied)
	mu.Unlock()
}

func TestLoad_FailureKeepsPreviousSnapshot(t *testing.T) {
	source := fixtureSource()
	loader := NewLoader(source, nil)

	prev, err := loader.Load(t.Context(), nil)
	require.NoError(t, err)

	source.err = errors.NewStd("backend unavailable")
	snap, err := loader.Load(t.Context(), nil)
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Same(t, prev, loader.Current())
	assert.Equal(t, uint64(2), loader.Generation())
}

func TestWatch(t *testing.T) {
	loader := NewLoader(fixtureSource(), nil)

	loads := make(chan uint64, 8)
	loader.OnApply(func(s *Snapshot) {
		select {
		case loads <- s.Generation:
		default:
		}
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- loader.Watch(ctx, 10*time.Millisecond, nil) }()

	for want := uint64(1); want <= 2; want++ {
		got := testutil.ReceiveWithTimeout(t, loads, testutil.DefaultTestTimeout, "watch did not reload")
		assert.Equal(t, want, got)
	}

	cancel()
	require.NoError(t, testutil.ReceiveWithTimeout(t, done, testutil.DefaultTestTimeout, "watch did not stop"))
}

func TestWatch_RejectsNonPositiveInterval(t *testing.T) {
	err := NewLoader(fixtureSource(), nil).Watch(t.Context(), 0, nil)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}
