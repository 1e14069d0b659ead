// Package analytics loads containers and detections together and derives the
// per-group statistics shown on the dashboard.
package analytics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/observability/metrics"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/ownership"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/stats"
)

// ErrStaleLoad is returned by Load when a newer load was issued before this
// one finished. The result was computed but not applied.
var ErrStaleLoad = errors.NewStd("load superseded by a newer load")

// Source lists raw backend records. *backend.Client implements it.
type Source interface {
	ListContainers(ctx context.Context) ([]map[string]any, error)
	ListDetections(ctx context.Context) ([]map[string]any, error)
}

// Snapshot is the derived state of one load.
type Snapshot struct {
	Generation uint64
	LoadedAt   time.Time
	UserID     *int

	Containers []record.ContainerRecord
	Detections []record.DetectionRecord
	Partition  ownership.Partition
	Groups     ownership.DetectionGroups

	Personal       stats.Summary
	Company        stats.Summary
	Public         stats.Summary
	ContainerStats stats.ContainerSummary

	DroppedContainers int
	DroppedDetections int
}

// Summary returns the statistics of one group.
func (s *Snapshot) Summary(g ownership.Group) stats.Summary {
	switch g {
	case ownership.GroupPersonal:
		return s.Personal
	case ownership.GroupCompany:
		return s.Company
	case ownership.GroupPublic:
		return s.Public
	default:
		return stats.Summarize(nil)
	}
}

// Loader runs loads and keeps the latest applied snapshot.
//
// Every Load takes a new generation token. A finished load is applied only if
// its token is still the latest issued one; otherwise it is discarded.
type Loader struct {
	source  Source
	metrics *metrics.LoaderMetrics
	log     logger.Logger

	generation atomic.Uint64

	mu      sync.RWMutex
	current *Snapshot
	onApply func(*Snapshot)
}

// NewLoader creates a loader. m may be nil.
func NewLoader(source Source, m *metrics.LoaderMetrics) *Loader {
	return &Loader{
		source:  source,
		metrics: m,
		log:     logger.Global().Module("analytics"),
	}
}

// OnApply registers a callback invoked with every applied snapshot.
func (l *Loader) OnApply(fn func(*Snapshot)) {
	l.mu.Lock()
	l.onApply = fn
	l.mu.Unlock()
}

// Current returns the latest applied snapshot, nil before the first one.
func (l *Loader) Current() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Generation returns the latest issued generation token.
func (l *Loader) Generation() uint64 {
	return l.generation.Load()
}

// Load fetches containers and detections jointly, derives the snapshot for
// currentUserID and applies it. A superseded load returns its snapshot
// together with ErrStaleLoad.
func (l *Loader) Load(ctx context.Context, currentUserID *int) (*Snapshot, error) {
	token := l.generation.Add(1)
	start := time.Now()

	var rawContainers, rawDetections []map[string]any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawContainers, err = l.source.ListContainers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rawDetections, err = l.source.ListDetections(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		l.recordLoad(metrics.LoadFailed, start)
		l.log.Warn("load failed", logger.Uint64("generation", token), logger.Error(err))
		return nil, errors.New(err).
			Component("analytics").
			Category(loadErrorCategory(err)).
			Context("generation", token).
			Build()
	}

	snap := derive(rawContainers, rawDetections, currentUserID)
	snap.Generation = token
	snap.LoadedAt = time.Now()

	if !l.apply(snap) {
		l.recordLoad(metrics.LoadStale, start)
		l.log.Debug("discarding stale load",
			logger.Uint64("generation", token),
			logger.Uint64("latest", l.generation.Load()))
		return snap, ErrStaleLoad
	}

	l.recordLoad(metrics.LoadApplied, start)
	l.recordSnapshot(snap)
	l.log.Info("load applied",
		logger.Uint64("generation", token),
		logger.Int("containers", len(snap.Containers)),
		logger.Int("detections", len(snap.Detections)),
		logger.Duration("elapsed", time.Since(start)))
	return snap, nil
}

func (l *Loader) apply(snap *Snapshot) bool {
	l.mu.Lock()
	if snap.Generation != l.generation.Load() {
		l.mu.Unlock()
		return false
	}
	l.current = snap
	fn := l.onApply
	l.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return true
}

// derive normalizes the raw lists and computes groups and statistics.
func derive(rawContainers, rawDetections []map[string]any, currentUserID *int) *Snapshot {
	containers := record.NormalizeContainers(rawContainers)
	detections := record.NormalizeDetections(rawDetections)

	partition := ownership.Classify(containers, currentUserID)
	groups := partition.GroupDetections(detections, currentUserID)

	return &Snapshot{
		UserID:            currentUserID,
		Containers:        containers,
		Detections:        detections,
		Partition:         partition,
		Groups:            groups,
		Personal:          stats.Summarize(groups.Personal),
		Company:           stats.Summarize(groups.Company),
		Public:            stats.Summarize(groups.Public),
		ContainerStats:    stats.SummarizeContainers(containers),
		DroppedContainers: len(rawContainers) - len(containers),
		DroppedDetections: len(rawDetections) - len(detections),
	}
}

func (l *Loader) recordLoad(result string, start time.Time) {
	if l.metrics != nil {
		l.metrics.RecordLoad(result, time.Since(start).Seconds())
	}
}

func (l *Loader) recordSnapshot(snap *Snapshot) {
	if l.metrics == nil {
		return
	}
	l.metrics.SetAppliedGeneration(snap.Generation)
	l.metrics.SetGroupDetections(ownership.GroupPersonal.String(), len(snap.Groups.Personal))
	l.metrics.SetGroupDetections(ownership.GroupCompany.String(), len(snap.Groups.Company))
	l.metrics.SetGroupDetections(ownership.GroupPublic.String(), len(snap.Groups.Public))
	l.metrics.AddDroppedRecords("container", snap.DroppedContainers)
	l.metrics.AddDroppedRecords("detection", snap.DroppedDetections)
}

func loadErrorCategory(err error) errors.ErrorCategory {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errors.CategoryCancellation
	case errors.IsCategory(err, errors.CategoryNetwork):
		return errors.CategoryNetwork
	default:
		return errors.CategoryHTTP
	}
}
