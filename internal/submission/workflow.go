// Package submission turns a captured image and its classification into a
// detection record on the backend.
package submission

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/backend"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/observability/metrics"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

// State is a step of the submission workflow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateResolvingLocation
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateResolvingLocation:
		return "resolving_location"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// DefaultLocationTimeout bounds a position lookup when Options leave it unset.
const DefaultLocationTimeout = 10 * time.Second

// Submitter creates detections on the backend. *backend.Client implements it.
type Submitter interface {
	CreateDetection(ctx context.Context, upload backend.DetectionUpload) (map[string]any, error)
}

// Request is one user-initiated submission.
type Request struct {
	Container      *record.ContainerRecord
	Image          []byte // raw bytes, data: URI or base64
	Classification string
	Confidence     any // fraction, percentage or numeric string
	UserID         *int
}

// Result describes a finished submission.
type Result struct {
	State   State
	Payload Payload
	Created map[string]any // backend echo on success
	Message string         // user-facing message on failure
}

// Options configures a Workflow.
type Options struct {
	Image           ImageOptions
	LocationTimeout time.Duration
	Metrics         *metrics.SubmissionMetrics
}

// Workflow runs detection submissions one at a time.
type Workflow struct {
	submitter Submitter
	location  LocationProvider
	opts      Options

	inFlight atomic.Bool

	mu       sync.RWMutex
	state    State
	onChange func(State)
}

// NewWorkflow creates a workflow. location may be nil when no position
// source is available.
func NewWorkflow(submitter Submitter, location LocationProvider, opts Options) *Workflow {
	if opts.LocationTimeout <= 0 {
		opts.LocationTimeout = DefaultLocationTimeout
	}
	return &Workflow{submitter: submitter, location: location, opts: opts}
}

// OnStateChange registers a callback invoked on every state transition.
func (w *Workflow) OnStateChange(fn func(State)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	fn := w.onChange
	w.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

// Submit validates the request, resolves coordinates, prepares the image and
// uploads the detection. A second call while one is running returns the bare
// ErrSubmissionInFlight sentinel without touching the running submission; the
// rejection is not reported to telemetry.
func (w *Workflow) Submit(ctx context.Context, req Request) (*Result, error) {
	if !w.inFlight.CompareAndSwap(false, true) {
		GetLogger().Debug("submission already in progress, ignoring request")
		return nil, ErrSubmissionInFlight
	}
	defer w.inFlight.Store(false)

	if m := w.opts.Metrics; m != nil {
		m.SetInFlight(true)
		defer m.SetInFlight(false)
	}

	start := time.Now()
	result, err := w.run(ctx, req)
	w.record(result, time.Since(start))
	return result, err
}

func (w *Workflow) run(ctx context.Context, req Request) (*Result, error) {
	log := GetLogger()

	w.setState(StateValidating)
	if req.Container == nil {
		return w.fail(Payload{}, MessageNoContainer, errors.New(ErrNoContainer).
			Component("submission").
			Category(errors.CategoryValidation).
			Build())
	}
	if len(req.Image) == 0 {
		return w.fail(Payload{}, MessageNoImage, errors.New(ErrNoImage).
			Component("submission").
			Category(errors.CategoryValidation).
			Build())
	}

	w.setState(StateResolvingLocation)
	location := w.resolveLocation(ctx, req.Container)

	payload := BuildPayload(req.Container.ID, req.UserID, req.Classification, req.Confidence, location)

	image, err := PrepareImage(req.Image, w.opts.Image)
	if err != nil {
		if errors.Is(err, ErrNoImage) {
			return w.fail(payload, MessageNoImage, err)
		}
		return w.fail(payload, MessageImage, err)
	}
	defer image.Remove()

	if m := w.opts.Metrics; m != nil {
		m.RecordImageSize(image.Size)
	}

	w.setState(StateSubmitting)
	log.Info("submitting detection",
		logger.Int("container_id", payload.ContainerID),
		logger.String("category", string(payload.Category)),
		logger.Float64("confidence", payload.ConfidencePercent),
		logger.Bool("has_location", payload.HasLocation()),
		logger.Int64("image_bytes", image.Size))

	created, err := w.submitter.CreateDetection(ctx, payload.Upload(image.Path))
	if err != nil {
		return w.fail(payload, FlattenError(err), err)
	}

	w.setState(StateSucceeded)
	log.Info("detection created", logger.Int("container_id", payload.ContainerID))
	return &Result{State: StateSucceeded, Payload: payload, Created: created}, nil
}

// resolveLocation prefers the container's coordinates and falls back to the
// device position. Provider failures are logged and yield no coordinates.
func (w *Workflow) resolveLocation(ctx context.Context, container *record.ContainerRecord) *record.GeoPoint {
	if container.Location != nil {
		loc := *container.Location
		return &loc
	}
	if w.location == nil {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, w.opts.LocationTimeout)
	defer cancel()

	point, err := w.location.CurrentLocation(lookupCtx)
	if err != nil {
		GetLogger().Warn("device location unavailable, submitting without coordinates",
			logger.Int("container_id", container.ID),
			logger.Error(err))
		return nil
	}
	valid, ok := record.NewGeoPoint(point.Latitude, point.Longitude)
	if !ok {
		GetLogger().Warn("device location out of range, submitting without coordinates",
			logger.Float64("latitude", point.Latitude),
			logger.Float64("longitude", point.Longitude))
		return nil
	}
	return valid
}

func (w *Workflow) fail(payload Payload, message string, err error) (*Result, error) {
	w.setState(StateFailed)
	GetLogger().Warn("detection submission failed",
		logger.String("message", message),
		logger.Error(err))
	return &Result{State: StateFailed, Payload: payload, Message: message}, err
}

func (w *Workflow) record(result *Result, elapsed time.Duration) {
	m := w.opts.Metrics
	if m == nil || result == nil {
		return
	}
	outcome := metrics.StatusSuccess
	if result.State != StateSucceeded {
		outcome = metrics.StatusError
	}
	m.RecordSubmission(outcome, result.Payload.HasLocation(), elapsed.Seconds())
}
