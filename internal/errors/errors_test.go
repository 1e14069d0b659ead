package errors

import (
	"fmt"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	reported []*EnhancedError
}

func (r *recordingReporter) ReportError(ee *EnhancedError) { r.reported = append(r.reported, ee) }
func (r *recordingReporter) IsEnabled() bool               { return true }

func TestBuild_Defaults(t *testing.T) {
	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.Component)
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.False(t, ee.Timestamp.IsZero())
}

func TestBuild_WithContext(t *testing.T) {
	ee := Newf("request failed: %d", 500).
		Component("backend").
		Category(CategoryHTTP).
		Context("endpoint", "/tachos/").
		Build()

	assert.Equal(t, "backend", ee.Component)
	assert.True(t, IsCategory(ee, CategoryHTTP))
	assert.Equal(t, "/tachos/", ee.GetContext()["endpoint"])

	ctx := ee.GetContext()
	ctx["endpoint"] = "mutated"
	assert.Equal(t, "/tachos/", ee.GetContext()["endpoint"], "context copy must not alias")
}

func TestEnhancedError_UnwrapAndIs(t *testing.T) {
	sentinel := NewStd("sentinel")
	wrapped := New(fmt.Errorf("outer: %w", sentinel)).Category(CategoryValidation).Build()

	assert.ErrorIs(t, wrapped, sentinel)
	assert.ErrorIs(t, fmt.Errorf("again: %w", wrapped), &EnhancedError{Category: CategoryValidation})
}

func TestTelemetryReporter_ReceivesBuiltErrors(t *testing.T) {
	rec := &recordingReporter{}
	SetTelemetryReporter(rec)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(NewStd("boom")).Component("submission").Build()

	require.Len(t, rec.reported, 1)
	assert.Same(t, ee, rec.reported[0])
}

func TestSentryReporter_SkipsWhenDisabled(t *testing.T) {
	ee := New(NewStd("boom")).Category(CategoryNetwork).Build()
	NewSentryReporter(false).ReportError(ee)
	assert.False(t, ee.IsReported())
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sentry.LevelWarning, levelFor(CategoryNetwork))
	assert.Equal(t, sentry.LevelError, levelFor(CategoryFileIO))
}
