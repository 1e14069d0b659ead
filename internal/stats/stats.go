// Package stats computes per-group detection statistics.
package stats

import (
	"maps"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/confidence"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

// Summary is the statistics of one set of detections.
type Summary struct {
	Total             int
	AverageConfidence float64 // percent, 0-100
	CountsByCategory  map[record.Category]int
}

// Summarize counts detections, averages their confidence and counts them per
// category. Categories without detections are absent from CountsByCategory.
// It is pure: the same input always yields the same summary.
func Summarize(detections []record.DetectionRecord) Summary {
	s := Summary{
		Total:            len(detections),
		CountsByCategory: map[record.Category]int{},
	}
	if len(detections) == 0 {
		return s
	}

	var sum float64
	for _, d := range detections {
		sum += confidence.Resolve(d.Confidence)
		s.CountsByCategory[categoryOf(d)]++
	}
	s.AverageConfidence = confidence.Percent(sum / float64(len(detections)))
	return s
}

// categoryOf re-derives the category from the original label when one is
// present, so hand-built records are counted the same way as normalized ones.
func categoryOf(d record.DetectionRecord) record.Category {
	if d.Label != "" {
		return record.ClassifyCategory(d.Label)
	}
	if d.Category == "" {
		return record.CategoryOther
	}
	return d.Category
}

// WithAllCategories returns a copy of the counts with every category present,
// missing ones set to zero.
func (s Summary) WithAllCategories() map[record.Category]int {
	out := make(map[record.Category]int, len(record.AllCategories))
	for _, c := range record.AllCategories {
		out[c] = 0
	}
	maps.Copy(out, s.CountsByCategory)
	return out
}

// ContainerSummary counts containers per status.
type ContainerSummary struct {
	Total        int
	Active       int
	Maintenance  int
	OutOfService int
}

// SummarizeContainers counts containers per status for the dashboard header.
func SummarizeContainers(containers []record.ContainerRecord) ContainerSummary {
	s := ContainerSummary{Total: len(containers)}
	for _, c := range containers {
		switch c.Status {
		case record.StatusActive:
			s.Active++
		case record.StatusMaintenance:
			s.Maintenance++
		default:
			s.OutOfService++
		}
	}
	return s
}
