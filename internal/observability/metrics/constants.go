// Package metrics provides Prometheus collectors for the engine components.
package metrics

// Outcome label values shared by the collectors.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	LoadApplied = "applied"
	LoadStale   = "stale"
	LoadFailed  = "failed"
)

// Bucket layout constants for histograms.
const (
	BucketStart1ms  = 0.001
	BucketStart10KB = 10 * 1024
	BucketFactor2   = 2.0
	BucketFactor4   = 4.0
	BucketCount6    = 6
	BucketCount14   = 14
)
