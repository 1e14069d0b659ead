package analytics

import (
	"context"
	"time"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
)

// Watch loads immediately and then on every interval tick until ctx is done.
// Load failures are logged and the previous snapshot stays in place.
func (l *Loader) Watch(ctx context.Context, interval time.Duration, currentUserID *int) error {
	if interval <= 0 {
		return errors.Newf("watch interval must be positive, got %s", interval).
			Component("analytics").
			Category(errors.CategoryValidation).
			Build()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := l.Load(ctx, currentUserID); err != nil && ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
