package submission

import (
	"context"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

// LocationProvider returns the current device position.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (record.GeoPoint, error)
}

// LocationFunc adapts a function to LocationProvider.
type LocationFunc func(ctx context.Context) (record.GeoPoint, error)

// CurrentLocation calls f.
func (f LocationFunc) CurrentLocation(ctx context.Context) (record.GeoPoint, error) {
	return f(ctx)
}

// StaticLocation always reports the same position, e.g. one taken from configuration.
type StaticLocation record.GeoPoint

// CurrentLocation returns the fixed position.
func (s StaticLocation) CurrentLocation(ctx context.Context) (record.GeoPoint, error) {
	if err := ctx.Err(); err != nil {
		return record.GeoPoint{}, err
	}
	return record.GeoPoint(s), nil
}
