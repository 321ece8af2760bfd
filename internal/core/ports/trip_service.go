package ports

import (
	"context"

	"github.com/osmand-tracker/tracker/internal/core/domain"
)

const (
	DefaultTripLimit = 2000
	MaxTripLimit     = 10000
)

// TripQuery carries the read parameters. Nil fields take their defaults:
// Since = 0 (epoch) and Limit = DefaultTripLimit.
type TripQuery struct {
	Owner domain.OwnerID
	Since *int64 // epoch milliseconds, exclusive
	Limit *int
}

// TripService resolves the active trip for an owner.
type TripService interface {
	ActiveTrip(ctx context.Context, q TripQuery) ([]domain.TrackingPoint, error)
}
