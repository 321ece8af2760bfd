package ports

import (
	"context"

	"github.com/osmand-tracker/tracker/internal/core/domain"
)

// PointRepository is append-only storage for tracking points.
type PointRepository interface {
	// Insert writes exactly one record, atomically.
	Insert(ctx context.Context, point *domain.TrackingPoint) error
	// ListByOwner returns the owner's full history. Order is not guaranteed;
	// callers sort.
	ListByOwner(ctx context.Context, owner domain.OwnerID) ([]domain.TrackingPoint, error)
}
