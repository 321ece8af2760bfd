package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/ports"
	"github.com/osmand-tracker/tracker/internal/core/trip"
)

type TripService struct {
	repo ports.PointRepository
	log  zerolog.Logger
}

func NewTripService(repo ports.PointRepository, log zerolog.Logger) *TripService {
	return &TripService{repo: repo, log: log}
}

// ActiveTrip loads the owner's history and returns the filtered active trip,
// newest first.
func (s *TripService) ActiveTrip(ctx context.Context, q ports.TripQuery) ([]domain.TrackingPoint, error) {
	var since int64
	if q.Since != nil {
		since = *q.Since
	}

	limit := ports.DefaultTripLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	if limit < 0 || limit > ports.MaxTripLimit {
		return nil, fmt.Errorf("%w: limit must be between 0 and %d", domain.ErrValidation, ports.MaxTripLimit)
	}

	history, err := s.repo.ListByOwner(ctx, q.Owner)
	if err != nil {
		return nil, fmt.Errorf("active trip: %w", err)
	}

	points := trip.ActiveTrip(history, domain.DeviceTimeFromMillis(since), limit)

	s.log.Debug().
		Str("owner_id", q.Owner.String()).
		Int("history", len(history)).
		Int("returned", len(points)).
		Msg("active trip resolved")

	return points, nil
}
