package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/ports"
)

// CredentialVerifier abstracts the identity service for ingestion.
type CredentialVerifier interface {
	Verify(ctx context.Context, id domain.OwnerID, secret string) error
}

type pointService struct {
	verifier CredentialVerifier
	repo     ports.PointRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewPointService returns a PointService implementation. Credentials are
// always verified before a point is written.
func NewPointService(verifier CredentialVerifier, repo ports.PointRepository, log zerolog.Logger) ports.PointService {
	return &pointService{
		verifier: verifier,
		repo:     repo,
		log:      log,
		now:      time.Now,
	}
}

// Append validates, authorizes and stores a single point.
func (s *pointService) Append(ctx context.Context, in ports.PointInput, credential string) error {
	if err := validatePoint(in); err != nil {
		return err
	}

	if err := s.verifier.Verify(ctx, in.Owner, credential); err != nil {
		return err
	}

	point := &domain.TrackingPoint{
		Owner:      in.Owner,
		Lat:        in.Lat,
		Lon:        in.Lon,
		Altitude:   in.Altitude,
		Speed:      in.Speed,
		HDOP:       in.HDOP,
		Bearing:    in.Bearing,
		Timestamp:  in.Timestamp,
		DeviceTime: domain.DeviceTimeFromMillis(in.Timestamp),
		ReceivedAt: s.now().UTC(),
	}

	if err := s.repo.Insert(ctx, point); err != nil {
		return fmt.Errorf("append point: %w", err)
	}

	s.log.Debug().
		Str("owner_id", in.Owner.String()).
		Time("device_ts", point.DeviceTime).
		Msg("point recorded")

	return nil
}

func validatePoint(in ports.PointInput) error {
	switch {
	case in.Owner.IsZero():
		return fmt.Errorf("%w: owner id is required", domain.ErrValidation)
	case !finite(in.Lat) || in.Lat < -90 || in.Lat > 90:
		return fmt.Errorf("%w: lat must be within [-90, 90]", domain.ErrValidation)
	case !finite(in.Lon) || in.Lon < -180 || in.Lon > 180:
		return fmt.Errorf("%w: lon must be within [-180, 180]", domain.ErrValidation)
	case !finite(in.Altitude), !finite(in.Speed):
		return fmt.Errorf("%w: altitude and speed must be finite", domain.ErrValidation)
	case in.HDOP != nil && (!finite(*in.HDOP) || *in.HDOP < 0):
		return fmt.Errorf("%w: hdop must be a non-negative number", domain.ErrValidation)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
