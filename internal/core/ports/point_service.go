package ports

import (
	"context"

	"github.com/osmand-tracker/tracker/internal/core/domain"
)

// PointInput is the DTO passed from the transport layer to PointService.
type PointInput struct {
	Owner     domain.OwnerID
	Lat       float64
	Lon       float64
	Altitude  float64
	Bearing   string
	Speed     float64
	HDOP      *float64 // optional
	Timestamp int64    // device epoch milliseconds
}

// PointService ingests tracking points.
type PointService interface {
	Append(ctx context.Context, in PointInput, credential string) error
}
