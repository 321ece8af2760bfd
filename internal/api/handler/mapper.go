package handler

import (
	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/ports"
)

// --- Request → Service input ---

func toPointInput(owner domain.OwnerID, r recordRequest) ports.PointInput {
	return ports.PointInput{
		Owner:     owner,
		Lat:       r.Lat,
		Lon:       r.Lon,
		Altitude:  r.Altitude,
		Bearing:   r.Bearing,
		Speed:     r.Speed,
		HDOP:      r.HDOP,
		Timestamp: r.Timestamp,
	}
}

// --- Domain → Response ---

func toPointResponse(p domain.TrackingPoint) pointResponse {
	return pointResponse{
		User:         p.Owner.String(),
		Lat:          p.Lat,
		Lon:          p.Lon,
		Altitude:     p.Altitude,
		Bearing:      p.Bearing,
		Speed:        p.Speed,
		HDOP:         p.HDOP,
		Timestamp:    p.Timestamp,
		UTCTimestamp: p.DeviceTime,
	}
}

func toTrackingResponse(points []domain.TrackingPoint) trackingResponse {
	values := make([]pointResponse, 0, len(points))
	for _, p := range points {
		values = append(values, toPointResponse(p))
	}
	return trackingResponse{Values: values}
}

func toIdentityResponse(id *domain.Identity) identityResponse {
	return identityResponse{
		UserID:    id.ID.String(),
		Name:      id.Name,
		CreatedAt: id.CreatedAt,
	}
}
