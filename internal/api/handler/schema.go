package handler

import "time"

// recordRequest mirrors the OsmAnd online tracking URL parameters.
type recordRequest struct {
	User      string   `param:"user"       validate:"required,ulid"`
	Lat       float64  `param:"lat"        validate:"latitude"`
	Lon       float64  `param:"lon"        validate:"longitude"`
	Altitude  float64  `param:"altitude"`
	Bearing   string   `param:"bearing"    validate:"max=64"`
	Speed     float64  `param:"speed"`
	HDOP      *float64 `param:"hdop"       validate:"omitempty,gte=0"`
	Timestamp int64    `param:"timestamp"`
	RecordKey string   `param:"record_key" validate:"required"`
}

type trackingRequest struct {
	UserID         string `param:"user_id" validate:"required,ulid"`
	LaterThanEpoch *int64 `param:"later_than_epoch"`
	Limit          *int   `param:"limit"`
}

type registerRequest struct {
	Name     string `json:"name"     form:"name"`
	Username string `json:"username" form:"username"`
}

type pointResponse struct {
	User         string    `json:"user"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Altitude     float64   `json:"altitude"`
	Bearing      string    `json:"bearing"`
	Speed        float64   `json:"speed"`
	HDOP         *float64  `json:"hdop"`
	Timestamp    int64     `json:"timestamp"`
	UTCTimestamp time.Time `json:"utc_timestamp"`
}

type trackingResponse struct {
	Values []pointResponse `json:"values"`
}

type registerResponse struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

type identityResponse struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
