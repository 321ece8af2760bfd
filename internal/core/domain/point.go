package domain

import "time"

// TrackingPoint is a single GPS sample. Once stored it is never modified.
type TrackingPoint struct {
	ID       string
	Owner    OwnerID
	Lat      float64
	Lon      float64
	Altitude float64
	Speed    float64
	// HDOP is nil when the device did not report it.
	HDOP    *float64
	Bearing string
	// Timestamp is the device-reported epoch milliseconds, kept verbatim.
	Timestamp  int64
	DeviceTime time.Time
	ReceivedAt time.Time
}

// DeviceTimeFromMillis converts a client epoch-millisecond value to a UTC instant.
func DeviceTimeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
