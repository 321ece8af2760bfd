// Package trip reconstructs trips from an owner's raw point history.
//
// A trip is a maximal run of points in which consecutive samples (ordered by
// device time) are no more than GapThreshold apart. Boundaries are derived on
// every read; nothing about trips is stored.
package trip

import (
	"cmp"
	"slices"
	"time"

	"github.com/osmand-tracker/tracker/internal/core/domain"
)

// GapThreshold separates two trips. A gap equal to the threshold does not
// start a new trip.
const GapThreshold = 5 * time.Hour

// SortNewestFirst orders points by device time descending. Ties are broken by
// receipt time and then by ID, both descending, so the order is deterministic
// for a given set of stored points.
func SortNewestFirst(points []domain.TrackingPoint) {
	slices.SortStableFunc(points, func(a, b domain.TrackingPoint) int {
		if c := b.DeviceTime.Compare(a.DeviceTime); c != 0 {
			return c
		}
		if c := b.ReceivedAt.Compare(a.ReceivedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

// Starts flags each point of a newest-first slice that begins a trip: the
// oldest point always does, any other point does when its older neighbour is
// more than GapThreshold earlier.
func Starts(sorted []domain.TrackingPoint) []bool {
	starts := make([]bool, len(sorted))
	for i := range sorted {
		if i == len(sorted)-1 {
			starts[i] = true
			continue
		}
		starts[i] = sorted[i].DeviceTime.Sub(sorted[i+1].DeviceTime) > GapThreshold
	}
	return starts
}

// Count returns the number of trips in a newest-first slice.
func Count(sorted []domain.TrackingPoint) int {
	n := 0
	for _, s := range Starts(sorted) {
		if s {
			n++
		}
	}
	return n
}

// ActiveTrip returns the points of the most recent trip that are strictly
// newer than since, newest first, at most limit of them. points is not
// modified.
func ActiveTrip(points []domain.TrackingPoint, since time.Time, limit int) []domain.TrackingPoint {
	if len(points) == 0 || limit <= 0 {
		return []domain.TrackingPoint{}
	}

	sorted := slices.Clone(points)
	SortNewestFirst(sorted)

	starts := Starts(sorted)
	first := slices.Index(starts, true)
	boundary := sorted[first].DeviceTime

	out := make([]domain.TrackingPoint, 0, min(limit, first+1))
	for _, p := range sorted {
		// sorted is newest first, so both filters cut a prefix
		if p.DeviceTime.Before(boundary) || !p.DeviceTime.After(since) {
			break
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}
