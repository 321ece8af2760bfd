package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/ports"
)

func newPointSvc(verifier CredentialVerifier, repo *stubPointRepo, now time.Time) ports.PointService {
	svc := NewPointService(verifier, repo, zerolog.Nop()).(*pointService)
	svc.now = func() time.Time { return now }
	return svc
}

func validInput(owner domain.OwnerID, ts int64) ports.PointInput {
	hdop := 1.5
	return ports.PointInput{
		Owner:     owner,
		Lat:       52.52,
		Lon:       13.405,
		Altitude:  34.5,
		Bearing:   "NE",
		Speed:     3.2,
		HDOP:      &hdop,
		Timestamp: ts,
	}
}

func TestPointService_Append_HappyPath(t *testing.T) {
	repo := &stubPointRepo{}
	verifier := &stubVerifier{}
	received := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	svc := newPointSvc(verifier, repo, received)

	owner := domain.NewOwnerID()
	if err := svc.Append(context.Background(), validInput(owner, 1714564800123), "secret"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if verifier.calls != 1 {
		t.Fatalf("expected credential to be verified once, got %d", verifier.calls)
	}
	if len(repo.points) != 1 {
		t.Fatalf("expected one stored point, got %d", len(repo.points))
	}
	p := repo.points[0]
	if p.Owner != owner || p.Bearing != "NE" || p.HDOP == nil || *p.HDOP != 1.5 {
		t.Errorf("unexpected point: %+v", p)
	}
	if p.Timestamp != 1714564800123 {
		t.Errorf("epoch millis must be kept verbatim, got %d", p.Timestamp)
	}
	if want := time.Date(2024, 5, 1, 12, 0, 0, 123e6, time.UTC); !p.DeviceTime.Equal(want) || p.DeviceTime.Location() != time.UTC {
		t.Errorf("device time = %v, want %v", p.DeviceTime, want)
	}
	if !p.ReceivedAt.Equal(received) || p.ReceivedAt.Location() != time.UTC {
		t.Errorf("received_at = %v, want %v in UTC", p.ReceivedAt, received)
	}
}

func TestPointService_Append_OptionalHDOP(t *testing.T) {
	repo := &stubPointRepo{}
	svc := newPointSvc(&stubVerifier{}, repo, time.Now())

	in := validInput(domain.NewOwnerID(), 0)
	in.HDOP = nil
	if err := svc.Append(context.Background(), in, "secret"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if repo.points[0].HDOP != nil {
		t.Errorf("expected absent hdop to stay absent")
	}
}

func TestPointService_Append_Unauthorized(t *testing.T) {
	repo := &stubPointRepo{}
	svc := newPointSvc(&stubVerifier{err: domain.ErrUnauthorized}, repo, time.Now())

	err := svc.Append(context.Background(), validInput(domain.NewOwnerID(), 1), "bad")
	if err != domain.ErrUnauthorized {
		t.Fatalf("expected verifier error to propagate untouched, got: %v", err)
	}
	if len(repo.points) != 0 {
		t.Errorf("nothing must be written on auth failure")
	}
}

func TestPointService_Append_Validation(t *testing.T) {
	owner := domain.NewOwnerID()
	negative := -1.0
	cases := map[string]func(*ports.PointInput){
		"zero owner":    func(in *ports.PointInput) { in.Owner = domain.OwnerID{} },
		"lat too high":  func(in *ports.PointInput) { in.Lat = 90.1 },
		"lon too low":   func(in *ports.PointInput) { in.Lon = -180.5 },
		"negative hdop": func(in *ports.PointInput) { in.HDOP = &negative },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubPointRepo{}
			verifier := &stubVerifier{}
			svc := newPointSvc(verifier, repo, time.Now())

			in := validInput(owner, 1)
			mutate(&in)
			if err := svc.Append(context.Background(), in, "secret"); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got: %v", err)
			}
			if verifier.calls != 0 || len(repo.points) != 0 {
				t.Errorf("validation must happen before verification and storage")
			}
		})
	}
}

func TestPointService_Append_StorageError(t *testing.T) {
	repo := &stubPointRepo{insertErr: fmt.Errorf("%w: write conflict", domain.ErrStorage)}
	svc := newPointSvc(&stubVerifier{}, repo, time.Now())

	err := svc.Append(context.Background(), validInput(domain.NewOwnerID(), 1), "secret")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got: %v", err)
	}
}

func TestPointService_Append_ConcurrentNoLostWrites(t *testing.T) {
	repo := &stubPointRepo{}
	idRepo := newStubIdentityRepo()
	identities := newIdentitySvc(idRepo, nil)
	ctx := context.Background()

	reg, err := identities.Register(ctx, "phone")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	svc := NewPointService(identities, repo, zerolog.Nop())

	const n = 50
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC).UnixMilli()
	var wg conc.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Go(func() {
			// reversed timestamps: arrival order differs from device order
			errs[i] = svc.Append(ctx, validInput(reg.Identity.ID, start+int64(n-i)*1000), reg.Secret)
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	trips := NewTripService(repo, zerolog.Nop())
	points, err := trips.ActiveTrip(ctx, ports.TripQuery{Owner: reg.Identity.ID})
	if err != nil {
		t.Fatalf("active trip: %v", err)
	}
	if len(points) != n {
		t.Fatalf("expected %d points, got %d", n, len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].DeviceTime.After(points[i-1].DeviceTime) {
			t.Fatalf("points not newest first at %d", i)
		}
	}
}
