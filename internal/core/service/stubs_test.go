package service

import (
	"context"
	"sync"

	"github.com/osmand-tracker/tracker/internal/core/credential"
	"github.com/osmand-tracker/tracker/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests
// ---------------------------------------------------------------------------

func cheapHasher() credential.Hasher {
	return credential.Argon2id{Time: 1, Memory: 1024, Threads: 1, SaltLen: 16, KeyLen: 32}
}

type stubIdentityRepo struct {
	mu        sync.Mutex
	byID      map[domain.OwnerID]domain.Identity
	createErr error
	findErr   error
	finds     int
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byID: make(map[domain.OwnerID]domain.Identity)}
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[identity.ID] = *identity
	return nil
}

func (r *stubIdentityRepo) FindByID(_ context.Context, id domain.OwnerID) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	identity, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOwnerNotFound
	}
	return &identity, nil
}

type stubPointRepo struct {
	mu        sync.Mutex
	points    []domain.TrackingPoint
	insertErr error
	listErr   error
	listedFor []domain.OwnerID
}

func (r *stubPointRepo) Insert(_ context.Context, p *domain.TrackingPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.points = append(r.points, *p)
	return nil
}

func (r *stubPointRepo) ListByOwner(_ context.Context, owner domain.OwnerID) ([]domain.TrackingPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listedFor = append(r.listedFor, owner)
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.TrackingPoint
	for _, p := range r.points {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubCache struct {
	mu      sync.Mutex
	keys    map[string]struct{}
	seenErr error
}

func newStubCache() *stubCache {
	return &stubCache{keys: make(map[string]struct{})}
}

func (c *stubCache) Seen(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seenErr != nil {
		return false, c.seenErr
	}
	_, ok := c.keys[key]
	return ok, nil
}

func (c *stubCache) Remember(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[key] = struct{}{}
	return nil
}

type stubVerifier struct {
	err   error
	calls int
}

func (v *stubVerifier) Verify(_ context.Context, _ domain.OwnerID, _ string) error {
	v.calls++
	return v.err
}
