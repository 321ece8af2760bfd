package ports

import (
	"context"

	"github.com/osmand-tracker/tracker/internal/core/domain"
)

// IdentityRepository persists identities. Identities are never updated or
// deleted once created.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	// FindByID returns domain.ErrOwnerNotFound when no identity has the id.
	FindByID(ctx context.Context, id domain.OwnerID) (*domain.Identity, error)
}
