package ports

import (
	"context"

	"github.com/osmand-tracker/tracker/internal/core/domain"
)

type IdentityService interface {
	Register(ctx context.Context, name string) (*domain.Registration, error)
	// Verify returns domain.ErrUnauthorized for every credential failure.
	Verify(ctx context.Context, id domain.OwnerID, secret string) error
	Lookup(ctx context.Context, id domain.OwnerID) (*domain.Identity, error)
}
