package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/osmand-tracker/tracker/internal/core/credential"
	"github.com/osmand-tracker/tracker/internal/core/domain"
	"github.com/osmand-tracker/tracker/internal/core/ports"
)

const maxNameLength = 200

// IdentityService registers owners and verifies their credentials.
type IdentityService struct {
	repo   ports.IdentityRepository
	hasher credential.Hasher
	cache  ports.CredentialCache // optional
	log    zerolog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummy     string
}

// NewIdentityService wires the service. cache may be nil.
func NewIdentityService(repo ports.IdentityRepository, hasher credential.Hasher, cache ports.CredentialCache, log zerolog.Logger) *IdentityService {
	if hasher == nil {
		hasher = credential.DefaultArgon2id()
	}
	return &IdentityService{
		repo:   repo,
		hasher: hasher,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// Register creates an identity and returns its secret. The secret is not
// stored anywhere and cannot be recovered later.
func (s *IdentityService) Register(ctx context.Context, name string) (*domain.Registration, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be between 1 and %d characters", domain.ErrValidation, maxNameLength)
	}

	secret, err := credential.NewSecret()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, err
	}

	identity := domain.Identity{
		ID:             domain.NewOwnerID(),
		Name:           name,
		CredentialHash: hash,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &identity); err != nil {
		s.log.Error().Err(err).Msg("failed to create identity")
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("owner_id", identity.ID.String()).Msg("identity registered")

	return &domain.Registration{Identity: identity, Secret: secret}, nil
}

// Verify checks a presented secret. Every credential failure yields
// domain.ErrUnauthorized; only storage failures surface differently.
func (s *IdentityService) Verify(ctx context.Context, id domain.OwnerID, secret string) error {
	key := cacheKey(id, secret)
	if s.cache != nil {
		seen, err := s.cache.Seen(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("credential cache lookup failed")
		} else if seen {
			return nil
		}
	}

	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			// Burn a comparable amount of work so unknown owners are not
			// distinguishable by latency.
			_ = credential.Verify(s.dummyHash(), secret)
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("verify: %w", err)
	}

	if err := credential.Verify(identity.CredentialHash, secret); err != nil {
		if errors.Is(err, credential.ErrMalformed) {
			s.log.Warn().Str("owner_id", id.String()).Msg("stored credential hash is malformed")
		}
		return domain.ErrUnauthorized
	}
	if s.cache != nil {
		if err := s.cache.Remember(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("credential cache store failed")
		}
	}
	return nil
}

// Lookup returns the public view of an identity.
func (s *IdentityService) Lookup(ctx context.Context, id domain.OwnerID) (*domain.Identity, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	identity.CredentialHash = ""
	return identity, nil
}

func (s *IdentityService) dummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = s.hasher.Hash("unknown-owner")
	})
	return s.dummy
}

func cacheKey(id domain.OwnerID, secret string) string {
	sum := sha256.Sum256([]byte(id.String() + "\x00" + secret))
	return hex.EncodeToString(sum[:])
}
