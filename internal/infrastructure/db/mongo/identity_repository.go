package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/osmand-tracker/tracker/internal/core/domain"
)

const identitiesCollection = "identities"

// IdentityRepository implements ports.IdentityRepository. Documents are
// inserted once and never modified.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(identitiesCollection)}
}

type mongoIdentity struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	CredentialHash string    `bson:"credential_hash"`
	CreatedAt      time.Time `bson:"created_at"`
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoIdentity{
		ID:             identity.ID.String(),
		Name:           identity.Name,
		CredentialHash: identity.CredentialHash,
		CreatedAt:      identity.CreatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: identity %s already exists", domain.ErrStorage, doc.ID)
		}
		return fmt.Errorf("%w: insert identity: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id domain.OwnerID) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("%w: find identity: %v", domain.ErrStorage, err)
	}

	return &domain.Identity{
		ID:             id,
		Name:           doc.Name,
		CredentialHash: doc.CredentialHash,
		CreatedAt:      doc.CreatedAt.UTC(),
	}, nil
}
