package domain

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// OwnerID identifies an Identity. It is a ULID: 128 bits, globally unique and
// lexicographically sortable in its canonical text form.
type OwnerID ulid.ULID

// NewOwnerID returns a fresh, process-monotonic identifier.
func NewOwnerID() OwnerID {
	return OwnerID(ulid.Make())
}

// ParseOwnerID parses the canonical 26-character representation.
func ParseOwnerID(s string) (OwnerID, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return OwnerID{}, fmt.Errorf("%w: owner id %q: %v", ErrValidation, s, err)
	}
	return OwnerID(id), nil
}

func (id OwnerID) String() string {
	return ulid.ULID(id).String()
}

// IsZero reports whether id is the zero value.
func (id OwnerID) IsZero() bool {
	return ulid.ULID(id) == ulid.ULID{}
}

// MarshalText lets OwnerID appear as a plain string in JSON payloads.
func (id OwnerID) MarshalText() ([]byte, error) {
	return ulid.ULID(id).MarshalText()
}

func (id *OwnerID) UnmarshalText(b []byte) error {
	parsed, err := ParseOwnerID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Identity is a registered owner. CredentialHash holds a self-describing
// encoding (algorithm, parameters, salt and digest) and is written once.
type Identity struct {
	ID             OwnerID   `json:"user_id"`
	Name           string    `json:"name"`
	CredentialHash string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Registration is the result of a successful register call. It is the only
// value that ever carries the plaintext secret.
type Registration struct {
	Identity Identity
	Secret   string
}
