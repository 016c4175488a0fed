// Package store persists identities, credential types and grants.
//
// Lifecycle mutations run through InTx: the transaction locks one identity row with
// LockIdentity and holds it until commit, so grant changes and the status write that
// follows them are serialized per identity.
package store

import (
	"context"
	"errors"
	"time"

	credentialdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
)

var (
	// ErrDuplicate is returned when a write violates a uniqueness constraint
	// (identity email, credential type name, or one grant per identity and credential type).
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrReferenced is returned when a write violates a foreign key: deleting a credential
	// type that grants still reference, or creating a grant for a missing credential type.
	ErrReferenced = errors.New("store: reference violation")
	// ErrNotLocked is returned when a grant write targets an identity the transaction has not locked.
	ErrNotLocked = errors.New("store: identity not locked in this transaction")
)

// Stats is the dashboard aggregate over all identities and grants.
type Stats struct {
	Total                 int
	Pending               int
	Onboarded             int
	OffboardingInProgress int
	Offboarded            int
	ProblematicGrants     int
}

// IdentitySummary is one identity with the flag counts of all its grants.
// Flags are counted independently, so an inactive confirmed grant counts toward both.
type IdentitySummary struct {
	Identity    *identitydomain.Identity
	Total       int
	Confirmed   int
	Problematic int
	Inactive    int
}

// CredentialSummary is one credential type with the flag counts of the grants referencing it.
// Pending counts grants with none of the three flags set.
type CredentialSummary struct {
	CredentialType *credentialdomain.CredentialType
	Total          int
	Confirmed      int
	Problematic    int
	Inactive       int
	Pending        int
}

// Assignment is a grant joined with its credential type and owning identity.
type Assignment struct {
	grantdomain.Detail
	IdentityEmail  string
	IdentityName   string
	IdentityStatus identitydomain.Status
}

// Reader holds the non-transactional reads. Single-row getters return (nil, nil) when the row is missing.
type Reader interface {
	GetIdentity(ctx context.Context, id string) (*identitydomain.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*identitydomain.Identity, error)
	ListIdentities(ctx context.Context) ([]*identitydomain.Identity, error)
	GetGrant(ctx context.Context, id string) (*grantdomain.Grant, error)
	ListGrantDetails(ctx context.Context, identityID string) ([]*grantdomain.Detail, error)
	GetCredentialType(ctx context.Context, id string) (*credentialdomain.CredentialType, error)
	ListCredentialTypes(ctx context.Context) ([]*credentialdomain.CredentialType, error)
	Stats(ctx context.Context) (Stats, error)
	// IdentitySummaries returns every identity ordered by email, including those without grants.
	IdentitySummaries(ctx context.Context) ([]*IdentitySummary, error)
	// CredentialSummaries returns every credential type ordered by name, including unassigned ones.
	CredentialSummaries(ctx context.Context) ([]*CredentialSummary, error)
	// ListAssignments returns every grant, newest first.
	ListAssignments(ctx context.Context) ([]*Assignment, error)
}

// Writer holds writes outside the identity lifecycle.
type Writer interface {
	CreateIdentity(ctx context.Context, i *identitydomain.Identity) error
	CreateCredentialType(ctx context.Context, c *credentialdomain.CredentialType) error
	UpdateCredentialType(ctx context.Context, c *credentialdomain.CredentialType) error
	// DeleteCredentialType returns ErrReferenced while any grant references the type.
	DeleteCredentialType(ctx context.Context, id string) error
}

// Tx is the unit of work for lifecycle mutations. Nothing written through it is visible
// to other readers until InTx commits.
type Tx interface {
	// LockIdentity takes the per-identity lock and returns the identity, or nil if it does not exist.
	LockIdentity(ctx context.Context, id string) (*identitydomain.Identity, error)
	// SaveIdentityStatus writes Status, OnboardedAt, OffboardedAt and UpdatedAt.
	SaveIdentityStatus(ctx context.Context, i *identitydomain.Identity) error
	GetGrant(ctx context.Context, id string) (*grantdomain.Grant, error)
	GetCredentialType(ctx context.Context, id string) (*credentialdomain.CredentialType, error)
	CountGrants(ctx context.Context, identityID string) (grantdomain.Counts, error)
	CreateGrant(ctx context.Context, g *grantdomain.Grant) error
	// UpdateGrant writes the three flags and UpdatedAt.
	UpdateGrant(ctx context.Context, g *grantdomain.Grant) error
	DeleteGrant(ctx context.Context, id string) error
	// DeactivateGrants sets inactive on every grant of identityID and returns how many rows changed.
	DeactivateGrants(ctx context.Context, identityID string, at time.Time) (int64, error)
}

// Store is the full grant store.
type Store interface {
	Reader
	Writer
	// InTx runs fn in one transaction: committed if fn returns nil, rolled back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
