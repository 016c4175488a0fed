package lifecycle

import (
	"context"
	"fmt"

	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/store"
)

// IdentityView is an identity together with its grants as shown on dashboards.
type IdentityView struct {
	Identity *identitydomain.Identity
	Grants   []*grantdomain.Detail
}

// IdentityDetail returns the identity and its grants joined with credential names.
func (e *Engine) IdentityDetail(ctx context.Context, identityID string) (*IdentityView, error) {
	ident, err := e.store.GetIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, fmt.Errorf("identity %s: %w", identityID, ErrNotFound)
	}
	grants, err := e.store.ListGrantDetails(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return &IdentityView{Identity: ident, Grants: grants}, nil
}

// ListIdentities returns every identity for the admin overview.
func (e *Engine) ListIdentities(ctx context.Context) ([]*identitydomain.Identity, error) {
	return e.store.ListIdentities(ctx)
}

// Stats returns the dashboard counters.
func (e *Engine) Stats(ctx context.Context) (store.Stats, error) {
	return e.store.Stats(ctx)
}

// IdentitySummaries returns the per-identity grant activity report.
func (e *Engine) IdentitySummaries(ctx context.Context) ([]*store.IdentitySummary, error) {
	return e.store.IdentitySummaries(ctx)
}

// CredentialSummaries returns the per-credential-type grant status report.
func (e *Engine) CredentialSummaries(ctx context.Context) ([]*store.CredentialSummary, error) {
	return e.store.CredentialSummaries(ctx)
}

// Assignments returns every grant with its identity and credential type, newest first.
func (e *Engine) Assignments(ctx context.Context) ([]*store.Assignment, error) {
	return e.store.ListAssignments(ctx)
}
