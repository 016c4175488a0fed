// Package wire converts domain values to the lifecycle/v1 wire messages and domain errors to
// gRPC status errors. Handlers share it so every surface reports the same codes.
package wire

import (
	"context"
	"errors"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
	credentialdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/server/interceptors"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/store"
)

// Identity converts an identity, dropping the password hash.
func Identity(i *identitydomain.Identity) *lifecyclev1.Identity {
	if i == nil {
		return nil
	}
	return &lifecyclev1.Identity{
		ID:           i.ID,
		Email:        i.Email,
		Name:         i.Name,
		Role:         string(i.Role),
		Status:       string(i.Status),
		OnboardedAt:  i.OnboardedAt,
		OffboardedAt: i.OffboardedAt,
		CreatedAt:    i.CreatedAt,
	}
}

// Identities converts a list of identities.
func Identities(list []*identitydomain.Identity) []*lifecyclev1.Identity {
	out := make([]*lifecyclev1.Identity, len(list))
	for i := range list {
		out[i] = Identity(list[i])
	}
	return out
}

// Grant converts a bare grant with its display state.
func Grant(g *grantdomain.Grant) *lifecyclev1.Grant {
	if g == nil {
		return nil
	}
	return &lifecyclev1.Grant{
		ID:               g.ID,
		IdentityID:       g.IdentityID,
		CredentialTypeID: g.CredentialTypeID,
		Confirmed:        g.Confirmed,
		Problematic:      g.Problematic,
		Inactive:         g.Inactive,
		State:            string(g.Display()),
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

// GrantDetails converts grants joined with their credential type.
func GrantDetails(list []*grantdomain.Detail) []*lifecyclev1.Grant {
	out := make([]*lifecyclev1.Grant, len(list))
	for i, d := range list {
		g := Grant(&d.Grant)
		g.CredentialName = d.CredentialName
		g.CredentialDescription = d.CredentialDescription
		out[i] = g
	}
	return out
}

// CredentialType converts a credential type.
func CredentialType(c *credentialdomain.CredentialType) *lifecyclev1.CredentialType {
	if c == nil {
		return nil
	}
	return &lifecyclev1.CredentialType{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// IdentitySummaries converts the per-identity grant report.
func IdentitySummaries(list []*store.IdentitySummary) []*lifecyclev1.IdentitySummary {
	out := make([]*lifecyclev1.IdentitySummary, len(list))
	for i, s := range list {
		out[i] = &lifecyclev1.IdentitySummary{
			Identity:          Identity(s.Identity),
			TotalGrants:       s.Total,
			ConfirmedGrants:   s.Confirmed,
			ProblematicGrants: s.Problematic,
			InactiveGrants:    s.Inactive,
		}
	}
	return out
}

// CredentialSummaries converts the per-credential-type grant report.
func CredentialSummaries(list []*store.CredentialSummary) []*lifecyclev1.CredentialSummary {
	out := make([]*lifecyclev1.CredentialSummary, len(list))
	for i, s := range list {
		out[i] = &lifecyclev1.CredentialSummary{
			CredentialType:    CredentialType(s.CredentialType),
			TotalGrants:       s.Total,
			ConfirmedGrants:   s.Confirmed,
			ProblematicGrants: s.Problematic,
			InactiveGrants:    s.Inactive,
			PendingGrants:     s.Pending,
		}
	}
	return out
}

// Assignments converts the assignment report.
func Assignments(list []*store.Assignment) []*lifecyclev1.Assignment {
	out := make([]*lifecyclev1.Assignment, len(list))
	for i, a := range list {
		g := Grant(&a.Grant)
		g.CredentialName = a.CredentialName
		g.CredentialDescription = a.CredentialDescription
		out[i] = &lifecyclev1.Assignment{
			Grant:          g,
			IdentityEmail:  a.IdentityEmail,
			IdentityName:   a.IdentityName,
			IdentityStatus: string(a.IdentityStatus),
		}
	}
	return out
}

// Transition converts the result of an identity-level transition.
func Transition(res *lifecycle.Result) *lifecyclev1.TransitionResponse {
	return &lifecyclev1.TransitionResponse{
		Identity: Identity(res.Identity),
		From:     string(res.Outcome.From),
		To:       string(res.Outcome.To),
		Changed:  res.Outcome.Changed,
	}
}

// Actor turns the request caller into the engine's actor.
func Actor(c interceptors.Caller) lifecycle.Actor {
	return lifecycle.Actor{ID: c.ID, Email: c.Email, Role: identitydomain.Role(c.Role)}
}

// LifecycleError maps engine errors to gRPC status errors. Unknown errors are logged and
// reported as Internal without detail.
func LifecycleError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, lifecycle.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, lifecycle.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, lifecycle.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		log.Printf("%s: %v", op, err)
		return status.Errorf(codes.Internal, "%s failed", op)
	}
}
