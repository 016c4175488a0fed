// Package engine decides which caller may invoke which operation, using an OPA Rego policy.
package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/rego"
)

const policyQuery = "data.credential_dashboard.authz.allow"

// DefaultPolicy lets admins do everything and lets any identity act on its own grants.
const DefaultPolicy = `package credential_dashboard.authz

default allow := false

self_service := {"ListMyGrants", "ConfirmGrant", "ReportProblem"}

allow if input.caller.role == "admin"

allow if {
	input.operation in self_service
	input.caller.id != ""
	input.caller.id == input.target.identity_id
}
`

// Operation names passed to the policy.
const (
	OpListMyGrants        = "ListMyGrants"
	OpConfirmGrant        = "ConfirmGrant"
	OpReportProblem       = "ReportProblem"
	OpAssignCredential    = "AssignCredential"
	OpRevokeGrant         = "RevokeGrant"
	OpDeleteGrant         = "DeleteGrant"
	OpOnboardIdentity     = "OnboardIdentity"
	OpInitiateOffboarding = "InitiateOffboarding"
	OpCompleteOffboarding = "CompleteOffboarding"
	OpRecompute           = "RecomputeStatus"
	OpListIdentities      = "ListIdentities"
	OpGetIdentity         = "GetIdentity"
	OpGetStats            = "GetStats"
	OpViewReports         = "ViewReports"
	OpManageCredentials   = "ManageCredentialTypes"
	OpListAuditLogs       = "ListAuditLogs"
)

// Request is one authorization question. TargetIdentityID is empty for operations
// that do not address a single identity.
type Request struct {
	CallerID         string
	CallerRole       string
	Operation        string
	TargetIdentityID string
}

// Authorizer answers authorization requests.
type Authorizer interface {
	Allow(ctx context.Context, req Request) (bool, error)
}

// OPAAuthorizer evaluates a prepared Rego query per request.
type OPAAuthorizer struct {
	query rego.PreparedEvalQuery
}

// NewOPAAuthorizer compiles module, or DefaultPolicy when module is empty. The module must
// define data.credential_dashboard.authz.allow.
func NewOPAAuthorizer(ctx context.Context, module string) (*OPAAuthorizer, error) {
	if module == "" {
		module = DefaultPolicy
	}
	q, err := rego.New(
		rego.Query(policyQuery),
		rego.Module("authz.rego", module),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile authz policy: %w", err)
	}
	return &OPAAuthorizer{query: q}, nil
}

// NewOPAAuthorizerFromFile loads the policy from path; an empty path selects DefaultPolicy.
func NewOPAAuthorizerFromFile(ctx context.Context, path string) (*OPAAuthorizer, error) {
	if path == "" {
		return NewOPAAuthorizer(ctx, "")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read authz policy: %w", err)
	}
	return NewOPAAuthorizer(ctx, string(b))
}

// Allow reports whether the policy allows req. Evaluation errors deny.
func (a *OPAAuthorizer) Allow(ctx context.Context, req Request) (bool, error) {
	input := map[string]interface{}{
		"operation": req.Operation,
		"caller": map[string]interface{}{
			"id":   req.CallerID,
			"role": req.CallerRole,
		},
		"target": map[string]interface{}{
			"identity_id": req.TargetIdentityID,
		},
	}
	rs, err := a.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("eval authz policy: %w", err)
	}
	return rs.Allowed(), nil
}

// HealthCheck evaluates a fixed admin request; a compiled policy that cannot answer it is unhealthy.
func (a *OPAAuthorizer) HealthCheck(ctx context.Context) error {
	rs, err := a.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"operation": OpGetStats,
		"caller":    map[string]interface{}{"id": "health", "role": "admin"},
		"target":    map[string]interface{}{"identity_id": ""},
	}))
	if err != nil {
		return fmt.Errorf("eval authz policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("authz policy query returned no result")
	}
	return nil
}
