package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/platform/rbac"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/platform/wire"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/policy/engine"
)

// Server implements AdminService: identity overview, grant assignment and the lifecycle transitions.
type Server struct {
	engine *lifecycle.Engine
	authz  engine.Authorizer
}

// NewServer returns a new Admin gRPC server. If eng is nil, all RPCs return Unimplemented.
func NewServer(eng *lifecycle.Engine, authz engine.Authorizer) *Server {
	return &Server{engine: eng, authz: authz}
}

// ListIdentities returns every identity ordered by email.
func (s *Server) ListIdentities(ctx context.Context, _ *lifecyclev1.ListIdentitiesRequest) (*lifecyclev1.ListIdentitiesResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method ListIdentities not implemented")
	}
	if _, err := rbac.Require(ctx, s.authz, engine.OpListIdentities, ""); err != nil {
		return nil, err
	}
	list, err := s.engine.ListIdentities(ctx)
	if err != nil {
		return nil, wire.LifecycleError("list identities", err)
	}
	return &lifecyclev1.ListIdentitiesResponse{Identities: wire.Identities(list)}, nil
}

// GetIdentity returns one identity with its grants.
func (s *Server) GetIdentity(ctx context.Context, req *lifecyclev1.GetIdentityRequest) (*lifecyclev1.GetIdentityResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method GetIdentity not implemented")
	}
	if _, err := rbac.Require(ctx, s.authz, engine.OpGetIdentity, req.IdentityID); err != nil {
		return nil, err
	}
	if req.IdentityID == "" {
		return nil, status.Error(codes.InvalidArgument, "identity_id required")
	}
	view, err := s.engine.IdentityDetail(ctx, req.IdentityID)
	if err != nil {
		return nil, wire.LifecycleError("get identity", err)
	}
	return &lifecyclev1.GetIdentityResponse{Identity: wire.Identity(view.Identity), Grants: wire.GrantDetails(view.Grants)}, nil
}

// GetStats returns the dashboard counters.
func (s *Server) GetStats(ctx context.Context, _ *lifecyclev1.GetStatsRequest) (*lifecyclev1.GetStatsResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
	}
	if _, err := rbac.Require(ctx, s.authz, engine.OpGetStats, ""); err != nil {
		return nil, err
	}
	st, err := s.engine.Stats(ctx)
	if err != nil {
		return nil, wire.LifecycleError("get stats", err)
	}
	return &lifecyclev1.GetStatsResponse{
		Total:                 st.Total,
		Pending:               st.Pending,
		Onboarded:             st.Onboarded,
		OffboardingInProgress: st.OffboardingInProgress,
		Offboarded:            st.Offboarded,
		ProblematicGrants:     st.ProblematicGrants,
	}, nil
}

// ListIdentitySummaries returns grant flag counts per identity.
func (s *Server) ListIdentitySummaries(ctx context.Context, _ *lifecyclev1.ListIdentitySummariesRequest) (*lifecyclev1.ListIdentitySummariesResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method ListIdentitySummaries not implemented")
	}
	if _, err := rbac.Require(ctx, s.authz, engine.OpViewReports, ""); err != nil {
		return nil, err
	}
	list, err := s.engine.IdentitySummaries(ctx)
	if err != nil {
		return nil, wire.LifecycleError("list identity summaries", err)
	}
	return &lifecyclev1.ListIdentitySummariesResponse{Summaries: wire.IdentitySummaries(list)}, nil
}

// ListCredentialSummaries returns grant flag counts per credential type.
func (s *Server) ListCredentialSummaries(ctx context.Context, _ *lifecyclev1.ListCredentialSummariesRequest) (*lifecyclev1.ListCredentialSummariesResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method ListCredentialSummaries not implemented")
	}
	if _, err := rbac.Require(ctx, s.authz, engine.OpViewReports, ""); err != nil {
		return nil, err
	}
	list, err := s.engine.CredentialSummaries(ctx)
	if err != nil {
		return nil, wire.LifecycleError("list credential summaries", err)
	}
	return &lifecyclev1.ListCredentialSummariesResponse{Summaries: wire.CredentialSummaries(list)}, nil
}

// ListAssignments returns every grant with its identity and credential type, newest first.
func (s *Server) ListAssignments(ctx context.Context, _ *lifecyclev1.ListAssignmentsRequest) (*lifecyclev1.ListAssignmentsResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method ListAssignments not implemented")
	}
	if _, err := rbac.Require(ctx, s.authz, engine.OpViewReports, ""); err != nil {
		return nil, err
	}
	list, err := s.engine.Assignments(ctx)
	if err != nil {
		return nil, wire.LifecycleError("list assignments", err)
	}
	return &lifecyclev1.ListAssignmentsResponse{Assignments: wire.Assignments(list)}, nil
}

// AssignCredential creates a pending grant of a credential type to an identity.
func (s *Server) AssignCredential(ctx context.Context, req *lifecyclev1.AssignCredentialRequest) (*lifecyclev1.GrantResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method AssignCredential not implemented")
	}
	caller, err := rbac.Require(ctx, s.authz, engine.OpAssignCredential, req.IdentityID)
	if err != nil {
		return nil, err
	}
	if req.IdentityID == "" || req.CredentialTypeID == "" {
		return nil, status.Error(codes.InvalidArgument, "identity_id and credential_type_id required")
	}
	res, err := s.engine.AssignCredential(ctx, wire.Actor(caller), req.IdentityID, req.CredentialTypeID)
	if err != nil {
		return nil, wire.LifecycleError("assign credential", err)
	}
	return &lifecyclev1.GrantResponse{Grant: wire.Grant(res.Grant), Identity: wire.Identity(res.Identity)}, nil
}

// RevokeGrant marks a grant inactive.
func (s *Server) RevokeGrant(ctx context.Context, req *lifecyclev1.RevokeGrantRequest) (*lifecyclev1.GrantResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method RevokeGrant not implemented")
	}
	caller, err := rbac.Require(ctx, s.authz, engine.OpRevokeGrant, "")
	if err != nil {
		return nil, err
	}
	if req.GrantID == "" {
		return nil, status.Error(codes.InvalidArgument, "grant_id required")
	}
	res, err := s.engine.RevokeGrant(ctx, wire.Actor(caller), req.GrantID)
	if err != nil {
		return nil, wire.LifecycleError("revoke grant", err)
	}
	return &lifecyclev1.GrantResponse{Grant: wire.Grant(res.Grant), Identity: wire.Identity(res.Identity)}, nil
}

// DeleteGrant removes an inactive grant.
func (s *Server) DeleteGrant(ctx context.Context, req *lifecyclev1.DeleteGrantRequest) (*lifecyclev1.DeleteGrantResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method DeleteGrant not implemented")
	}
	caller, err := rbac.Require(ctx, s.authz, engine.OpDeleteGrant, "")
	if err != nil {
		return nil, err
	}
	if req.GrantID == "" {
		return nil, status.Error(codes.InvalidArgument, "grant_id required")
	}
	res, err := s.engine.DeleteGrant(ctx, wire.Actor(caller), req.GrantID)
	if err != nil {
		return nil, wire.LifecycleError("delete grant", err)
	}
	return &lifecyclev1.DeleteGrantResponse{Identity: wire.Identity(res.Identity)}, nil
}

// OnboardIdentity forces the identity to Onboarded.
func (s *Server) OnboardIdentity(ctx context.Context, req *lifecyclev1.IdentityRequest) (*lifecyclev1.TransitionResponse, error) {
	return s.transition(ctx, req, engine.OpOnboardIdentity, "onboard identity", (*lifecycle.Engine).OnboardIdentity)
}

// InitiateOffboarding moves the identity to OffboardingInProgress.
func (s *Server) InitiateOffboarding(ctx context.Context, req *lifecyclev1.IdentityRequest) (*lifecyclev1.TransitionResponse, error) {
	return s.transition(ctx, req, engine.OpInitiateOffboarding, "initiate offboarding", (*lifecycle.Engine).InitiateOffboarding)
}

// CompleteOffboarding deactivates every grant of the identity and moves it to Offboarded.
func (s *Server) CompleteOffboarding(ctx context.Context, req *lifecyclev1.IdentityRequest) (*lifecyclev1.TransitionResponse, error) {
	return s.transition(ctx, req, engine.OpCompleteOffboarding, "complete offboarding", (*lifecycle.Engine).CompleteOffboarding)
}

// RecomputeStatus re-derives the identity's status from its grants.
func (s *Server) RecomputeStatus(ctx context.Context, req *lifecyclev1.IdentityRequest) (*lifecyclev1.TransitionResponse, error) {
	return s.transition(ctx, req, engine.OpRecompute, "recompute status", (*lifecycle.Engine).Recompute)
}

type transitionFunc func(*lifecycle.Engine, context.Context, lifecycle.Actor, string) (*lifecycle.Result, error)

func (s *Server) transition(ctx context.Context, req *lifecyclev1.IdentityRequest, op, desc string, call transitionFunc) (*lifecyclev1.TransitionResponse, error) {
	if s.engine == nil {
		return nil, status.Errorf(codes.Unimplemented, "method %s not implemented", op)
	}
	caller, err := rbac.Require(ctx, s.authz, op, req.IdentityID)
	if err != nil {
		return nil, err
	}
	if req.IdentityID == "" {
		return nil, status.Error(codes.InvalidArgument, "identity_id required")
	}
	res, err := call(s.engine, ctx, wire.Actor(caller), req.IdentityID)
	if err != nil {
		return nil, wire.LifecycleError(desc, err)
	}
	return wire.Transition(res), nil
}
