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

const maxNoteLength = 2000

// Server implements GrantService: an identity viewing, confirming and reporting on its own grants.
type Server struct {
	engine *lifecycle.Engine
	authz  engine.Authorizer
}

// NewServer returns a new Grant gRPC server. If eng is nil, all RPCs return Unimplemented.
func NewServer(eng *lifecycle.Engine, authz engine.Authorizer) *Server {
	return &Server{engine: eng, authz: authz}
}

// ListMyGrants returns the caller's identity and grants with their display state.
func (s *Server) ListMyGrants(ctx context.Context, _ *lifecyclev1.ListMyGrantsRequest) (*lifecyclev1.ListMyGrantsResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method ListMyGrants not implemented")
	}
	caller, err := rbac.RequireSelf(ctx, s.authz, engine.OpListMyGrants)
	if err != nil {
		return nil, err
	}
	view, err := s.engine.IdentityDetail(ctx, caller.ID)
	if err != nil {
		return nil, wire.LifecycleError("list grants", err)
	}
	return &lifecyclev1.ListMyGrantsResponse{
		Identity: wire.Identity(view.Identity),
		Grants:   wire.GrantDetails(view.Grants),
	}, nil
}

// ConfirmGrant marks one of the caller's grants as confirmed.
func (s *Server) ConfirmGrant(ctx context.Context, req *lifecyclev1.ConfirmGrantRequest) (*lifecyclev1.GrantResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method ConfirmGrant not implemented")
	}
	caller, err := rbac.RequireSelf(ctx, s.authz, engine.OpConfirmGrant)
	if err != nil {
		return nil, err
	}
	if req.GrantID == "" {
		return nil, status.Error(codes.InvalidArgument, "grant_id required")
	}
	res, err := s.engine.ConfirmGrant(ctx, wire.Actor(caller), req.GrantID, caller.ID)
	if err != nil {
		return nil, wire.LifecycleError("confirm grant", err)
	}
	return &lifecyclev1.GrantResponse{Grant: wire.Grant(res.Grant), Identity: wire.Identity(res.Identity)}, nil
}

// ReportProblem flags one of the caller's grants as problematic and notifies the administrators.
func (s *Server) ReportProblem(ctx context.Context, req *lifecyclev1.ReportProblemRequest) (*lifecyclev1.GrantResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.Unimplemented, "method ReportProblem not implemented")
	}
	caller, err := rbac.RequireSelf(ctx, s.authz, engine.OpReportProblem)
	if err != nil {
		return nil, err
	}
	if req.GrantID == "" {
		return nil, status.Error(codes.InvalidArgument, "grant_id required")
	}
	if len(req.Note) > maxNoteLength {
		return nil, status.Errorf(codes.InvalidArgument, "note longer than %d bytes", maxNoteLength)
	}
	res, err := s.engine.ReportProblem(ctx, wire.Actor(caller), req.GrantID, caller.ID, req.Note)
	if err != nil {
		return nil, wire.LifecycleError("report problem", err)
	}
	return &lifecyclev1.GrantResponse{Grant: wire.Grant(res.Grant), Identity: wire.Identity(res.Identity)}, nil
}
