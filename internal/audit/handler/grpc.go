package handler

import (
	"context"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/repository"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/platform/rbac"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/policy/engine"
)

// Lister is the read side of the audit repository.
type Lister interface {
	List(ctx context.Context, f domain.Filter) ([]*domain.AuditLog, error)
}

// Server implements AuditService for audit logs.
type Server struct {
	repo  Lister
	authz engine.Authorizer
}

// NewServer returns a new Audit gRPC server. If repo is nil, ListAuditLogs returns Unimplemented.
func NewServer(repo Lister, authz engine.Authorizer) *Server {
	return &Server{repo: repo, authz: authz}
}

// ListAuditLogs returns audit entries newest first, filtered and paginated. Admin only.
func (s *Server) ListAuditLogs(ctx context.Context, req *lifecyclev1.ListAuditLogsRequest) (*lifecyclev1.ListAuditLogsResponse, error) {
	if s.repo == nil {
		return nil, status.Error(codes.Unimplemented, "method ListAuditLogs not implemented")
	}
	if _, err := rbac.Require(ctx, s.authz, engine.OpListAuditLogs, ""); err != nil {
		return nil, err
	}
	if req.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "offset must not be negative")
	}
	f := domain.Filter{
		ActorEmail: req.ActorEmail,
		Action:     req.Action,
		Category:   domain.Category(req.Category),
		Severity:   domain.Severity(req.Severity),
		IdentityID: req.IdentityID,
		Limit:      repository.NormalizeLimit(req.Limit),
		Offset:     req.Offset,
	}
	if req.Since != nil {
		f.Since = *req.Since
	}
	if req.Until != nil {
		f.Until = *req.Until
	}
	if !f.Since.IsZero() && !f.Until.IsZero() && f.Until.Before(f.Since) {
		return nil, status.Error(codes.InvalidArgument, "until is before since")
	}
	list, err := s.repo.List(ctx, f)
	if err != nil {
		log.Printf("audit: list: %v", err)
		return nil, status.Error(codes.Internal, "failed to list audit logs")
	}
	out := make([]*lifecyclev1.AuditLog, len(list))
	for i, a := range list {
		out[i] = toWire(a)
	}
	return &lifecyclev1.ListAuditLogsResponse{Entries: out}, nil
}

func toWire(a *domain.AuditLog) *lifecyclev1.AuditLog {
	return &lifecyclev1.AuditLog{
		ID:               a.ID,
		ActorEmail:       a.ActorEmail,
		Action:           a.Action,
		Details:          a.Details,
		IdentityID:       a.IdentityID,
		CredentialTypeID: a.CredentialTypeID,
		GrantID:          a.GrantID,
		Severity:         string(a.Severity),
		Category:         string(a.Category),
		IP:               a.IP,
		CreatedAt:        a.CreatedAt,
	}
}
