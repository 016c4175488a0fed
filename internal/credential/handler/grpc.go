package handler

import (
	"context"
	"errors"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/credential/service"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/platform/rbac"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/platform/wire"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/policy/engine"
)

// Server implements CatalogService. Every RPC requires the ManageCredentialTypes permission.
type Server struct {
	catalog *service.CatalogService
	authz   engine.Authorizer
}

// NewServer returns a new Catalog gRPC server. If catalog is nil, all RPCs return Unimplemented.
func NewServer(catalog *service.CatalogService, authz engine.Authorizer) *Server {
	return &Server{catalog: catalog, authz: authz}
}

func (s *Server) ListCredentialTypes(ctx context.Context, _ *lifecyclev1.ListCredentialTypesRequest) (*lifecyclev1.ListCredentialTypesResponse, error) {
	if s.catalog == nil {
		return nil, status.Error(codes.Unimplemented, "method ListCredentialTypes not implemented")
	}
	if _, err := rbac.Require(ctx, s.authz, engine.OpManageCredentials, ""); err != nil {
		return nil, err
	}
	list, err := s.catalog.List(ctx)
	if err != nil {
		return nil, catalogErr("list credential types", err)
	}
	out := make([]*lifecyclev1.CredentialType, len(list))
	for i, c := range list {
		out[i] = wire.CredentialType(c)
	}
	return &lifecyclev1.ListCredentialTypesResponse{CredentialTypes: out}, nil
}

func (s *Server) CreateCredentialType(ctx context.Context, req *lifecyclev1.CreateCredentialTypeRequest) (*lifecyclev1.CredentialTypeResponse, error) {
	if s.catalog == nil {
		return nil, status.Error(codes.Unimplemented, "method CreateCredentialType not implemented")
	}
	caller, err := rbac.Require(ctx, s.authz, engine.OpManageCredentials, "")
	if err != nil {
		return nil, err
	}
	c, err := s.catalog.Create(ctx, caller.Email, req.Name, req.Description)
	if err != nil {
		return nil, catalogErr("create credential type", err)
	}
	return &lifecyclev1.CredentialTypeResponse{CredentialType: wire.CredentialType(c)}, nil
}

func (s *Server) UpdateCredentialType(ctx context.Context, req *lifecyclev1.UpdateCredentialTypeRequest) (*lifecyclev1.CredentialTypeResponse, error) {
	if s.catalog == nil {
		return nil, status.Error(codes.Unimplemented, "method UpdateCredentialType not implemented")
	}
	caller, err := rbac.Require(ctx, s.authz, engine.OpManageCredentials, "")
	if err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	c, err := s.catalog.Update(ctx, caller.Email, req.ID, req.Name, req.Description)
	if err != nil {
		return nil, catalogErr("update credential type", err)
	}
	return &lifecyclev1.CredentialTypeResponse{CredentialType: wire.CredentialType(c)}, nil
}

func (s *Server) DeleteCredentialType(ctx context.Context, req *lifecyclev1.DeleteCredentialTypeRequest) (*lifecyclev1.DeleteCredentialTypeResponse, error) {
	if s.catalog == nil {
		return nil, status.Error(codes.Unimplemented, "method DeleteCredentialType not implemented")
	}
	caller, err := rbac.Require(ctx, s.authz, engine.OpManageCredentials, "")
	if err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	if err := s.catalog.Delete(ctx, caller.Email, req.ID); err != nil {
		return nil, catalogErr("delete credential type", err)
	}
	return &lifecyclev1.DeleteCredentialTypeResponse{}, nil
}

func catalogErr(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrNameTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, service.ErrInUse):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		log.Printf("%s: %v", op, err)
		return status.Errorf(codes.Internal, "%s failed", op)
	}
}
