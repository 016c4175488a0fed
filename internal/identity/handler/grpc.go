package handler

import (
	"context"
	"errors"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/identity/service"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/platform/wire"
)

// AuthServer implements AuthService for registration and login.
type AuthServer struct {
	auth *service.AuthService
}

// NewAuthServer returns a new Auth gRPC server. If auth is nil, all RPCs return Unimplemented.
func NewAuthServer(auth *service.AuthService) *AuthServer {
	return &AuthServer{auth: auth}
}

// Register creates a member identity in the Pending state.
func (s *AuthServer) Register(ctx context.Context, req *lifecyclev1.RegisterRequest) (*lifecyclev1.RegisterResponse, error) {
	if s.auth == nil {
		return nil, status.Error(codes.Unimplemented, "method Register not implemented")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "email, password and name are required")
	}
	ident, err := s.auth.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, authErr("register", err)
	}
	return &lifecyclev1.RegisterResponse{Identity: wire.Identity(ident)}, nil
}

// Login verifies email and password and returns an access token.
func (s *AuthServer) Login(ctx context.Context, req *lifecyclev1.LoginRequest) (*lifecyclev1.LoginResponse, error) {
	if s.auth == nil {
		return nil, status.Error(codes.Unimplemented, "method Login not implemented")
	}
	res, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, authErr("login", err)
	}
	return &lifecyclev1.LoginResponse{
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
		Identity:    wire.Identity(res.Identity),
	}, nil
}

// authErr maps auth service errors to gRPC codes. Anything unrecognised is a storage or
// signing failure and is logged.
func authErr(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		log.Printf("auth: %s: %v", op, err)
		return status.Errorf(codes.Internal, "%s failed", op)
	}
}
