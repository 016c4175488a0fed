package rbac

import (
	"context"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/policy/engine"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/server/interceptors"
)

// Require ensures the caller is authenticated and the policy allows op on targetIdentityID.
// Returns the caller on success; returns a gRPC error (Unauthenticated, PermissionDenied or
// Internal) on failure.
func Require(ctx context.Context, authz engine.Authorizer, op, targetIdentityID string) (interceptors.Caller, error) {
	caller, ok := interceptors.GetCaller(ctx)
	if !ok {
		return interceptors.Caller{}, status.Error(codes.Unauthenticated, "caller context required")
	}
	allowed, err := authz.Allow(ctx, engine.Request{
		CallerID:         caller.ID,
		CallerRole:       caller.Role,
		Operation:        op,
		TargetIdentityID: targetIdentityID,
	})
	if err != nil {
		log.Printf("rbac: authorize %s: %v", op, err)
		return interceptors.Caller{}, status.Error(codes.Internal, "failed to evaluate access policy")
	}
	if !allowed {
		return interceptors.Caller{}, status.Errorf(codes.PermissionDenied, "%s not permitted for role %q", op, caller.Role)
	}
	return caller, nil
}

// RequireSelf authorizes a self-service operation: the target is the caller's own identity.
func RequireSelf(ctx context.Context, authz engine.Authorizer, op string) (interceptors.Caller, error) {
	caller, ok := interceptors.GetCaller(ctx)
	if !ok {
		return interceptors.Caller{}, status.Error(codes.Unauthenticated, "caller context required")
	}
	return Require(ctx, authz, op, caller.ID)
}
