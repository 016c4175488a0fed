package server

import (
	"google.golang.org/grpc"

	lifecyclev1 "github.com/Rohitbatham1306/credential-dashbaord/api/lifecycle/v1"
	adminhandler "github.com/Rohitbatham1306/credential-dashbaord/internal/admin/handler"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	audithandler "github.com/Rohitbatham1306/credential-dashbaord/internal/audit/handler"
	credentialhandler "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/handler"
	credentialservice "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/service"
	granthandler "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/handler"
	healthhandler "github.com/Rohitbatham1306/credential-dashbaord/internal/health/handler"
	identityhandler "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/handler"
	identityservice "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/service"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/policy/engine"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/server/interceptors"
)

// Deps holds optional service dependencies for gRPC handlers.
type Deps struct {
	// Auth is the auth service for Register/Login. If nil, auth RPCs return Unimplemented.
	Auth *identityservice.AuthService
	// Engine runs the grant and offboarding operations. If nil, grant and admin RPCs return Unimplemented.
	Engine *lifecycle.Engine
	// Catalog manages credential types. If nil, catalog RPCs return Unimplemented.
	Catalog *credentialservice.CatalogService
	// Authz decides which caller may invoke which operation.
	Authz engine.Authorizer
	// Tokens validates bearer tokens. If nil, no caller is ever set and every protected RPC is Unauthenticated.
	Tokens interceptors.TokenValidator
	// AuditRepo backs ListAuditLogs. If nil, ListAuditLogs returns Unimplemented.
	AuditRepo audithandler.Lister
	// AuditLog records access_denied entries. If nil, denials are not audited.
	AuditLog audit.AuditLogger
	// HealthPinger is used by HealthService for readiness (e.g. *sql.DB). If nil, HealthCheck skips DB ping.
	HealthPinger healthhandler.Pinger
	// HealthPolicyChecker is used by HealthService for readiness. If nil, HealthCheck skips the policy check.
	HealthPolicyChecker healthhandler.PolicyChecker
}

// PublicMethods returns the full method names callable without a bearer token.
func PublicMethods() map[string]bool {
	return map[string]bool{
		lifecyclev1.AuthService_Register_FullMethodName:      true,
		lifecyclev1.AuthService_Login_FullMethodName:         true,
		lifecyclev1.HealthService_HealthCheck_FullMethodName: true,
	}
}

// RegisterServices registers all services with the given server.
//
// Service → handler mapping:
//   - AuthService    → internal/identity/handler
//   - GrantService   → internal/grant/handler
//   - AdminService   → internal/admin/handler
//   - CatalogService → internal/credential/handler
//   - AuditService   → internal/audit/handler
//   - HealthService  → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	lifecyclev1.RegisterAuthServiceServer(s, identityhandler.NewAuthServer(deps.Auth))
	lifecyclev1.RegisterGrantServiceServer(s, granthandler.NewServer(deps.Engine, deps.Authz))
	lifecyclev1.RegisterAdminServiceServer(s, adminhandler.NewServer(deps.Engine, deps.Authz))
	lifecyclev1.RegisterCatalogServiceServer(s, credentialhandler.NewServer(deps.Catalog, deps.Authz))
	lifecyclev1.RegisterAuditServiceServer(s, audithandler.NewServer(deps.AuditRepo, deps.Authz))
	lifecyclev1.RegisterHealthServiceServer(s, healthhandler.NewServer(deps.HealthPinger, deps.HealthPolicyChecker))
}

// NewGRPCServer builds a gRPC server with the auth and access-denied audit interceptors
// chained in that order, then registers every service. opts are applied first.
func NewGRPCServer(deps Deps, opts ...grpc.ServerOption) *grpc.Server {
	public := PublicMethods()
	var chain []grpc.UnaryServerInterceptor
	if deps.Tokens != nil {
		chain = append(chain, interceptors.AuthUnary(deps.Tokens, public))
	}
	chain = append(chain, interceptors.AuditUnary(deps.AuditLog, public))
	opts = append(opts, grpc.ChainUnaryInterceptor(chain...))

	s := grpc.NewServer(opts...)
	RegisterServices(s, deps)
	return s
}
