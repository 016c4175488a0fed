package lifecyclev1

import (
	"context"

	"google.golang.org/grpc"
)

// Full method names, used by interceptors to tell public from protected calls.
const (
	AuthService_Register_FullMethodName                 = "/credentialdashboard.auth.v1.AuthService/Register"
	AuthService_Login_FullMethodName                    = "/credentialdashboard.auth.v1.AuthService/Login"
	GrantService_ListMyGrants_FullMethodName            = "/credentialdashboard.lifecycle.v1.GrantService/ListMyGrants"
	GrantService_ConfirmGrant_FullMethodName            = "/credentialdashboard.lifecycle.v1.GrantService/ConfirmGrant"
	GrantService_ReportProblem_FullMethodName           = "/credentialdashboard.lifecycle.v1.GrantService/ReportProblem"
	AdminService_ListIdentities_FullMethodName          = "/credentialdashboard.lifecycle.v1.AdminService/ListIdentities"
	AdminService_GetIdentity_FullMethodName             = "/credentialdashboard.lifecycle.v1.AdminService/GetIdentity"
	AdminService_GetStats_FullMethodName                = "/credentialdashboard.lifecycle.v1.AdminService/GetStats"
	AdminService_ListIdentitySummaries_FullMethodName   = "/credentialdashboard.lifecycle.v1.AdminService/ListIdentitySummaries"
	AdminService_ListCredentialSummaries_FullMethodName = "/credentialdashboard.lifecycle.v1.AdminService/ListCredentialSummaries"
	AdminService_ListAssignments_FullMethodName         = "/credentialdashboard.lifecycle.v1.AdminService/ListAssignments"
	AdminService_AssignCredential_FullMethodName        = "/credentialdashboard.lifecycle.v1.AdminService/AssignCredential"
	AdminService_RevokeGrant_FullMethodName             = "/credentialdashboard.lifecycle.v1.AdminService/RevokeGrant"
	AdminService_DeleteGrant_FullMethodName             = "/credentialdashboard.lifecycle.v1.AdminService/DeleteGrant"
	AdminService_OnboardIdentity_FullMethodName         = "/credentialdashboard.lifecycle.v1.AdminService/OnboardIdentity"
	AdminService_InitiateOffboarding_FullMethodName     = "/credentialdashboard.lifecycle.v1.AdminService/InitiateOffboarding"
	AdminService_CompleteOffboarding_FullMethodName     = "/credentialdashboard.lifecycle.v1.AdminService/CompleteOffboarding"
	AdminService_RecomputeStatus_FullMethodName         = "/credentialdashboard.lifecycle.v1.AdminService/RecomputeStatus"
	CatalogService_ListCredentialTypes_FullMethodName   = "/credentialdashboard.catalog.v1.CatalogService/ListCredentialTypes"
	CatalogService_CreateCredentialType_FullMethodName  = "/credentialdashboard.catalog.v1.CatalogService/CreateCredentialType"
	CatalogService_UpdateCredentialType_FullMethodName  = "/credentialdashboard.catalog.v1.CatalogService/UpdateCredentialType"
	CatalogService_DeleteCredentialType_FullMethodName  = "/credentialdashboard.catalog.v1.CatalogService/DeleteCredentialType"
	AuditService_ListAuditLogs_FullMethodName           = "/credentialdashboard.audit.v1.AuditService/ListAuditLogs"
	HealthService_HealthCheck_FullMethodName            = "/credentialdashboard.health.v1.HealthService/HealthCheck"
)

// AuthServiceServer registers identities and issues access tokens. Both methods are public.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
}

// RegisterAuthServiceServer registers srv with the gRPC registrar.
func RegisterAuthServiceServer(r grpc.ServiceRegistrar, srv AuthServiceServer) {
	EnsureCodec()
	r.RegisterService(&authServiceDesc, srv)
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: "credentialdashboard.auth.v1.AuthService",
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(AuthService_Register_FullMethodName, AuthServiceServer.Register)},
		{MethodName: "Login", Handler: unary(AuthService_Login_FullMethodName, AuthServiceServer.Login)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/lifecycle/v1",
}

// GrantServiceServer is the self-service surface: an identity acting on its own grants.
type GrantServiceServer interface {
	ListMyGrants(context.Context, *ListMyGrantsRequest) (*ListMyGrantsResponse, error)
	ConfirmGrant(context.Context, *ConfirmGrantRequest) (*GrantResponse, error)
	ReportProblem(context.Context, *ReportProblemRequest) (*GrantResponse, error)
}

// RegisterGrantServiceServer registers srv with the gRPC registrar.
func RegisterGrantServiceServer(r grpc.ServiceRegistrar, srv GrantServiceServer) {
	EnsureCodec()
	r.RegisterService(&grantServiceDesc, srv)
}

var grantServiceDesc = grpc.ServiceDesc{
	ServiceName: "credentialdashboard.lifecycle.v1.GrantService",
	HandlerType: (*GrantServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListMyGrants", Handler: unary(GrantService_ListMyGrants_FullMethodName, GrantServiceServer.ListMyGrants)},
		{MethodName: "ConfirmGrant", Handler: unary(GrantService_ConfirmGrant_FullMethodName, GrantServiceServer.ConfirmGrant)},
		{MethodName: "ReportProblem", Handler: unary(GrantService_ReportProblem_FullMethodName, GrantServiceServer.ReportProblem)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/lifecycle/v1",
}

// AdminServiceServer is the administrator surface over identities, grants and lifecycle transitions.
type AdminServiceServer interface {
	ListIdentities(context.Context, *ListIdentitiesRequest) (*ListIdentitiesResponse, error)
	GetIdentity(context.Context, *GetIdentityRequest) (*GetIdentityResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
	ListIdentitySummaries(context.Context, *ListIdentitySummariesRequest) (*ListIdentitySummariesResponse, error)
	ListCredentialSummaries(context.Context, *ListCredentialSummariesRequest) (*ListCredentialSummariesResponse, error)
	ListAssignments(context.Context, *ListAssignmentsRequest) (*ListAssignmentsResponse, error)
	AssignCredential(context.Context, *AssignCredentialRequest) (*GrantResponse, error)
	RevokeGrant(context.Context, *RevokeGrantRequest) (*GrantResponse, error)
	DeleteGrant(context.Context, *DeleteGrantRequest) (*DeleteGrantResponse, error)
	OnboardIdentity(context.Context, *IdentityRequest) (*TransitionResponse, error)
	InitiateOffboarding(context.Context, *IdentityRequest) (*TransitionResponse, error)
	CompleteOffboarding(context.Context, *IdentityRequest) (*TransitionResponse, error)
	RecomputeStatus(context.Context, *IdentityRequest) (*TransitionResponse, error)
}

// RegisterAdminServiceServer registers srv with the gRPC registrar.
func RegisterAdminServiceServer(r grpc.ServiceRegistrar, srv AdminServiceServer) {
	EnsureCodec()
	r.RegisterService(&adminServiceDesc, srv)
}

var adminServiceDesc = grpc.ServiceDesc{
	ServiceName: "credentialdashboard.lifecycle.v1.AdminService",
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListIdentities", Handler: unary(AdminService_ListIdentities_FullMethodName, AdminServiceServer.ListIdentities)},
		{MethodName: "GetIdentity", Handler: unary(AdminService_GetIdentity_FullMethodName, AdminServiceServer.GetIdentity)},
		{MethodName: "GetStats", Handler: unary(AdminService_GetStats_FullMethodName, AdminServiceServer.GetStats)},
		{MethodName: "ListIdentitySummaries", Handler: unary(AdminService_ListIdentitySummaries_FullMethodName, AdminServiceServer.ListIdentitySummaries)},
		{MethodName: "ListCredentialSummaries", Handler: unary(AdminService_ListCredentialSummaries_FullMethodName, AdminServiceServer.ListCredentialSummaries)},
		{MethodName: "ListAssignments", Handler: unary(AdminService_ListAssignments_FullMethodName, AdminServiceServer.ListAssignments)},
		{MethodName: "AssignCredential", Handler: unary(AdminService_AssignCredential_FullMethodName, AdminServiceServer.AssignCredential)},
		{MethodName: "RevokeGrant", Handler: unary(AdminService_RevokeGrant_FullMethodName, AdminServiceServer.RevokeGrant)},
		{MethodName: "DeleteGrant", Handler: unary(AdminService_DeleteGrant_FullMethodName, AdminServiceServer.DeleteGrant)},
		{MethodName: "OnboardIdentity", Handler: unary(AdminService_OnboardIdentity_FullMethodName, AdminServiceServer.OnboardIdentity)},
		{MethodName: "InitiateOffboarding", Handler: unary(AdminService_InitiateOffboarding_FullMethodName, AdminServiceServer.InitiateOffboarding)},
		{MethodName: "CompleteOffboarding", Handler: unary(AdminService_CompleteOffboarding_FullMethodName, AdminServiceServer.CompleteOffboarding)},
		{MethodName: "RecomputeStatus", Handler: unary(AdminService_RecomputeStatus_FullMethodName, AdminServiceServer.RecomputeStatus)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/lifecycle/v1",
}

// CatalogServiceServer manages credential types.
type CatalogServiceServer interface {
	ListCredentialTypes(context.Context, *ListCredentialTypesRequest) (*ListCredentialTypesResponse, error)
	CreateCredentialType(context.Context, *CreateCredentialTypeRequest) (*CredentialTypeResponse, error)
	UpdateCredentialType(context.Context, *UpdateCredentialTypeRequest) (*CredentialTypeResponse, error)
	DeleteCredentialType(context.Context, *DeleteCredentialTypeRequest) (*DeleteCredentialTypeResponse, error)
}

// RegisterCatalogServiceServer registers srv with the gRPC registrar.
func RegisterCatalogServiceServer(r grpc.ServiceRegistrar, srv CatalogServiceServer) {
	EnsureCodec()
	r.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: "credentialdashboard.catalog.v1.CatalogService",
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCredentialTypes", Handler: unary(CatalogService_ListCredentialTypes_FullMethodName, CatalogServiceServer.ListCredentialTypes)},
		{MethodName: "CreateCredentialType", Handler: unary(CatalogService_CreateCredentialType_FullMethodName, CatalogServiceServer.CreateCredentialType)},
		{MethodName: "UpdateCredentialType", Handler: unary(CatalogService_UpdateCredentialType_FullMethodName, CatalogServiceServer.UpdateCredentialType)},
		{MethodName: "DeleteCredentialType", Handler: unary(CatalogService_DeleteCredentialType_FullMethodName, CatalogServiceServer.DeleteCredentialType)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/lifecycle/v1",
}

// AuditServiceServer lists audit entries.
type AuditServiceServer interface {
	ListAuditLogs(context.Context, *ListAuditLogsRequest) (*ListAuditLogsResponse, error)
}

// RegisterAuditServiceServer registers srv with the gRPC registrar.
func RegisterAuditServiceServer(r grpc.ServiceRegistrar, srv AuditServiceServer) {
	EnsureCodec()
	r.RegisterService(&auditServiceDesc, srv)
}

var auditServiceDesc = grpc.ServiceDesc{
	ServiceName: "credentialdashboard.audit.v1.AuditService",
	HandlerType: (*AuditServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListAuditLogs", Handler: unary(AuditService_ListAuditLogs_FullMethodName, AuditServiceServer.ListAuditLogs)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/lifecycle/v1",
}

// HealthServiceServer reports readiness.
type HealthServiceServer interface {
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

// RegisterHealthServiceServer registers srv with the gRPC registrar.
func RegisterHealthServiceServer(r grpc.ServiceRegistrar, srv HealthServiceServer) {
	EnsureCodec()
	r.RegisterService(&healthServiceDesc, srv)
}

var healthServiceDesc = grpc.ServiceDesc{
	ServiceName: "credentialdashboard.health.v1.HealthService",
	HandlerType: (*HealthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "HealthCheck", Handler: unary(HealthService_HealthCheck_FullMethodName, HealthServiceServer.HealthCheck)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/lifecycle/v1",
}

// unary adapts a typed server method to grpc.MethodHandler, running the interceptor chain when present.
func unary[S any, Req any, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
