package lifecyclev1

import (
	"context"

	"google.golang.org/grpc"
)

// AuthServiceClient calls AuthService over cc using the JSON codec.
type AuthServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) *AuthServiceClient {
	EnsureCodec()
	return &AuthServiceClient{cc: cc}
}

func (c *AuthServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, AuthService_Register_FullMethodName, in, opts)
}

func (c *AuthServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, AuthService_Login_FullMethodName, in, opts)
}

// GrantServiceClient calls GrantService over cc using the JSON codec.
type GrantServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewGrantServiceClient(cc grpc.ClientConnInterface) *GrantServiceClient {
	EnsureCodec()
	return &GrantServiceClient{cc: cc}
}

func (c *GrantServiceClient) ListMyGrants(ctx context.Context, in *ListMyGrantsRequest, opts ...grpc.CallOption) (*ListMyGrantsResponse, error) {
	return invoke[ListMyGrantsResponse](ctx, c.cc, GrantService_ListMyGrants_FullMethodName, in, opts)
}

func (c *GrantServiceClient) ConfirmGrant(ctx context.Context, in *ConfirmGrantRequest, opts ...grpc.CallOption) (*GrantResponse, error) {
	return invoke[GrantResponse](ctx, c.cc, GrantService_ConfirmGrant_FullMethodName, in, opts)
}

func (c *GrantServiceClient) ReportProblem(ctx context.Context, in *ReportProblemRequest, opts ...grpc.CallOption) (*GrantResponse, error) {
	return invoke[GrantResponse](ctx, c.cc, GrantService_ReportProblem_FullMethodName, in, opts)
}

// AdminServiceClient calls AdminService over cc using the JSON codec.
type AdminServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) *AdminServiceClient {
	EnsureCodec()
	return &AdminServiceClient{cc: cc}
}

func (c *AdminServiceClient) ListIdentities(ctx context.Context, in *ListIdentitiesRequest, opts ...grpc.CallOption) (*ListIdentitiesResponse, error) {
	return invoke[ListIdentitiesResponse](ctx, c.cc, AdminService_ListIdentities_FullMethodName, in, opts)
}

func (c *AdminServiceClient) GetIdentity(ctx context.Context, in *GetIdentityRequest, opts ...grpc.CallOption) (*GetIdentityResponse, error) {
	return invoke[GetIdentityResponse](ctx, c.cc, AdminService_GetIdentity_FullMethodName, in, opts)
}

func (c *AdminServiceClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error) {
	return invoke[GetStatsResponse](ctx, c.cc, AdminService_GetStats_FullMethodName, in, opts)
}

func (c *AdminServiceClient) ListIdentitySummaries(ctx context.Context, in *ListIdentitySummariesRequest, opts ...grpc.CallOption) (*ListIdentitySummariesResponse, error) {
	return invoke[ListIdentitySummariesResponse](ctx, c.cc, AdminService_ListIdentitySummaries_FullMethodName, in, opts)
}

func (c *AdminServiceClient) ListCredentialSummaries(ctx context.Context, in *ListCredentialSummariesRequest, opts ...grpc.CallOption) (*ListCredentialSummariesResponse, error) {
	return invoke[ListCredentialSummariesResponse](ctx, c.cc, AdminService_ListCredentialSummaries_FullMethodName, in, opts)
}

func (c *AdminServiceClient) ListAssignments(ctx context.Context, in *ListAssignmentsRequest, opts ...grpc.CallOption) (*ListAssignmentsResponse, error) {
	return invoke[ListAssignmentsResponse](ctx, c.cc, AdminService_ListAssignments_FullMethodName, in, opts)
}

func (c *AdminServiceClient) AssignCredential(ctx context.Context, in *AssignCredentialRequest, opts ...grpc.CallOption) (*GrantResponse, error) {
	return invoke[GrantResponse](ctx, c.cc, AdminService_AssignCredential_FullMethodName, in, opts)
}

func (c *AdminServiceClient) RevokeGrant(ctx context.Context, in *RevokeGrantRequest, opts ...grpc.CallOption) (*GrantResponse, error) {
	return invoke[GrantResponse](ctx, c.cc, AdminService_RevokeGrant_FullMethodName, in, opts)
}

func (c *AdminServiceClient) DeleteGrant(ctx context.Context, in *DeleteGrantRequest, opts ...grpc.CallOption) (*DeleteGrantResponse, error) {
	return invoke[DeleteGrantResponse](ctx, c.cc, AdminService_DeleteGrant_FullMethodName, in, opts)
}

func (c *AdminServiceClient) OnboardIdentity(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*TransitionResponse, error) {
	return invoke[TransitionResponse](ctx, c.cc, AdminService_OnboardIdentity_FullMethodName, in, opts)
}

func (c *AdminServiceClient) InitiateOffboarding(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*TransitionResponse, error) {
	return invoke[TransitionResponse](ctx, c.cc, AdminService_InitiateOffboarding_FullMethodName, in, opts)
}

func (c *AdminServiceClient) CompleteOffboarding(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*TransitionResponse, error) {
	return invoke[TransitionResponse](ctx, c.cc, AdminService_CompleteOffboarding_FullMethodName, in, opts)
}

func (c *AdminServiceClient) RecomputeStatus(ctx context.Context, in *IdentityRequest, opts ...grpc.CallOption) (*TransitionResponse, error) {
	return invoke[TransitionResponse](ctx, c.cc, AdminService_RecomputeStatus_FullMethodName, in, opts)
}

// CatalogServiceClient calls CatalogService over cc using the JSON codec.
type CatalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) *CatalogServiceClient {
	EnsureCodec()
	return &CatalogServiceClient{cc: cc}
}

func (c *CatalogServiceClient) ListCredentialTypes(ctx context.Context, in *ListCredentialTypesRequest, opts ...grpc.CallOption) (*ListCredentialTypesResponse, error) {
	return invoke[ListCredentialTypesResponse](ctx, c.cc, CatalogService_ListCredentialTypes_FullMethodName, in, opts)
}

func (c *CatalogServiceClient) CreateCredentialType(ctx context.Context, in *CreateCredentialTypeRequest, opts ...grpc.CallOption) (*CredentialTypeResponse, error) {
	return invoke[CredentialTypeResponse](ctx, c.cc, CatalogService_CreateCredentialType_FullMethodName, in, opts)
}

func (c *CatalogServiceClient) UpdateCredentialType(ctx context.Context, in *UpdateCredentialTypeRequest, opts ...grpc.CallOption) (*CredentialTypeResponse, error) {
	return invoke[CredentialTypeResponse](ctx, c.cc, CatalogService_UpdateCredentialType_FullMethodName, in, opts)
}

func (c *CatalogServiceClient) DeleteCredentialType(ctx context.Context, in *DeleteCredentialTypeRequest, opts ...grpc.CallOption) (*DeleteCredentialTypeResponse, error) {
	return invoke[DeleteCredentialTypeResponse](ctx, c.cc, CatalogService_DeleteCredentialType_FullMethodName, in, opts)
}

// AuditServiceClient calls AuditService over cc using the JSON codec.
type AuditServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuditServiceClient(cc grpc.ClientConnInterface) *AuditServiceClient {
	EnsureCodec()
	return &AuditServiceClient{cc: cc}
}

func (c *AuditServiceClient) ListAuditLogs(ctx context.Context, in *ListAuditLogsRequest, opts ...grpc.CallOption) (*ListAuditLogsResponse, error) {
	return invoke[ListAuditLogsResponse](ctx, c.cc, AuditService_ListAuditLogs_FullMethodName, in, opts)
}

// HealthServiceClient calls HealthService over cc using the JSON codec.
type HealthServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewHealthServiceClient(cc grpc.ClientConnInterface) *HealthServiceClient {
	EnsureCodec()
	return &HealthServiceClient{cc: cc}
}

func (c *HealthServiceClient) HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error) {
	return invoke[HealthCheckResponse](ctx, c.cc, HealthService_HealthCheck_FullMethodName, in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
