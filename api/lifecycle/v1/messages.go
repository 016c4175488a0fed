package lifecyclev1

import "time"

// Identity is an onboarding subject as seen over the wire. The password hash never leaves the server.
type Identity struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	OnboardedAt  *time.Time `json:"onboarded_at,omitempty"`
	OffboardedAt *time.Time `json:"offboarded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CredentialType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Grant carries the three stored flags plus the derived display state.
type Grant struct {
	ID                    string    `json:"id"`
	IdentityID            string    `json:"identity_id"`
	CredentialTypeID      string    `json:"credential_type_id"`
	CredentialName        string    `json:"credential_name,omitempty"`
	CredentialDescription string    `json:"credential_description,omitempty"`
	Confirmed             bool      `json:"confirmed"`
	Problematic           bool      `json:"problematic"`
	Inactive              bool      `json:"inactive"`
	State                 string    `json:"state"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type AuditLog struct {
	ID               string    `json:"id"`
	ActorEmail       string    `json:"actor_email"`
	Action           string    `json:"action"`
	Details          string    `json:"details"`
	IdentityID       string    `json:"identity_id,omitempty"`
	CredentialTypeID string    `json:"credential_type_id,omitempty"`
	GrantID          string    `json:"grant_id,omitempty"`
	Severity         string    `json:"severity"`
	Category         string    `json:"category"`
	IP               string    `json:"ip"`
	CreatedAt        time.Time `json:"created_at"`
}

// Auth

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type RegisterResponse struct {
	Identity *Identity `json:"identity"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    *Identity `json:"identity"`
}

// Self-service grants

type ListMyGrantsRequest struct{}

type ListMyGrantsResponse struct {
	Identity *Identity `json:"identity"`
	Grants   []*Grant  `json:"grants"`
}

type ConfirmGrantRequest struct {
	GrantID string `json:"grant_id"`
}

type ReportProblemRequest struct {
	GrantID string `json:"grant_id"`
	Note    string `json:"note"`
}

// GrantResponse returns the grant after a mutation and the owning identity with its recomputed status.
type GrantResponse struct {
	Grant    *Grant    `json:"grant"`
	Identity *Identity `json:"identity"`
}

// Admin lifecycle

type ListIdentitiesRequest struct{}

type ListIdentitiesResponse struct {
	Identities []*Identity `json:"identities"`
}

type GetIdentityRequest struct {
	IdentityID string `json:"identity_id"`
}

type GetIdentityResponse struct {
	Identity *Identity `json:"identity"`
	Grants   []*Grant  `json:"grants"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Total                 int `json:"total"`
	Pending               int `json:"pending"`
	Onboarded             int `json:"onboarded"`
	OffboardingInProgress int `json:"offboarding_in_progress"`
	Offboarded            int `json:"offboarded"`
	ProblematicGrants     int `json:"problematic_grants"`
}

// Reports

// IdentitySummary counts the grant flags of one identity. Flags are counted independently.
type IdentitySummary struct {
	Identity          *Identity `json:"identity"`
	TotalGrants       int       `json:"total_grants"`
	ConfirmedGrants   int       `json:"confirmed_grants"`
	ProblematicGrants int       `json:"problematic_grants"`
	InactiveGrants    int       `json:"inactive_grants"`
}

type ListIdentitySummariesRequest struct{}

type ListIdentitySummariesResponse struct {
	Summaries []*IdentitySummary `json:"summaries"`
}

// CredentialSummary counts the grant flags of one credential type. Pending grants have no flag set.
type CredentialSummary struct {
	CredentialType    *CredentialType `json:"credential_type"`
	TotalGrants       int             `json:"total_grants"`
	ConfirmedGrants   int             `json:"confirmed_grants"`
	ProblematicGrants int             `json:"problematic_grants"`
	InactiveGrants    int             `json:"inactive_grants"`
	PendingGrants     int             `json:"pending_grants"`
}

type ListCredentialSummariesRequest struct{}

type ListCredentialSummariesResponse struct {
	Summaries []*CredentialSummary `json:"summaries"`
}

// Assignment is a grant with its credential type and owning identity.
type Assignment struct {
	Grant          *Grant `json:"grant"`
	IdentityEmail  string `json:"identity_email"`
	IdentityName   string `json:"identity_name"`
	IdentityStatus string `json:"identity_status"`
}

type ListAssignmentsRequest struct{}

type ListAssignmentsResponse struct {
	Assignments []*Assignment `json:"assignments"`
}

type AssignCredentialRequest struct {
	IdentityID       string `json:"identity_id"`
	CredentialTypeID string `json:"credential_type_id"`
}

type RevokeGrantRequest struct {
	GrantID string `json:"grant_id"`
}

type DeleteGrantRequest struct {
	GrantID string `json:"grant_id"`
}

type DeleteGrantResponse struct {
	Identity *Identity `json:"identity"`
}

// IdentityRequest addresses one identity for an explicit or recomputed transition.
type IdentityRequest struct {
	IdentityID string `json:"identity_id"`
}

type TransitionResponse struct {
	Identity *Identity `json:"identity"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Changed  bool      `json:"changed"`
}

// Credential catalog

type ListCredentialTypesRequest struct{}

type ListCredentialTypesResponse struct {
	CredentialTypes []*CredentialType `json:"credential_types"`
}

type CreateCredentialTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateCredentialTypeRequest leaves a field unchanged when it is omitted.
type UpdateCredentialTypeRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CredentialTypeResponse struct {
	CredentialType *CredentialType `json:"credential_type"`
}

type DeleteCredentialTypeRequest struct {
	ID string `json:"id"`
}

type DeleteCredentialTypeResponse struct{}

// Audit

type ListAuditLogsRequest struct {
	ActorEmail string     `json:"actor_email,omitempty"`
	Action     string     `json:"action,omitempty"`
	Category   string     `json:"category,omitempty"`
	Severity   string     `json:"severity,omitempty"`
	IdentityID string     `json:"identity_id,omitempty"`
	Since      *time.Time `json:"since,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
	Limit      int32      `json:"limit,omitempty"`
	Offset     int32      `json:"offset,omitempty"`
}

type ListAuditLogsResponse struct {
	Entries []*AuditLog `json:"entries"`
}

// Health

const (
	ServingStatusServing    = "SERVING"
	ServingStatusNotServing = "NOT_SERVING"
)

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
