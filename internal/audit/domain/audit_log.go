package domain

import "time"

// AuditLog is one immutable record of an action. The identity, credential type and grant
// references are optional and empty when the action does not involve them.
type AuditLog struct {
	ID               string
	ActorEmail       string
	Action           string
	Details          string // JSON object
	IdentityID       string
	CredentialTypeID string
	GrantID          string
	Severity         Severity
	Category         Category
	IP               string
	CreatedAt        time.Time
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Category string

const (
	CategoryAuthentication       Category = "authentication"
	CategoryCredentialManagement Category = "credential_management"
	CategoryUserManagement       Category = "user_management"
	CategoryAssignment           Category = "assignment"
	CategoryReport               Category = "report"
	CategorySystem               Category = "system"
)

// Filter narrows audit listings. Zero values mean "any".
type Filter struct {
	ActorEmail string
	Action     string
	Category   Category
	Severity   Severity
	IdentityID string
	Since      time.Time
	Until      time.Time
	Limit      int32
	Offset     int32
}
