package domain

import (
	"errors"
	"time"
)

// Identity is an onboarding subject: one person whose credential grants are tracked.
type Identity struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	Status       Status
	PasswordHash string // never returned over the wire
	OnboardedAt  *time.Time
	OffboardedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Status is the lifecycle state of an identity.
type Status string

const (
	StatusPending               Status = "Pending"
	StatusOnboarded             Status = "Onboarded"
	StatusOffboardingInProgress Status = "OffboardingInProgress"
	StatusOffboarded            Status = "Offboarded"
)

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOnboarded, StatusOffboardingInProgress, StatusOffboarded:
		return true
	}
	return false
}

// AcceptsGrants reports whether new credential grants may be assigned in this state.
func (s Status) AcceptsGrants() bool {
	return s == StatusPending || s == StatusOnboarded
}

// Validate validates the identity for persistence. Returns an error describing the first validation failure.
func (i *Identity) Validate() error {
	if i.Email == "" {
		return errors.New("email is required")
	}
	if i.Name == "" {
		return errors.New("name is required")
	}
	if i.Role == "" {
		i.Role = RoleMember
	}
	if i.Role != RoleAdmin && i.Role != RoleMember {
		return errors.New("role must be admin or member")
	}
	if i.Status == "" {
		i.Status = StatusPending
	}
	if !i.Status.Valid() {
		return errors.New("unknown lifecycle status")
	}
	return nil
}
