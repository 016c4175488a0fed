package domain

import (
	"errors"
	"strings"
	"time"
)

// CredentialType is a named class of grantable access (e.g. "VPN access").
type CredentialType struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate trims the name and description and rejects an empty name.
func (c *CredentialType) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	if c.Name == "" {
		return errors.New("credential type name is required")
	}
	return nil
}
