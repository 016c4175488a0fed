package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	auditdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/store"
)

// Sentinel errors; handler maps them to gRPC codes.
var (
	ErrNotFound  = errors.New("credential type not found")
	ErrNameTaken = errors.New("credential type name already exists")
	ErrInUse     = errors.New("credential type is still assigned")
	// ErrInvalidInput wraps validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// Store is the subset of the grant store needed by the catalog.
type Store interface {
	GetCredentialType(ctx context.Context, id string) (*domain.CredentialType, error)
	ListCredentialTypes(ctx context.Context) ([]*domain.CredentialType, error)
	CreateCredentialType(ctx context.Context, c *domain.CredentialType) error
	UpdateCredentialType(ctx context.Context, c *domain.CredentialType) error
	DeleteCredentialType(ctx context.Context, id string) error
}

// CatalogService manages credential types.
type CatalogService struct {
	store    Store
	auditLog audit.AuditLogger
	now      func() time.Time
}

// NewCatalogService returns a CatalogService. auditLog may be nil.
func NewCatalogService(st Store, auditLog audit.AuditLogger) *CatalogService {
	return &CatalogService{store: st, auditLog: auditLog, now: func() time.Time { return time.Now().UTC() }}
}

// List returns all credential types ordered by name.
func (s *CatalogService) List(ctx context.Context) ([]*domain.CredentialType, error) {
	return s.store.ListCredentialTypes(ctx)
}

// Get returns one credential type or ErrNotFound.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.CredentialType, error) {
	c, err := s.store.GetCredentialType(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Create adds a credential type. Names are unique.
func (s *CatalogService) Create(ctx context.Context, actorEmail, name, description string) (*domain.CredentialType, error) {
	now := s.now()
	c := &domain.CredentialType{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.store.CreateCredentialType(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	s.audit(ctx, actorEmail, audit.ActionCredentialAdd, c, map[string]any{"name": c.Name})
	return c, nil
}

// Update changes the name and/or description. A nil field is left as is.
func (s *CatalogService) Update(ctx context.Context, actorEmail, id string, name, description *string) (*domain.CredentialType, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := c.Name
	if name != nil {
		c.Name = *name
	}
	if description != nil {
		c.Description = *description
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	c.UpdatedAt = s.now()
	if err := s.store.UpdateCredentialType(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	s.audit(ctx, actorEmail, audit.ActionCredentialEdit, c, map[string]any{"previous_name": before, "name": c.Name})
	return c, nil
}

// Delete removes a credential type. It fails with ErrInUse while any grant references it.
func (s *CatalogService) Delete(ctx context.Context, actorEmail, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCredentialType(ctx, id); err != nil {
		if errors.Is(err, store.ErrReferenced) {
			return ErrInUse
		}
		return err
	}
	s.audit(ctx, actorEmail, audit.ActionCredentialDelete, c, map[string]any{"name": c.Name})
	return nil
}

func (s *CatalogService) audit(ctx context.Context, actor, action string, c *domain.CredentialType, details map[string]any) {
	if s.auditLog == nil {
		return
	}
	b, _ := json.Marshal(details)
	s.auditLog.Log(ctx, &auditdomain.AuditLog{
		ActorEmail:       actor,
		Action:           action,
		CredentialTypeID: c.ID,
		Details:          string(b),
	})
}
