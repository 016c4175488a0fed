package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	auditdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/security"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/store"
)

// Sentinel errors for auth service; handler maps them to gRPC codes.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	// ErrInvalidInput wraps registration validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

var simpleEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthResult holds the outcome of Login.
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Identity    *identitydomain.Identity
}

// IdentityStore is the subset of the grant store needed by the auth service.
type IdentityStore interface {
	GetIdentityByEmail(ctx context.Context, email string) (*identitydomain.Identity, error)
	CreateIdentity(ctx context.Context, i *identitydomain.Identity) error
}

// AuthService implements password registration and login.
type AuthService struct {
	store    IdentityStore
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	auditLog audit.AuditLogger
	now      func() time.Time
}

// NewAuthService returns an AuthService. auditLog may be nil.
func NewAuthService(st IdentityStore, hasher *security.Hasher, tokens *security.TokenProvider, auditLog audit.AuditLogger) *AuthService {
	return &AuthService{
		store:    st,
		hasher:   hasher,
		tokens:   tokens,
		auditLog: auditLog,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a member identity in the Pending state. The caller logs in separately.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*identitydomain.Identity, error) {
	ident, err := s.create(ctx, email, password, name, identitydomain.RoleMember)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, ident.Email, audit.ActionRegister, ident.ID, map[string]any{"role": ident.Role})
	return ident, nil
}

// EnsureAdmin creates an admin identity unless one with this email already exists.
// created is false when the email was taken; the existing identity is returned unchanged.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (ident *identitydomain.Identity, created bool, err error) {
	existing, err := s.store.GetIdentityByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	ident, err = s.create(ctx, email, password, name, identitydomain.RoleAdmin)
	if errors.Is(err, ErrEmailAlreadyRegistered) {
		existing, err = s.store.GetIdentityByEmail(ctx, normalizeEmail(email))
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	s.audit(ctx, ident.Email, audit.ActionRegister, ident.ID, map[string]any{"role": ident.Role, "seeded": true})
	return ident, true, nil
}

// Login verifies the password and issues an access token. Unknown emails, wrong
// passwords and offboarded identities all return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	ident, err := s.store.GetIdentityByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if ident == nil || ident.PasswordHash == "" {
		s.audit(ctx, email, audit.ActionLoginFailure, "", map[string]any{"reason": "unknown email"})
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(ident.PasswordHash, []byte(password)); err != nil {
		s.audit(ctx, email, audit.ActionLoginFailure, ident.ID, map[string]any{"reason": "wrong password"})
		return nil, ErrInvalidCredentials
	}
	if ident.Status == identitydomain.StatusOffboarded {
		s.audit(ctx, email, audit.ActionLoginFailure, ident.ID, map[string]any{"reason": "offboarded"})
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.tokens.IssueAccess(ident.ID, ident.Email, string(ident.Role))
	if err != nil {
		return nil, err
	}
	s.audit(ctx, email, audit.ActionLogin, ident.ID, nil)
	return &AuthResult{AccessToken: token, ExpiresAt: exp, Identity: ident}, nil
}

func (s *AuthService) create(ctx context.Context, email, password, name string, role identitydomain.Role) (*identitydomain.Identity, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := security.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	existing, err := s.store.GetIdentityByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	now := s.now()
	ident := &identitydomain.Identity{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      role,
		Status:    identitydomain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ident.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	ident.PasswordHash = hashed
	if err := s.store.CreateIdentity(ctx, ident); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	return ident, nil
}

func (s *AuthService) audit(ctx context.Context, actor, action, identityID string, details map[string]any) {
	if s.auditLog == nil {
		return
	}
	entry := &auditdomain.AuditLog{ActorEmail: actor, Action: action, IdentityID: identityID, Details: "{}"}
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = string(b)
		}
	}
	s.auditLog.Log(ctx, entry)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !simpleEmail.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}
