// seed inserts development sample data: the admin identity, a credential catalog and one
// member with pending grants. Idempotent: existing rows are left untouched.
package main

import (
	"context"
	"errors"
	"log"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	auditrepo "github.com/Rohitbatham1306/credential-dashbaord/internal/audit/repository"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/config"
	credentialdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	credentialservice "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/service"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/db"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
	identityservice "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/service"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/security"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/store"
)

const (
	seedActor      = "seed"
	memberEmail    = "member@example.com"
	memberPassword = "password123"
)

var catalog = []struct{ name, description string }{
	{"Email", "Corporate mailbox"},
	{"VPN", "Remote network access"},
	{"GitHub", "Source code organization membership"},
	{"Slack", "Team chat workspace"},
	{"Jira", "Issue tracker project access"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	st := store.NewPostgresStore(conn)
	auditLog := audit.NewLogger(auditrepo.NewPostgresRepository(conn), nil)
	signer, pub, err := security.GenerateKeyPair()
	if err != nil {
		log.Fatalf("keys: %v", err)
	}
	auth := identityservice.NewAuthService(st, security.NewHasher(cfg.BcryptCost), security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL()), auditLog)

	admin, created, err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, "Administrator")
	if err != nil {
		log.Fatalf("admin: %v", err)
	}
	log.Printf("admin %s (created=%t)", admin.Email, created)

	types := credentialservice.NewCatalogService(st, auditLog)
	var seeded []*credentialdomain.CredentialType
	for _, c := range catalog {
		ct, err := types.Create(ctx, admin.Email, c.name, c.description)
		if errors.Is(err, credentialservice.ErrNameTaken) {
			log.Printf("credential type %q exists, skipping", c.name)
			continue
		}
		if err != nil {
			log.Fatalf("credential type %q: %v", c.name, err)
		}
		seeded = append(seeded, ct)
	}

	member, err := auth.Register(ctx, memberEmail, memberPassword, "Member User")
	if errors.Is(err, identityservice.ErrEmailAlreadyRegistered) {
		log.Println("Seed already applied (member@example.com exists). Skipping grants.")
		return
	}
	if err != nil {
		log.Fatalf("member: %v", err)
	}
	eng := lifecycle.NewEngine(st)
	actor := lifecycle.Actor{ID: admin.ID, Email: seedActor, Role: identitydomain.RoleAdmin}
	for _, ct := range seeded[:min(2, len(seeded))] {
		if _, err := eng.AssignCredential(ctx, actor, member.ID, ct.ID); err != nil {
			log.Fatalf("assign %s: %v", ct.Name, err)
		}
	}
	log.Printf("member %s created with %d pending grants", member.Email, min(2, len(seeded)))
}
