package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	credentialdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/db"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/db/migrate"
	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
)

func openPostgres(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(dsn) == "" {
		t.Skip("DATABASE_URL not set")
	}
	if err := migrate.Run(dsn, migrate.Up); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := db.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewPostgresStore(conn)
}

func TestPostgresStore_Reports(t *testing.T) {
	s := openPostgres(t)
	ctx := context.Background()
	suffix := uuid.New().String()[:8]
	now := time.Now().UTC().Truncate(time.Microsecond)

	ident := &identitydomain.Identity{
		ID: uuid.New().String(), Email: "report-" + suffix + "@example.com", Name: "Report",
		Role: identitydomain.RoleMember, Status: identitydomain.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateIdentity(ctx, ident); err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	creds := []*credentialdomain.CredentialType{
		{ID: uuid.New().String(), Name: "report-a-" + suffix, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), Name: "report-b-" + suffix, CreatedAt: now, UpdatedAt: now},
	}
	for _, c := range creds {
		if err := s.CreateCredentialType(ctx, c); err != nil {
			t.Fatalf("CreateCredentialType: %v", err)
		}
	}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(context.Background(), `DELETE FROM identities WHERE id = $1`, ident.ID)
		for _, c := range creds {
			_, _ = s.db.ExecContext(context.Background(), `DELETE FROM credential_types WHERE id = $1`, c.ID)
		}
	})

	grant := &grantdomain.Grant{
		ID: uuid.New().String(), IdentityID: ident.ID, CredentialTypeID: creds[0].ID,
		Confirmed: true, Problematic: true, CreatedAt: now, UpdatedAt: now,
	}
	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockIdentity(ctx, ident.ID); err != nil {
			return err
		}
		c, err := tx.GetCredentialType(ctx, creds[0].ID)
		if err != nil || c == nil {
			t.Errorf("tx.GetCredentialType = %v, %v", c, err)
		}
		return tx.CreateGrant(ctx, grant)
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	idSums, err := s.IdentitySummaries(ctx)
	if err != nil {
		t.Fatalf("IdentitySummaries: %v", err)
	}
	var found bool
	for _, sum := range idSums {
		if sum.Identity.ID != ident.ID {
			continue
		}
		found = true
		if sum.Total != 1 || sum.Confirmed != 1 || sum.Problematic != 1 || sum.Inactive != 0 {
			t.Errorf("identity summary = %+v", sum)
		}
	}
	if !found {
		t.Error("identity missing from summaries")
	}

	credSums, err := s.CredentialSummaries(ctx)
	if err != nil {
		t.Fatalf("CredentialSummaries: %v", err)
	}
	byID := map[string]*CredentialSummary{}
	for _, sum := range credSums {
		byID[sum.CredentialType.ID] = sum
	}
	if a := byID[creds[0].ID]; a == nil || a.Total != 1 || a.Confirmed != 1 || a.Pending != 0 {
		t.Errorf("assigned credential summary = %+v", a)
	}
	if b := byID[creds[1].ID]; b == nil || b.Total != 0 || b.Pending != 0 {
		t.Errorf("unassigned credential summary = %+v", b)
	}

	list, err := s.ListAssignments(ctx)
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}
	for _, a := range list {
		if a.ID != grant.ID {
			continue
		}
		if a.IdentityEmail != ident.Email || a.CredentialName != creds[0].Name || a.IdentityStatus != identitydomain.StatusPending {
			t.Errorf("assignment = %+v", a)
		}
		return
	}
	t.Error("grant missing from assignments")
}
