package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	credentialdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
)

func seedMemory(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()
	if err := s.CreateIdentity(ctx, &identitydomain.Identity{
		ID: "id-1", Email: "a@example.com", Name: "A", Role: identitydomain.RoleMember,
		Status: identitydomain.StatusPending, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	if err := s.CreateCredentialType(ctx, &credentialdomain.CredentialType{ID: "cred-1", Name: "VPN", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreateCredentialType: %v", err)
	}
	return s
}

func TestMemoryStore_CreateIdentity_DuplicateEmail(t *testing.T) {
	s := seedMemory(t)
	err := s.CreateIdentity(context.Background(), &identitydomain.Identity{ID: "id-2", Email: "a@example.com", Name: "B"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestMemoryStore_CreateGrant_RequiresLock(t *testing.T) {
	s := seedMemory(t)
	err := s.InTx(context.Background(), func(ctx context.Context, tx Tx) error {
		return tx.CreateGrant(ctx, &grantdomain.Grant{ID: "g-1", IdentityID: "id-1", CredentialTypeID: "cred-1"})
	})
	if !errors.Is(err, ErrNotLocked) {
		t.Fatalf("err = %v, want ErrNotLocked", err)
	}
}

func TestMemoryStore_InTx_CommitAndRollback(t *testing.T) {
	s := seedMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
			return err
		}
		if err := tx.CreateGrant(ctx, &grantdomain.Grant{ID: "g-1", IdentityID: "id-1", CredentialTypeID: "cred-1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if g, _ := s.GetGrant(ctx, "g-1"); g != nil {
		t.Fatal("rolled back grant must not be visible")
	}

	err = s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
			return err
		}
		if err := tx.CreateGrant(ctx, &grantdomain.Grant{ID: "g-1", IdentityID: "id-1", CredentialTypeID: "cred-1"}); err != nil {
			return err
		}
		if g, _ := s.GetGrant(ctx, "g-1"); g != nil {
			t.Error("staged grant visible outside the transaction")
		}
		c, err := tx.CountGrants(ctx, "id-1")
		if err != nil {
			return err
		}
		if c.Total != 1 {
			t.Errorf("in-tx total = %d, want 1", c.Total)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if g, _ := s.GetGrant(ctx, "g-1"); g == nil {
		t.Fatal("committed grant not visible")
	}
}

func TestMemoryStore_CreateGrant_Duplicate(t *testing.T) {
	s := seedMemory(t)
	ctx := context.Background()
	create := func(id string) error {
		return s.InTx(ctx, func(ctx context.Context, tx Tx) error {
			if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
				return err
			}
			return tx.CreateGrant(ctx, &grantdomain.Grant{ID: id, IdentityID: "id-1", CredentialTypeID: "cred-1"})
		})
	}
	if err := create("g-1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := create("g-2"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestMemoryStore_CreateGrant_MissingCredentialAtCommit(t *testing.T) {
	s := seedMemory(t)
	err := s.InTx(context.Background(), func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
			return err
		}
		return tx.CreateGrant(ctx, &grantdomain.Grant{ID: "g-1", IdentityID: "id-1", CredentialTypeID: "missing"})
	})
	if !errors.Is(err, ErrReferenced) {
		t.Fatalf("err = %v, want ErrReferenced", err)
	}
}

func TestMemoryStore_DeleteCredentialType_Referenced(t *testing.T) {
	s := seedMemory(t)
	ctx := context.Background()
	if err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
			return err
		}
		return tx.CreateGrant(ctx, &grantdomain.Grant{ID: "g-1", IdentityID: "id-1", CredentialTypeID: "cred-1"})
	}); err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if err := s.DeleteCredentialType(ctx, "cred-1"); !errors.Is(err, ErrReferenced) {
		t.Fatalf("err = %v, want ErrReferenced", err)
	}
}

func TestMemoryStore_DeactivateGrants(t *testing.T) {
	s := seedMemory(t)
	ctx := context.Background()
	_ = s.CreateCredentialType(ctx, &credentialdomain.CredentialType{ID: "cred-2", Name: "Git"})
	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
			return err
		}
		if err := tx.CreateGrant(ctx, &grantdomain.Grant{ID: "g-1", IdentityID: "id-1", CredentialTypeID: "cred-1"}); err != nil {
			return err
		}
		return tx.CreateGrant(ctx, &grantdomain.Grant{ID: "g-2", IdentityID: "id-1", CredentialTypeID: "cred-2", Inactive: true})
	})
	if err != nil {
		t.Fatalf("seed grants: %v", err)
	}
	var n int64
	err = s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
			return err
		}
		var err error
		n, err = tx.DeactivateGrants(ctx, "id-1", time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("DeactivateGrants: %v", err)
	}
	if n != 1 {
		t.Errorf("changed = %d, want 1", n)
	}
	details, _ := s.ListGrantDetails(ctx, "id-1")
	for _, d := range details {
		if !d.Inactive {
			t.Errorf("grant %s still active", d.ID)
		}
	}
}

func TestMemoryStore_LockIdentity_Serializes(t *testing.T) {
	s := seedMemory(t)
	ctx := context.Background()
	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.InTx(ctx, func(ctx context.Context, tx Tx) error {
				if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
					return err
				}
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()
				time.Sleep(2 * time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", maxSeen)
	}
}

func TestMemoryStore_LockIdentity_ContextCancelled(t *testing.T) {
	s := seedMemory(t)
	held := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.InTx(context.Background(), func(ctx context.Context, tx Tx) error {
			if _, err := tx.LockIdentity(ctx, "id-1"); err != nil {
				return err
			}
			close(held)
			<-done
			return nil
		})
	}()
	<-held
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.LockIdentity(ctx, "id-1")
		return err
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}

func TestMemoryStore_Stats(t *testing.T) {
	s := seedMemory(t)
	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 1 || st.Pending != 1 {
		t.Errorf("stats = %+v, want one pending identity", st)
	}
}

// seedReports adds a second identity and credential type and three grants with mixed flags.
func seedReports(t *testing.T) *MemoryStore {
	t.Helper()
	s := seedMemory(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.CreateIdentity(ctx, &identitydomain.Identity{
		ID: "id-2", Email: "0b@example.com", Name: "B", Role: identitydomain.RoleMember,
		Status: identitydomain.StatusPending, CreatedAt: base, UpdatedAt: base,
	}); err != nil {
		t.Fatalf("CreateIdentity: %v", err)
	}
	if err := s.CreateCredentialType(ctx, &credentialdomain.CredentialType{ID: "cred-2", Name: "Git", CreatedAt: base, UpdatedAt: base}); err != nil {
		t.Fatalf("CreateCredentialType: %v", err)
	}
	if err := s.CreateCredentialType(ctx, &credentialdomain.CredentialType{ID: "cred-3", Name: "Zoom", CreatedAt: base, UpdatedAt: base}); err != nil {
		t.Fatalf("CreateCredentialType: %v", err)
	}
	grants := []*grantdomain.Grant{
		{ID: "g-1", IdentityID: "id-1", CredentialTypeID: "cred-1", Confirmed: true, Problematic: true, CreatedAt: base},
		{ID: "g-2", IdentityID: "id-1", CredentialTypeID: "cred-2", Inactive: true, Confirmed: true, CreatedAt: base.Add(time.Hour)},
		{ID: "g-3", IdentityID: "id-2", CredentialTypeID: "cred-1", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, g := range grants {
		err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
			if _, err := tx.LockIdentity(ctx, g.IdentityID); err != nil {
				return err
			}
			return tx.CreateGrant(ctx, g)
		})
		if err != nil {
			t.Fatalf("CreateGrant %s: %v", g.ID, err)
		}
	}
	return s
}

func TestMemoryStore_IdentitySummaries(t *testing.T) {
	s := seedReports(t)
	got, err := s.IdentitySummaries(context.Background())
	if err != nil {
		t.Fatalf("IdentitySummaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("summaries = %d, want 2", len(got))
	}
	if got[0].Identity.ID != "id-2" || got[1].Identity.ID != "id-1" {
		t.Errorf("order = %s, %s; want by email", got[0].Identity.Email, got[1].Identity.Email)
	}
	b, a := got[0], got[1]
	if b.Total != 1 || b.Confirmed != 0 || b.Problematic != 0 || b.Inactive != 0 {
		t.Errorf("id-2 summary = %+v", b)
	}
	if a.Total != 2 || a.Confirmed != 2 || a.Problematic != 1 || a.Inactive != 1 {
		t.Errorf("id-1 summary = %+v, want total 2 confirmed 2 problematic 1 inactive 1", a)
	}
}

func TestMemoryStore_CredentialSummaries(t *testing.T) {
	s := seedReports(t)
	got, err := s.CredentialSummaries(context.Background())
	if err != nil {
		t.Fatalf("CredentialSummaries: %v", err)
	}
	tests := []struct {
		name                                                string
		total, confirmed, problematic, inactive, pendingCnt int
	}{
		{"Git", 1, 1, 0, 1, 0},
		{"VPN", 2, 1, 1, 0, 1},
		{"Zoom", 0, 0, 0, 0, 0},
	}
	if len(got) != len(tests) {
		t.Fatalf("summaries = %d, want %d", len(got), len(tests))
	}
	for i, tt := range tests {
		c := got[i]
		if c.CredentialType.Name != tt.name {
			t.Errorf("[%d] name = %s, want %s", i, c.CredentialType.Name, tt.name)
			continue
		}
		if c.Total != tt.total || c.Confirmed != tt.confirmed || c.Problematic != tt.problematic ||
			c.Inactive != tt.inactive || c.Pending != tt.pendingCnt {
			t.Errorf("%s summary = %+v", tt.name, c)
		}
	}
}

func TestMemoryStore_ListAssignments(t *testing.T) {
	s := seedReports(t)
	got, err := s.ListAssignments(context.Background())
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("assignments = %d, want 3", len(got))
	}
	if got[0].ID != "g-3" || got[2].ID != "g-1" {
		t.Errorf("order = %s..%s, want newest first", got[0].ID, got[2].ID)
	}
	first := got[0]
	if first.IdentityEmail != "0b@example.com" || first.IdentityName != "B" ||
		first.IdentityStatus != identitydomain.StatusPending || first.CredentialName != "VPN" {
		t.Errorf("joined row = %+v", first)
	}
}
