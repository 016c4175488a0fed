package store

import (
	"context"
	"sort"
	"sync"
	"time"

	credentialdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
)

// MemoryStore is an in-process Store used by tests and when no DATABASE_URL is configured.
// Per-identity locks are one-slot channels so waiting honours context cancellation.
// Transaction writes are staged and applied atomically on commit.
type MemoryStore struct {
	mu          sync.RWMutex
	identities  map[string]*identitydomain.Identity
	credentials map[string]*credentialdomain.CredentialType
	grants      map[string]*grantdomain.Grant

	lockMu sync.Mutex
	locks  map[string]chan struct{}
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		identities:  make(map[string]*identitydomain.Identity),
		credentials: make(map[string]*credentialdomain.CredentialType),
		grants:      make(map[string]*grantdomain.Grant),
		locks:       make(map[string]chan struct{}),
	}
}

func (s *MemoryStore) identityLock(id string) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx := &memoryTx{
		s:          s,
		held:       make(map[string]chan struct{}),
		identities: make(map[string]*identitydomain.Identity),
		grants:     make(map[string]*grantdomain.Grant),
	}
	defer tx.release()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

func (s *MemoryStore) GetIdentity(_ context.Context, id string) (*identitydomain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyIdentity(s.identities[id]), nil
}

func (s *MemoryStore) GetIdentityByEmail(_ context.Context, email string) (*identitydomain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.identities {
		if i.Email == email {
			return copyIdentity(i), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListIdentities(_ context.Context) ([]*identitydomain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*identitydomain.Identity, 0, len(s.identities))
	for _, i := range s.identities {
		out = append(out, copyIdentity(i))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Email < out[b].Email })
	return out, nil
}

func (s *MemoryStore) CreateIdentity(_ context.Context, i *identitydomain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[i.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.identities {
		if existing.Email == i.Email {
			return ErrDuplicate
		}
	}
	s.identities[i.ID] = copyIdentity(i)
	return nil
}

func (s *MemoryStore) GetGrant(_ context.Context, id string) (*grantdomain.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyGrant(s.grants[id]), nil
}

func (s *MemoryStore) ListGrantDetails(_ context.Context, identityID string) ([]*grantdomain.Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*grantdomain.Detail
	for _, g := range s.grants {
		if g.IdentityID != identityID {
			continue
		}
		d := &grantdomain.Detail{Grant: *g}
		if c := s.credentials[g.CredentialTypeID]; c != nil {
			d.CredentialName = c.Name
			d.CredentialDescription = c.Description
		}
		out = append(out, d)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

func (s *MemoryStore) GetCredentialType(_ context.Context, id string) (*credentialdomain.CredentialType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.credentials[id]; c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListCredentialTypes(_ context.Context) ([]*credentialdomain.CredentialType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*credentialdomain.CredentialType, 0, len(s.credentials))
	for _, c := range s.credentials {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (s *MemoryStore) CreateCredentialType(_ context.Context, c *credentialdomain.CredentialType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[c.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.credentials {
		if existing.Name == c.Name {
			return ErrDuplicate
		}
	}
	cp := *c
	s.credentials[c.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateCredentialType(_ context.Context, c *credentialdomain.CredentialType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.credentials[c.ID]
	if !ok {
		return nil
	}
	for id, existing := range s.credentials {
		if id != c.ID && existing.Name == c.Name {
			return ErrDuplicate
		}
	}
	cur.Name = c.Name
	cur.Description = c.Description
	cur.UpdatedAt = c.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteCredentialType(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.grants {
		if g.CredentialTypeID == id {
			return ErrReferenced
		}
	}
	delete(s.credentials, id)
	return nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Total: len(s.identities)}
	for _, i := range s.identities {
		switch i.Status {
		case identitydomain.StatusPending:
			st.Pending++
		case identitydomain.StatusOnboarded:
			st.Onboarded++
		case identitydomain.StatusOffboardingInProgress:
			st.OffboardingInProgress++
		case identitydomain.StatusOffboarded:
			st.Offboarded++
		}
	}
	for _, g := range s.grants {
		if g.Problematic {
			st.ProblematicGrants++
		}
	}
	return st, nil
}

func (s *MemoryStore) IdentitySummaries(_ context.Context) ([]*IdentitySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := make(map[string]*IdentitySummary, len(s.identities))
	out := make([]*IdentitySummary, 0, len(s.identities))
	for id, i := range s.identities {
		sum := &IdentitySummary{Identity: copyIdentity(i)}
		byID[id] = sum
		out = append(out, sum)
	}
	for _, g := range s.grants {
		sum := byID[g.IdentityID]
		if sum == nil {
			continue
		}
		sum.Total++
		if g.Confirmed {
			sum.Confirmed++
		}
		if g.Problematic {
			sum.Problematic++
		}
		if g.Inactive {
			sum.Inactive++
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Identity.Email < out[b].Identity.Email })
	return out, nil
}

func (s *MemoryStore) CredentialSummaries(_ context.Context) ([]*CredentialSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := make(map[string]*CredentialSummary, len(s.credentials))
	out := make([]*CredentialSummary, 0, len(s.credentials))
	for id, c := range s.credentials {
		cp := *c
		sum := &CredentialSummary{CredentialType: &cp}
		byID[id] = sum
		out = append(out, sum)
	}
	for _, g := range s.grants {
		sum := byID[g.CredentialTypeID]
		if sum == nil {
			continue
		}
		sum.Total++
		if g.Confirmed {
			sum.Confirmed++
		}
		if g.Problematic {
			sum.Problematic++
		}
		if g.Inactive {
			sum.Inactive++
		}
		if !g.Confirmed && !g.Problematic && !g.Inactive {
			sum.Pending++
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CredentialType.Name < out[b].CredentialType.Name })
	return out, nil
}

func (s *MemoryStore) ListAssignments(_ context.Context) ([]*Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Assignment, 0, len(s.grants))
	for _, g := range s.grants {
		a := &Assignment{Detail: grantdomain.Detail{Grant: *g}}
		if c := s.credentials[g.CredentialTypeID]; c != nil {
			a.CredentialName = c.Name
			a.CredentialDescription = c.Description
		}
		if i := s.identities[g.IdentityID]; i != nil {
			a.IdentityEmail = i.Email
			a.IdentityName = i.Name
			a.IdentityStatus = i.Status
		}
		out = append(out, a)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

// memoryTx stages identity and grant writes. A nil entry in grants marks a deletion.
type memoryTx struct {
	s          *MemoryStore
	held       map[string]chan struct{}
	identities map[string]*identitydomain.Identity
	grants     map[string]*grantdomain.Grant
	created    []string
}

func (t *memoryTx) release() {
	for id, ch := range t.held {
		<-ch
		delete(t.held, id)
	}
}

func (t *memoryTx) LockIdentity(ctx context.Context, id string) (*identitydomain.Identity, error) {
	if _, ok := t.held[id]; !ok {
		ch := t.s.identityLock(id)
		select {
		case ch <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		t.held[id] = ch
	}
	if i, ok := t.identities[id]; ok {
		return copyIdentity(i), nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return copyIdentity(t.s.identities[id]), nil
}

func (t *memoryTx) locked(identityID string) bool {
	_, ok := t.held[identityID]
	return ok
}

func (t *memoryTx) SaveIdentityStatus(_ context.Context, i *identitydomain.Identity) error {
	if !t.locked(i.ID) {
		return ErrNotLocked
	}
	t.identities[i.ID] = copyIdentity(i)
	return nil
}

func (t *memoryTx) GetGrant(_ context.Context, id string) (*grantdomain.Grant, error) {
	if g, ok := t.grants[id]; ok {
		return copyGrant(g), nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return copyGrant(t.s.grants[id]), nil
}

func (t *memoryTx) GetCredentialType(ctx context.Context, id string) (*credentialdomain.CredentialType, error) {
	return t.s.GetCredentialType(ctx, id)
}

// view returns the grants of identityID as this transaction sees them.
func (t *memoryTx) view(identityID string) []*grantdomain.Grant {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	var out []*grantdomain.Grant
	for id, g := range t.s.grants {
		if _, staged := t.grants[id]; staged || g.IdentityID != identityID {
			continue
		}
		out = append(out, g)
	}
	for _, g := range t.grants {
		if g != nil && g.IdentityID == identityID {
			out = append(out, g)
		}
	}
	return out
}

func (t *memoryTx) CountGrants(_ context.Context, identityID string) (grantdomain.Counts, error) {
	return grantdomain.Count(t.view(identityID)), nil
}

func (t *memoryTx) CreateGrant(_ context.Context, g *grantdomain.Grant) error {
	if !t.locked(g.IdentityID) {
		return ErrNotLocked
	}
	for _, existing := range t.view(g.IdentityID) {
		if existing.CredentialTypeID == g.CredentialTypeID {
			return ErrDuplicate
		}
	}
	t.grants[g.ID] = copyGrant(g)
	t.created = append(t.created, g.ID)
	return nil
}

func (t *memoryTx) UpdateGrant(_ context.Context, g *grantdomain.Grant) error {
	if !t.locked(g.IdentityID) {
		return ErrNotLocked
	}
	t.grants[g.ID] = copyGrant(g)
	return nil
}

func (t *memoryTx) DeleteGrant(ctx context.Context, id string) error {
	g, err := t.GetGrant(ctx, id)
	if err != nil || g == nil {
		return err
	}
	if !t.locked(g.IdentityID) {
		return ErrNotLocked
	}
	t.grants[id] = nil
	return nil
}

func (t *memoryTx) DeactivateGrants(_ context.Context, identityID string, at time.Time) (int64, error) {
	if !t.locked(identityID) {
		return 0, ErrNotLocked
	}
	var n int64
	for _, g := range t.view(identityID) {
		if g.Inactive {
			continue
		}
		cp := copyGrant(g)
		cp.Inactive = true
		cp.UpdatedAt = at
		t.grants[cp.ID] = cp
		n++
	}
	return n, nil
}

// commit applies the staged writes under the store mutex. Created grants are checked
// against the credential catalogue here, since a concurrent delete may have removed the type.
func (t *memoryTx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, id := range t.created {
		g := t.grants[id]
		if g == nil {
			continue
		}
		if _, ok := t.s.credentials[g.CredentialTypeID]; !ok {
			return ErrReferenced
		}
		if _, ok := t.s.identities[g.IdentityID]; !ok {
			return ErrReferenced
		}
	}
	for id, i := range t.identities {
		if _, ok := t.s.identities[id]; ok {
			t.s.identities[id] = i
		}
	}
	for id, g := range t.grants {
		if g == nil {
			delete(t.s.grants, id)
			continue
		}
		t.s.grants[id] = g
	}
	return nil
}

func copyIdentity(i *identitydomain.Identity) *identitydomain.Identity {
	if i == nil {
		return nil
	}
	cp := *i
	return &cp
}

func copyGrant(g *grantdomain.Grant) *grantdomain.Grant {
	if g == nil {
		return nil
	}
	cp := *g
	return &cp
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Tx    = (*memoryTx)(nil)
)
