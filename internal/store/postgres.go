package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	credentialdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/credential/domain"
	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
)

const identityColumns = `id, email, name, role, status, password_hash, onboarded_at, offboarded_at, created_at, updated_at`

const grantColumns = `id, identity_id, credential_type_id, confirmed, problematic, inactive, created_at, updated_at`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a Store backed by the given Postgres connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InTx runs fn inside a database transaction. A context that expires mid-transaction
// rolls the whole transaction back.
func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(ctx, &postgresTx{q: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	return translate(sqlTx.Commit())
}

// GetIdentity returns the identity for id, or nil if not found.
func (s *PostgresStore) GetIdentity(ctx context.Context, id string) (*identitydomain.Identity, error) {
	return getIdentity(ctx, s.db, `SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
}

// GetIdentityByEmail returns the identity with the given email, or nil if not found.
func (s *PostgresStore) GetIdentityByEmail(ctx context.Context, email string) (*identitydomain.Identity, error) {
	return getIdentity(ctx, s.db, `SELECT `+identityColumns+` FROM identities WHERE email = $1`, email)
}

// ListIdentities returns every identity ordered by email.
func (s *PostgresStore) ListIdentities(ctx context.Context) ([]*identitydomain.Identity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+identityColumns+` FROM identities ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*identitydomain.Identity
	for rows.Next() {
		i, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// CreateIdentity inserts the identity. The identity must have ID set. Returns ErrDuplicate if the email is taken.
func (s *PostgresStore) CreateIdentity(ctx context.Context, i *identitydomain.Identity) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO identities (`+identityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		i.ID, i.Email, i.Name, string(i.Role), string(i.Status), i.PasswordHash,
		nullTime(i.OnboardedAt), nullTime(i.OffboardedAt), i.CreatedAt, i.UpdatedAt,
	)
	return translate(err)
}

// GetGrant returns the grant for id, or nil if not found.
func (s *PostgresStore) GetGrant(ctx context.Context, id string) (*grantdomain.Grant, error) {
	return getGrant(ctx, s.db, id)
}

// ListGrantDetails returns the grants of identityID joined with their credential type, oldest first.
func (s *PostgresStore) ListGrantDetails(ctx context.Context, identityID string) ([]*grantdomain.Detail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.identity_id, g.credential_type_id, g.confirmed, g.problematic, g.inactive,
		       g.created_at, g.updated_at, c.name, c.description
		FROM grants g
		JOIN credential_types c ON c.id = g.credential_type_id
		WHERE g.identity_id = $1
		ORDER BY g.created_at, g.id`, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*grantdomain.Detail
	for rows.Next() {
		var d grantdomain.Detail
		if err := rows.Scan(&d.ID, &d.IdentityID, &d.CredentialTypeID, &d.Confirmed, &d.Problematic,
			&d.Inactive, &d.CreatedAt, &d.UpdatedAt, &d.CredentialName, &d.CredentialDescription); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// GetCredentialType returns the credential type for id, or nil if not found.
func (s *PostgresStore) GetCredentialType(ctx context.Context, id string) (*credentialdomain.CredentialType, error) {
	return getCredentialType(ctx, s.db, id)
}

// ListCredentialTypes returns every credential type ordered by name.
func (s *PostgresStore) ListCredentialTypes(ctx context.Context) ([]*credentialdomain.CredentialType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description, created_at, updated_at
		FROM credential_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*credentialdomain.CredentialType
	for rows.Next() {
		var c credentialdomain.CredentialType
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CreateCredentialType inserts c. Returns ErrDuplicate if the name is taken.
func (s *PostgresStore) CreateCredentialType(ctx context.Context, c *credentialdomain.CredentialType) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO credential_types (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	return translate(err)
}

// UpdateCredentialType writes name, description and updated_at. Missing rows are ignored.
func (s *PostgresStore) UpdateCredentialType(ctx context.Context, c *credentialdomain.CredentialType) error {
	_, err := s.db.ExecContext(ctx, `UPDATE credential_types SET name = $2, description = $3, updated_at = $4
		WHERE id = $1`, c.ID, c.Name, c.Description, c.UpdatedAt)
	return translate(err)
}

// DeleteCredentialType removes the credential type. The grants foreign key is ON DELETE RESTRICT,
// so a referenced type yields ErrReferenced.
func (s *PostgresStore) DeleteCredentialType(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credential_types WHERE id = $1`, id)
	return translate(err)
}

// Stats counts identities per status and problematic grants in one round trip.
func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM identities),
			(SELECT COUNT(*) FROM identities WHERE status = 'Pending'),
			(SELECT COUNT(*) FROM identities WHERE status = 'Onboarded'),
			(SELECT COUNT(*) FROM identities WHERE status = 'OffboardingInProgress'),
			(SELECT COUNT(*) FROM identities WHERE status = 'Offboarded'),
			(SELECT COUNT(*) FROM grants WHERE problematic)`).
		Scan(&st.Total, &st.Pending, &st.Onboarded, &st.OffboardingInProgress, &st.Offboarded, &st.ProblematicGrants)
	return st, err
}

// IdentitySummaries counts grant flags per identity with a left join, so identities without
// grants report zeros.
func (s *PostgresStore) IdentitySummaries(ctx context.Context) ([]*IdentitySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.email, i.name, i.role, i.status, i.password_hash, i.onboarded_at, i.offboarded_at,
		       i.created_at, i.updated_at,
		       COUNT(g.id),
		       COUNT(g.id) FILTER (WHERE g.confirmed),
		       COUNT(g.id) FILTER (WHERE g.problematic),
		       COUNT(g.id) FILTER (WHERE g.inactive)
		FROM identities i
		LEFT JOIN grants g ON g.identity_id = i.id
		GROUP BY i.id
		ORDER BY i.email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*IdentitySummary
	for rows.Next() {
		var sum IdentitySummary
		ident, err := scanIdentity(withTrailing(rows, &sum.Total, &sum.Confirmed, &sum.Problematic, &sum.Inactive))
		if err != nil {
			return nil, err
		}
		sum.Identity = ident
		out = append(out, &sum)
	}
	return out, rows.Err()
}

// CredentialSummaries counts grant flags per credential type.
func (s *PostgresStore) CredentialSummaries(ctx context.Context) ([]*CredentialSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
		       COUNT(g.id),
		       COUNT(g.id) FILTER (WHERE g.confirmed),
		       COUNT(g.id) FILTER (WHERE g.problematic),
		       COUNT(g.id) FILTER (WHERE g.inactive),
		       COUNT(g.id) FILTER (WHERE NOT g.confirmed AND NOT g.problematic AND NOT g.inactive)
		FROM credential_types c
		LEFT JOIN grants g ON g.credential_type_id = c.id
		GROUP BY c.id
		ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*CredentialSummary
	for rows.Next() {
		var (
			c   credentialdomain.CredentialType
			sum CredentialSummary
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
			&sum.Total, &sum.Confirmed, &sum.Problematic, &sum.Inactive, &sum.Pending); err != nil {
			return nil, err
		}
		sum.CredentialType = &c
		out = append(out, &sum)
	}
	return out, rows.Err()
}

// ListAssignments returns every grant joined with its credential type and identity, newest first.
func (s *PostgresStore) ListAssignments(ctx context.Context) ([]*Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.identity_id, g.credential_type_id, g.confirmed, g.problematic, g.inactive,
		       g.created_at, g.updated_at, c.name, c.description, i.email, i.name, i.status
		FROM grants g
		JOIN credential_types c ON c.id = g.credential_type_id
		JOIN identities i ON i.id = g.identity_id
		ORDER BY g.created_at DESC, g.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Assignment
	for rows.Next() {
		var (
			a      Assignment
			status string
		)
		if err := rows.Scan(&a.ID, &a.IdentityID, &a.CredentialTypeID, &a.Confirmed, &a.Problematic,
			&a.Inactive, &a.CreatedAt, &a.UpdatedAt, &a.CredentialName, &a.CredentialDescription,
			&a.IdentityEmail, &a.IdentityName, &status); err != nil {
			return nil, err
		}
		a.IdentityStatus = identitydomain.Status(status)
		out = append(out, &a)
	}
	return out, rows.Err()
}

type postgresTx struct {
	q querier
}

// LockIdentity selects the identity row FOR UPDATE; concurrent lifecycle transactions
// on the same identity block here until this one commits or rolls back.
func (t *postgresTx) LockIdentity(ctx context.Context, id string) (*identitydomain.Identity, error) {
	return getIdentity(ctx, t.q, `SELECT `+identityColumns+` FROM identities WHERE id = $1 FOR UPDATE`, id)
}

func (t *postgresTx) SaveIdentityStatus(ctx context.Context, i *identitydomain.Identity) error {
	_, err := t.q.ExecContext(ctx, `UPDATE identities
		SET status = $2, onboarded_at = $3, offboarded_at = $4, updated_at = $5
		WHERE id = $1`,
		i.ID, string(i.Status), nullTime(i.OnboardedAt), nullTime(i.OffboardedAt), i.UpdatedAt)
	return err
}

func (t *postgresTx) GetGrant(ctx context.Context, id string) (*grantdomain.Grant, error) {
	return getGrant(ctx, t.q, id)
}

func (t *postgresTx) GetCredentialType(ctx context.Context, id string) (*credentialdomain.CredentialType, error) {
	return getCredentialType(ctx, t.q, id)
}

// CountGrants computes the derivation aggregate with filtered counts.
func (t *postgresTx) CountGrants(ctx context.Context, identityID string) (grantdomain.Counts, error) {
	var c grantdomain.Counts
	err := t.q.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE inactive),
		       COUNT(*) FILTER (WHERE confirmed AND NOT inactive)
		FROM grants WHERE identity_id = $1`, identityID).
		Scan(&c.Total, &c.Inactive, &c.Confirmed)
	return c, err
}

// CreateGrant inserts g. The unique index on (identity_id, credential_type_id) turns a
// concurrent double assignment into ErrDuplicate.
func (t *postgresTx) CreateGrant(ctx context.Context, g *grantdomain.Grant) error {
	_, err := t.q.ExecContext(ctx, `INSERT INTO grants (`+grantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.ID, g.IdentityID, g.CredentialTypeID, g.Confirmed, g.Problematic, g.Inactive, g.CreatedAt, g.UpdatedAt)
	return translate(err)
}

func (t *postgresTx) UpdateGrant(ctx context.Context, g *grantdomain.Grant) error {
	_, err := t.q.ExecContext(ctx, `UPDATE grants
		SET confirmed = $2, problematic = $3, inactive = $4, updated_at = $5
		WHERE id = $1`, g.ID, g.Confirmed, g.Problematic, g.Inactive, g.UpdatedAt)
	return err
}

func (t *postgresTx) DeleteGrant(ctx context.Context, id string) error {
	_, err := t.q.ExecContext(ctx, `DELETE FROM grants WHERE id = $1`, id)
	return err
}

func (t *postgresTx) DeactivateGrants(ctx context.Context, identityID string, at time.Time) (int64, error) {
	res, err := t.q.ExecContext(ctx, `UPDATE grants SET inactive = TRUE, updated_at = $2
		WHERE identity_id = $1 AND NOT inactive`, identityID, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func getIdentity(ctx context.Context, q querier, query string, arg string) (*identitydomain.Identity, error) {
	i, err := scanIdentity(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return i, nil
}

func getGrant(ctx context.Context, q querier, id string) (*grantdomain.Grant, error) {
	var g grantdomain.Grant
	err := q.QueryRowContext(ctx, `SELECT `+grantColumns+` FROM grants WHERE id = $1`, id).
		Scan(&g.ID, &g.IdentityID, &g.CredentialTypeID, &g.Confirmed, &g.Problematic, &g.Inactive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func getCredentialType(ctx context.Context, q querier, id string) (*credentialdomain.CredentialType, error) {
	var c credentialdomain.CredentialType
	err := q.QueryRowContext(ctx, `SELECT id, name, description, created_at, updated_at
		FROM credential_types WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// trailingScanner appends extra destinations after the ones the caller scans.
type trailingScanner struct {
	s     rowScanner
	extra []any
}

func withTrailing(s rowScanner, extra ...any) rowScanner {
	return trailingScanner{s: s, extra: extra}
}

func (t trailingScanner) Scan(dest ...any) error {
	return t.s.Scan(append(dest, t.extra...)...)
}

func scanIdentity(s rowScanner) (*identitydomain.Identity, error) {
	var (
		i                     identitydomain.Identity
		role, status          string
		onboarded, offboarded sql.NullTime
	)
	if err := s.Scan(&i.ID, &i.Email, &i.Name, &role, &status, &i.PasswordHash,
		&onboarded, &offboarded, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.Role = identitydomain.Role(role)
	i.Status = identitydomain.Status(status)
	if onboarded.Valid {
		t := onboarded.Time
		i.OnboardedAt = &t
	}
	if offboarded.Valid {
		t := offboarded.Time
		i.OffboardedAt = &t
	}
	return &i, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// translate maps Postgres constraint violations to store sentinels.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrReferenced
		}
	}
	return err
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Tx    = (*postgresTx)(nil)
)
