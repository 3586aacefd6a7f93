package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vantagehq/vantage-auth/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, password_hash, last_login_at, lockout_expires_at, failed_attempts, created_at, updated_at`

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	return r.hydrate(ctx, row)
}

func (r *usersRepo) GetByRefreshToken(ctx context.Context, token string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.last_login_at,
		       u.lockout_expires_at, u.failed_attempts, u.created_at, u.updated_at
		FROM users u
		JOIN refresh_tokens rt ON rt.user_id = u.id
		WHERE rt.token = ?
		LIMIT 1`, token)
	return r.hydrate(ctx, row)
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, last_login_at,
		                   lockout_expires_at, failed_attempts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash,
		nullTime(u.LastLoginAt), nullTime(u.LockoutExpiresAt),
		u.FailedAttempts, u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

// Save upserts the whole aggregate: the user row plus every ledger entry.
// Ledger rows are keyed by the opaque token value, so re-saving is
// idempotent; only revoked_at ever changes on an existing entry.
func (r *usersRepo) Save(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, last_login_at,
		                   lockout_expires_at, failed_attempts, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			password_hash = excluded.password_hash,
			last_login_at = excluded.last_login_at,
			lockout_expires_at = excluded.lockout_expires_at,
			failed_attempts = excluded.failed_attempts,
			updated_at = excluded.updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash,
		nullTime(u.LastLoginAt), nullTime(u.LockoutExpiresAt),
		u.FailedAttempts, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for i := range u.RefreshTokens {
		t := &u.RefreshTokens[i]
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO refresh_tokens (token, user_id, issued_at, expires_at, revoked_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(token) DO UPDATE SET revoked_at = excluded.revoked_at`,
			t.Token, u.ID, t.IssuedAt, t.ExpiresAt, nullTime(t.RevokedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// hydrate maps the user row and loads its refresh-token ledger in insertion
// order.
func (r *usersRepo) hydrate(ctx context.Context, row *sql.Row) (domain.User, error) {
	var (
		u                         domain.User
		lastLogin, lockoutExpires sql.NullTime
	)

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&lastLogin, &lockoutExpires, &u.FailedAttempts,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.LastLoginAt = timePtr(lastLogin)
	u.LockoutExpiresAt = timePtr(lockoutExpires)

	rows, err := r.db.QueryContext(ctx, `
		SELECT token, issued_at, expires_at, revoked_at
		FROM refresh_tokens
		WHERE user_id = ?
		ORDER BY rowid`, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t       domain.RefreshToken
			revoked sql.NullTime
		)
		if err := rows.Scan(&t.Token, &t.IssuedAt, &t.ExpiresAt, &revoked); err != nil {
			return domain.User{}, err
		}
		t.RevokedAt = timePtr(revoked)
		u.RefreshTokens = append(u.RefreshTokens, t)
	}
	if err := rows.Err(); err != nil {
		return domain.User{}, err
	}

	return u, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
