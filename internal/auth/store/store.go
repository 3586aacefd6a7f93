package store

import (
	"context"
	"errors"

	"github.com/vantagehq/vantage-auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface consumed by the services. The
// sqlite driver implements it; tests use it with an in-memory database.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST Commit or Rollback the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing if fn returns
	// nil and rolling back otherwise. Use it for the single-commit
	// discipline: mutate the aggregate in memory, then save once.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repositories plus
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users loads and saves the User aggregate. Lookups hydrate the whole
// aggregate including the refresh-token ledger; Save upserts the whole
// aggregate back in one shot.
type Users interface {
	// GetByEmail returns the user owning the given email address.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByRefreshToken returns the user whose ledger contains the given
	// opaque refresh-token value.
	GetByRefreshToken(ctx context.Context, token string) (domain.User, error)

	// Create inserts a new user; ErrAlreadyExists if the email is taken.
	Create(ctx context.Context, u domain.User) error

	// Save upserts the whole aggregate: the user row and every ledger
	// entry. Idempotent, so retrying a failed commit is safe.
	Save(ctx context.Context, u domain.User) error
}
