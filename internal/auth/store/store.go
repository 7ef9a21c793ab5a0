package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// UniqueViolation reports which unique column a write collided with. It
// matches ErrAlreadyExists under errors.Is.
type UniqueViolation struct {
	Field string // e.g. "username", "email", "client_id"
}

func (e *UniqueViolation) Error() string { return "store: " + e.Field + " already exists" }

func (e *UniqueViolation) Is(target error) bool { return target == ErrAlreadyExists }

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and so a
// transaction can never be opened from inside another one.
type Store interface {
	Users() Users
	Clients() Clients
	AuthorizationCodes() AuthorizationCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the caller). A clash on
	// username or email returns a *UniqueViolation.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByLogin matches login against username first, then email.
	GetUserByLogin(ctx context.Context, login string) (domain.User, error)
}

type Clients interface {
	// GetClientByClientID fetches a client by its public client_id.
	GetClientByClientID(ctx context.Context, clientID string) (domain.Client, error)

	// UpsertClient inserts c or, when client_id already exists, replaces its
	// mutable fields. The row id and created_at of an existing client are kept.
	UpsertClient(ctx context.Context, c domain.Client) error

	// ListClients returns all clients ordered by client_id.
	ListClients(ctx context.Context) ([]domain.Client, error)
}

type AuthorizationCodes interface {
	// CreateAuthorizationCode stores a freshly minted authorization code.
	CreateAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error

	// GetAuthorizationCodeByHash fetches a code by its fingerprint, consumed
	// or not.
	GetAuthorizationCodeByHash(ctx context.Context, hash string) (domain.AuthorizationCode, error)

	// ConsumeAuthorizationCode marks the code used iff it is still unused.
	// It returns ErrNotFound when no unused code matched, which is how the
	// loser of a redemption race finds out.
	ConsumeAuthorizationCode(ctx context.Context, hash string, at time.Time) error

	// GetConsumedCodeByAccessToken resolves an access token issued by a
	// redeemed code.
	GetConsumedCodeByAccessToken(ctx context.Context, accessToken string) (domain.AuthorizationCode, error)

	// DeleteExpiredAuthorizationCodes removes codes past expiry that were
	// never redeemed, returning how many went.
	DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) (int64, error)
}
