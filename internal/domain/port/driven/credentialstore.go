package driven

import (
	"context"

	"github.com/ericfisherdev/passman/internal/domain/model"
)

// CredentialStore defines the driven port for credential persistence.
// Absent rows are reported as nil values, never as errors; any returned error
// is a storage failure.
type CredentialStore interface {
	// EnsureSchema creates the backing table if it does not exist. Idempotent.
	EnsureSchema(ctx context.Context) error

	// Insert appends a credential and returns the id assigned by the engine.
	// The ID field of c is ignored.
	Insert(ctx context.Context, c model.Credential) (int64, error)

	// FindByID returns the credential with the given id, or (nil, nil) if no
	// row matches.
	FindByID(ctx context.Context, id int64) (*model.Credential, error)

	// FindAll returns every credential in ascending id order. The result has
	// no elements when the table is empty.
	FindAll(ctx context.Context) ([]model.Credential, error)

	// DeleteAll removes every row unconditionally.
	DeleteAll(ctx context.Context) error

	// DeleteByID removes a single row and reports whether it existed. Ids of
	// other rows are untouched.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// UpdateByID replaces service, login and password of the row with c.ID and
	// reports whether it existed.
	UpdateByID(ctx context.Context, c model.Credential) (bool, error)

	// RewriteWithout removes the row with the given id by deleting every row
	// and reinserting the rest in one transaction. Retained rows receive new
	// ids. Returns the removed credential, or nil if no row matched.
	RewriteWithout(ctx context.Context, id int64) (*model.Credential, error)
}
