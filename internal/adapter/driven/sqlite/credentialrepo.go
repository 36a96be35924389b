package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ericfisherdev/passman/internal/domain/model"
	"github.com/ericfisherdev/passman/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

const selectCredentialColumns = `SELECT id, service, login, password FROM password`

// CredentialRepo is the SQLite implementation of the CredentialStore port interface.
// Passwords are stored as plaintext.
type CredentialRepo struct {
	db *DB
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(db *DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// EnsureSchema applies the embedded migrations, creating the password table
// when it is absent.
func (r *CredentialRepo) EnsureSchema(_ context.Context) error {
	if err := applyMigrations(r.db.Conn.DB); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Insert appends a credential and returns its engine-assigned id.
func (r *CredentialRepo) Insert(ctx context.Context, c model.Credential) (int64, error) {
	return insertCredential(ctx, r.db.Conn, c)
}

// FindByID returns the credential with the given id, or (nil, nil) if absent.
func (r *CredentialRepo) FindByID(ctx context.Context, id int64) (*model.Credential, error) {
	const query = selectCredentialColumns + ` WHERE id = ?`

	var cred model.Credential
	err := sqlx.GetContext(ctx, r.db.Conn, &cred, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential %d: %w", id, err)
	}
	return &cred, nil
}

// FindAll returns every credential ordered by id.
func (r *CredentialRepo) FindAll(ctx context.Context) ([]model.Credential, error) {
	return selectAllCredentials(ctx, r.db.Conn)
}

// DeleteAll removes every credential.
func (r *CredentialRepo) DeleteAll(ctx context.Context) error {
	return deleteAllCredentials(ctx, r.db.Conn)
}

// DeleteByID removes the credential with the given id.
func (r *CredentialRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM password WHERE id = ?`

	res, err := r.db.Conn.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete credential %d: %w", id, err)
	}
	return rowsAffected(res, id)
}

// UpdateByID replaces every field of the credential identified by c.ID.
func (r *CredentialRepo) UpdateByID(ctx context.Context, c model.Credential) (bool, error) {
	const query = `UPDATE password SET service = ?, login = ?, password = ? WHERE id = ?`

	res, err := r.db.Conn.ExecContext(ctx, query, c.Service, c.Login, c.Password, c.ID)
	if err != nil {
		return false, fmt.Errorf("update credential %d: %w", c.ID, err)
	}
	return rowsAffected(res, c.ID)
}

// RewriteWithout deletes every row and reinserts all rows except id, inside a
// single transaction. Reinserted rows get fresh ids from the AUTOINCREMENT
// counter. Any failure rolls the whole rewrite back.
func (r *CredentialRepo) RewriteWithout(ctx context.Context, id int64) (*model.Credential, error) {
	var removed *model.Credential

	err := withTx(ctx, r.db.Conn, func(tx *sqlx.Tx) error {
		creds, err := selectAllCredentials(ctx, tx)
		if err != nil {
			return err
		}

		retained := make([]model.Credential, 0, len(creds))
		for _, c := range creds {
			if c.ID == id {
				removed = &c
				continue
			}
			retained = append(retained, c)
		}

		if err := deleteAllCredentials(ctx, tx); err != nil {
			return err
		}

		for _, c := range retained {
			if _, err := insertCredential(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rewrite credentials: %w", err)
	}

	return removed, nil
}

func insertCredential(ctx context.Context, q sqlx.ExecerContext, c model.Credential) (int64, error) {
	const query = `INSERT INTO password (service, login, password) VALUES (?, ?, ?)`

	res, err := q.ExecContext(ctx, query, c.Service, c.Login, c.Password)
	if err != nil {
		return 0, fmt.Errorf("insert credential %q: %w", c.Service, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get inserted credential id: %w", err)
	}
	return id, nil
}

func selectAllCredentials(ctx context.Context, q sqlx.QueryerContext) ([]model.Credential, error) {
	const query = selectCredentialColumns + ` ORDER BY id`

	var creds []model.Credential
	if err := sqlx.SelectContext(ctx, q, &creds, query); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return creds, nil
}

func deleteAllCredentials(ctx context.Context, q sqlx.ExecerContext) error {
	const query = `DELETE FROM password`

	if _, err := q.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("delete all credentials: %w", err)
	}
	return nil
}

func rowsAffected(res sql.Result, id int64) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for credential %d: %w", id, err)
	}
	return n > 0, nil
}
