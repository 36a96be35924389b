package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passman/internal/domain/model"
)

func insertAll(t *testing.T, repo *CredentialRepo, creds ...model.Credential) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(creds))
	for _, c := range creds {
		id, err := repo.Insert(context.Background(), c)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestCredentialRepo_EnsureSchemaIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	insertAll(t, repo, model.Credential{Service: "github", Login: "alice", Password: "p1"})

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	creds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, model.Credential{ID: 1, Service: "github", Login: "alice", Password: "p1"}, creds[0])
}

func TestCredentialRepo_EnsureSchemaClosedDB(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	require.NoError(t, db.Close())

	err := repo.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure schema")
}

func TestCredentialRepo_EnsureSchemaDirtyVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	_, err := db.Conn.ExecContext(ctx, `UPDATE `+migrationsTable+` SET dirty = 1`)
	require.NoError(t, err)

	err = repo.EnsureSchema(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version 1 was left half-applied")
}

func TestCredentialRepo_InsertAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	want := model.Credential{Service: "github", Login: "alice", Password: "s3cr3t"}
	id, err := repo.Insert(ctx, want)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, want.Service, got.Service)
	assert.Equal(t, want.Login, got.Login)
	assert.Equal(t, want.Password, got.Password)
}

func TestCredentialRepo_InsertAcceptsEmptyStrings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, model.Credential{})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "", got.Password)
}

func TestCredentialRepo_InsertIDsStrictlyIncrease(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	ids := insertAll(t, repo,
		model.Credential{Service: "a", Login: "u", Password: "1"},
		model.Credential{Service: "b", Login: "u", Password: "2"},
		model.Credential{Service: "c", Login: "u", Password: "3"},
	)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	// Deleting the highest id must not let the next insert reuse it.
	ok, err := repo.DeleteByID(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)

	next, err := repo.Insert(ctx, model.Credential{Service: "d", Login: "u", Password: "4"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)
}

func TestCredentialRepo_EmptyStore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	creds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, creds)

	got, err := repo.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCredentialRepo_FindAllOrderedByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	insertAll(t, repo,
		model.Credential{Service: "zeta", Login: "u", Password: "1"},
		model.Credential{Service: "alpha", Login: "u", Password: "2"},
	)

	creds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, int64(1), creds[0].ID)
	assert.Equal(t, "zeta", creds[0].Service)
	assert.Equal(t, int64(2), creds[1].ID)
	assert.Equal(t, "alpha", creds[1].Service)
}

func TestCredentialRepo_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	insertAll(t, repo,
		model.Credential{Service: "a", Login: "u", Password: "1"},
		model.Credential{Service: "b", Login: "u", Password: "2"},
	)

	require.NoError(t, repo.DeleteAll(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	creds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, creds)

	// The AUTOINCREMENT counter survives a full delete.
	id, err := repo.Insert(ctx, model.Credential{Service: "c", Login: "u", Password: "3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestCredentialRepo_DeleteByIDPreservesOtherIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	insertAll(t, repo,
		model.Credential{Service: "a", Login: "u", Password: "1"},
		model.Credential{Service: "b", Login: "u", Password: "2"},
		model.Credential{Service: "c", Login: "u", Password: "3"},
	)

	ok, err := repo.DeleteByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	creds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, model.Credential{ID: 1, Service: "a", Login: "u", Password: "1"}, creds[0])
	assert.Equal(t, model.Credential{ID: 3, Service: "c", Login: "u", Password: "3"}, creds[1])
}

func TestCredentialRepo_DeleteByIDMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)

	ok, err := repo.DeleteByID(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialRepo_UpdateByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	ids := insertAll(t, repo, model.Credential{Service: "github", Login: "alice", Password: "old"})

	ok, err := repo.UpdateByID(ctx, model.Credential{ID: ids[0], Service: "github", Login: "alice2", Password: "new"})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.Credential{ID: ids[0], Service: "github", Login: "alice2", Password: "new"}, *got)

	ok, err = repo.UpdateByID(ctx, model.Credential{ID: 99, Service: "x", Login: "y", Password: "z"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialRepo_RewriteWithoutRenumbers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	insertAll(t, repo,
		model.Credential{Service: "a", Login: "u1", Password: "1"},
		model.Credential{Service: "b", Login: "u2", Password: "2"},
		model.Credential{Service: "c", Login: "u3", Password: "3"},
	)

	removed, err := repo.RewriteWithout(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, model.Credential{ID: 2, Service: "b", Login: "u2", Password: "2"}, *removed)

	creds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, model.Credential{ID: 4, Service: "a", Login: "u1", Password: "1"}, creds[0])
	assert.Equal(t, model.Credential{ID: 5, Service: "c", Login: "u3", Password: "3"}, creds[1])
}

func TestCredentialRepo_RewriteWithoutNoMatchStillRewrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	insertAll(t, repo,
		model.Credential{Service: "a", Login: "u", Password: "1"},
		model.Credential{Service: "b", Login: "u", Password: "2"},
	)

	removed, err := repo.RewriteWithout(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, removed)

	creds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, int64(3), creds[0].ID)
	assert.Equal(t, "a", creds[0].Service)
	assert.Equal(t, int64(4), creds[1].ID)
	assert.Equal(t, "b", creds[1].Service)
}

func TestCredentialRepo_RewriteScenario(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	ids := insertAll(t, repo,
		model.Credential{Service: "github", Login: "alice", Password: "p1"},
		model.Credential{Service: "gmail", Login: "alice", Password: "p2"},
	)
	require.Equal(t, []int64{1, 2}, ids)

	removed, err := repo.RewriteWithout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "github", removed.Service)

	creds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "gmail", creds[0].Service)
	assert.Equal(t, int64(3), creds[0].ID)

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// newMockRepo wires a CredentialRepo to go-sqlmock for failure injection.
func newMockRepo(t *testing.T) (*CredentialRepo, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db := &DB{Conn: sqlx.NewDb(conn, "sqlmock")}
	return NewCredentialRepo(db), mock
}

func TestCredentialRepo_RewriteWithoutRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "service", "login", "password"}).
		AddRow(1, "github", "alice", "p1").
		AddRow(2, "gmail", "alice", "p2").
		AddRow(3, "slack", "alice", "p3")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, service, login, password FROM password ORDER BY id`)).
		WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM password`)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO password (service, login, password) VALUES (?, ?, ?)`)).
		WithArgs("gmail", "alice", "p2").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO password (service, login, password) VALUES (?, ?, ?)`)).
		WithArgs("slack", "alice", "p3").
		WillReturnError(errors.New("database or disk is full"))
	mock.ExpectRollback()

	removed, err := repo.RewriteWithout(ctx, 1)
	require.Error(t, err)
	assert.Nil(t, removed)
	assert.Contains(t, err.Error(), "rewrite credentials")
	assert.Contains(t, err.Error(), "database or disk is full")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepo_RewriteWithoutCommitFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, service, login, password FROM password ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service", "login", "password"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM password`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	_, err := repo.RewriteWithout(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit transaction")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepo_FindByIDQueryFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, service, login, password FROM password WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnError(errors.New("disk I/O error"))

	got, err := repo.FindByID(context.Background(), 5)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "get credential 5")

	require.NoError(t, mock.ExpectationsWereMet())
}
