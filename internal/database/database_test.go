package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestWithTx_Commit(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE videos").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewTransactor(db).WithTx(context.Background(), func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE videos SET likes_count = 0")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewTransactor(db).WithTx(context.Background(), func(tx *sqlx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = NewTransactor(db).WithTx(context.Background(), func(tx *sqlx.Tx) error {
			panic("unexpected")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err := NewTransactor(db).WithTx(context.Background(), func(tx *sqlx.Tx) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.False(t, called, "fn must not run without a transaction")
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := NewTransactor(db).WithTx(context.Background(), func(tx *sqlx.Tx) error {
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit transaction")
}

func TestMigrate_UsesEmbeddedMigrations(t *testing.T) {
	db, _ := newMockDB(t)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var called bool
	gooseUp = func(ctx context.Context, got *sqlx.DB) error {
		called = true
		assert.Same(t, db, got)
		return nil
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.True(t, called)

	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestMigrate_WrapsError(t *testing.T) {
	db, _ := newMockDB(t)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(ctx context.Context, got *sqlx.DB) error {
		return errors.New("relation exists")
	}

	err := Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run migrations")
}
