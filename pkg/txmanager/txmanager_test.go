package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE items (name TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestManager_Commit(t *testing.T) {
	db := openDB(t)
	m := New(db, false)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, IsInTransaction(ctx))
		_, err := GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db))
}

func TestManager_RollbackOnError(t *testing.T) {
	db := openDB(t)
	m := New(db, false)
	errBoom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		if _, err := GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`); err != nil {
			return err
		}
		return errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, count(t, db))
}

func TestManager_Nested(t *testing.T) {
	db := openDB(t)
	m := New(db, false)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(inner context.Context) error {
			_, err := GetExecutor(inner, db).ExecContext(inner, `INSERT INTO items (name) VALUES ('b')`)
			return err
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db))
}

func TestGetExecutor_WithoutTransaction(t *testing.T) {
	db := openDB(t)
	assert.False(t, IsInTransaction(context.Background()))
	assert.Equal(t, DBExecutor(db), GetExecutor(context.Background(), db))
}
