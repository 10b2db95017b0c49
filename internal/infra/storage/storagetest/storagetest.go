// Package storagetest opens a migrated in-memory SQLite database for repository tests.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/infra/storage/migrations"
	"github.com/m04kA/salon-booking/pkg/sqlbuilder"
)

// NewSQLite returns a fresh database with the full schema applied
func NewSQLite(t *testing.T) (*sql.DB, sqlbuilder.Builder) {
	t.Helper()

	db, err := sql.Open(sqlbuilder.DriverSQLite, ":memory:")
	require.NoError(t, err)
	// каждое новое соединение к :memory: видит свою пустую базу
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(context.Background(), db, sqlbuilder.DriverSQLite))

	return db, sqlbuilder.New(sqlbuilder.DriverSQLite)
}
