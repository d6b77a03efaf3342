// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/db"
)

// Open returns a migrated private in-memory SQLite database.
// A single connection keeps every statement on the same memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenDialector(sqlite.Open(":memory:"), 0)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))

	return gdb
}
