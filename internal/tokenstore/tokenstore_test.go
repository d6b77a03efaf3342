package tokenstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/db"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
)

var sqliteConfig = &config.Config{DB: config.DB{GormEngine: config.EngineSQLite}} //nolint:gochecknoglobals

func openFile(t *testing.T, path string) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenDialector(sqlite.Open(path), 0)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}

func TestRevoke(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	storage, err := NewGorm(dbtest.Open(t))
	require.NoError(t, err)

	storage.now = clock

	store, err := New(storage)
	require.NoError(t, err)

	store.now = clock

	require.NoError(t, store.Revoke("a", now.Add(time.Hour)))
	require.NoError(t, store.Revoke("past", now.Add(-time.Hour)))

	revoked, err := store.IsRevoked("a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked("past")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsRevoked("unknown")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)

	revoked, err = store.IsRevoked("a")
	require.NoError(t, err)
	assert.False(t, revoked, "entries expire with the token")
}

func TestRevocationSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubadmin.db")

	storage, err := Open(sqliteConfig, openFile(t, path))
	require.NoError(t, err)

	store, err := New(storage)
	require.NoError(t, err)
	require.NoError(t, store.Revoke("jti-1", time.Now().Add(time.Hour)))
	require.NoError(t, store.Close())

	storage, err = Open(sqliteConfig, openFile(t, path))
	require.NoError(t, err)

	store, err = New(storage)
	require.NoError(t, err)

	revoked, err := store.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestNewNil(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrStorageNil)

	_, err = NewGorm(nil)
	require.ErrorIs(t, err, ErrStorageNil)
}

func TestGormStorage(t *testing.T) {
	s, err := NewGorm(dbtest.Open(t))
	require.NoError(t, err)

	require.NoError(t, s.Set("k", []byte("v"), 0))
	require.NoError(t, s.Set("k", []byte("w"), 0))

	val, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("w"), val)

	require.NoError(t, s.Delete("k"))

	val, err = s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("x", []byte("1"), time.Minute))
	require.NoError(t, s.Reset())

	val, err = s.Get("x")
	require.NoError(t, err)
	assert.Nil(t, val)
	require.NoError(t, s.Close())
}

func TestOpenSQLiteUsesDatabase(t *testing.T) {
	s, err := Open(sqliteConfig, dbtest.Open(t))
	require.NoError(t, err)
	assert.IsType(t, &Gorm{}, s)
}
