// Package tokenstore keeps revoked token ids in a fiber storage until the tokens expire.
package tokenstore

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	storagemysql "github.com/gofiber/storage/mysql/v2"
	storagepostgres "github.com/gofiber/storage/postgres/v3"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dsn"
)

const (
	table     = "revoked_tokens"
	keyPrefix = "jti:"
)

// ErrStorageNil is returned by New for a nil storage.
var ErrStorageNil = errors.New("token storage is nil")

// Store records revoked token ids.
type Store struct {
	storage fiber.Storage
	now     func() time.Time
}

// New wraps storage.
func New(storage fiber.Storage) (*Store, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	return &Store{storage: storage, now: time.Now}, nil
}

// Open returns the storage matching the database engine. MySQL and PostgreSQL use the
// gofiber/storage backends, SQLite a table of db. Both survive restarts.
func Open(cfg *config.Config, db *gorm.DB) (fiber.Storage, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return storagemysql.New(storagemysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         table,
			GCInterval:    10 * time.Minute, //nolint:mnd
		}), nil
	case config.EnginePostgres:
		return storagepostgres.New(storagepostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         table,
			GCInterval:    10 * time.Minute, //nolint:mnd
		}), nil
	default:
		return NewGorm(db)
	}
}

// Revoke marks tokenID as revoked until the given time. Past times are ignored.
func (s *Store) Revoke(tokenID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	return s.storage.Set(keyPrefix+tokenID, []byte{1}, ttl) //nolint:wrapcheck
}

// IsRevoked reports whether tokenID was revoked.
func (s *Store) IsRevoked(tokenID string) (bool, error) {
	val, err := s.storage.Get(keyPrefix + tokenID)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return len(val) > 0, nil
}

// Close closes the underlying storage.
func (s *Store) Close() error {
	return s.storage.Close() //nolint:wrapcheck
}
