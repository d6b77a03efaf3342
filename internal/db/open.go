// Package db opens the gorm connection for the configured engine.
package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dsn"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/logger/adapter/gormlog"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Dialector returns the gorm dialector of cfg.DB.GormEngine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gormmysql.Open(dsn.Create(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Create(cfg)), nil
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg)), nil
	default:
		return nil, config.ErrUnknownEngine
	}
}

// Open connects to the configured database.
// Driver errors are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	return OpenDialector(dialector, time.Duration(cfg.Log.SlowQueryThresholdMS)*time.Millisecond)
}

// OpenDialector opens d with the zerolog gorm logger.
func OpenDialector(d gorm.Dialector, slowQuery time.Duration) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger:         gormlog.New(slowQuery),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	return errors.Wrap(db.AutoMigrate(models.All()...), "failed to migrate database")
}
