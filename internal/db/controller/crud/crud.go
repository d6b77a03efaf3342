// Package crud holds the lookups and the versioned update shared by the controllers.
package crud

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

const (
	idQueryPattern      = "id = ?"
	versionQueryPattern = "id = ? AND version = ?"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = apperr.Internal(errors.New("database connection is nil"), "database connection is nil")

// Get loads the row with id, optionally narrowed by extra conditions.
// A missing row is a NotFound naming what.
func Get[T any](db *gorm.DB, what string, id uuid.UUID, scope ...func(*gorm.DB) *gorm.DB) (*T, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row T
	if err := db.Scopes(scope...).Where(idQueryPattern, id).First(&row).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return &row, nil
}

// Exists returns NotFound unless a row of model matches the conditions.
func Exists(db *gorm.DB, model any, what string, query string, args ...any) error {
	found, err := Any(db, model, query, args...)
	if err != nil {
		return err
	}

	if !found {
		return apperr.NotFound(what)
	}

	return nil
}

// Any reports whether a row of model matches the conditions.
func Any(db *gorm.DB, model any, query string, args ...any) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var n int64
	if err := db.Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, apperr.Internal(err, "existence check failed")
	}

	return n > 0, nil
}

// InClub scopes a query to the rows of a club.
func InClub(clubID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("club_id = ?", clubID)
	}
}

// UpdateVersioned writes values to the row with id if its version still equals version and bumps
// the version. A row that vanished is NotFound, a row that changed meanwhile is Conflict.
func UpdateVersioned(db *gorm.DB, model any, what string, id uuid.UUID, version int, values map[string]any) error {
	if db == nil {
		return ErrDBNil
	}

	values["version"] = gorm.Expr("version + 1")

	res := db.Model(model).Where(versionQueryPattern, id, version).Updates(values)
	if res.Error != nil {
		return apperr.FromDB(res.Error, what)
	}

	if res.RowsAffected > 0 {
		return nil
	}

	found, err := Any(db, model, idQueryPattern, id)
	if err != nil {
		return err
	}

	if !found {
		return apperr.NotFound(what)
	}

	return apperr.Conflict(what + " was modified concurrently")
}

// Delete removes the row with id matching the scope. Nothing deleted is NotFound.
func Delete(db *gorm.DB, model any, what string, id uuid.UUID, scope ...func(*gorm.DB) *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.Scopes(scope...).Where(idQueryPattern, id).Delete(model)
	if res.Error != nil {
		return apperr.FromDB(res.Error, what)
	}

	if res.RowsAffected == 0 {
		return apperr.NotFound(what)
	}

	return nil
}
