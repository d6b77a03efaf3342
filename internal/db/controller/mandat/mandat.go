// Package mandat manages the terms of a club, their committees and committee seats.
package mandat

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const what = "mandat"

// Sortable are the orderBy values of the mandat list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"annee":       "year",
	"description": "description",
}

// Input is the writable part of a mandat.
type Input struct {
	Year        int    `json:"annee"       validate:"required,min=1900,max=2200"`
	Description string `json:"description" validate:"max=255"`
	Version     int    `json:"version"`
}

// List returns a page of the mandats of a club.
func List(db *gorm.DB, clubID uuid.UUID, opts query.Options) ([]models.Mandat, int64, error) {
	if db == nil {
		return nil, 0, crud.ErrDBNil
	}

	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, 0, err
	}

	mandats := []models.Mandat{}

	tx := opts.Match(db.Model(&models.Mandat{}).Scopes(crud.InClub(clubID)), "description")

	total, err := query.Find(tx, opts, &mandats)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list mandats")
	}

	return mandats, total, nil
}

// Get returns a mandat of a club.
func Get(db *gorm.DB, clubID, id uuid.UUID) (*models.Mandat, error) {
	return crud.Get[models.Mandat](db, what, id, crud.InClub(clubID))
}

// Create adds a mandat. The year is unique within the club.
func Create(db *gorm.DB, clubID uuid.UUID, in Input) (*models.Mandat, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	if err := uniqueYear(db, clubID, in.Year, uuid.Nil); err != nil {
		return nil, err
	}

	m := &models.Mandat{ClubID: clubID, Year: in.Year, Description: strings.TrimSpace(in.Description), Version: 1}
	if err := db.Create(m).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return m, nil
}

// Update changes a mandat if in.Version is current.
func Update(db *gorm.DB, clubID, id uuid.UUID, in Input) (*models.Mandat, error) {
	if _, err := Get(db, clubID, id); err != nil {
		return nil, err
	}

	if err := uniqueYear(db, clubID, in.Year, id); err != nil {
		return nil, err
	}

	err := crud.UpdateVersioned(db, &models.Mandat{}, what, id, in.Version, map[string]any{
		"year":        in.Year,
		"description": strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, err
	}

	return Get(db, clubID, id)
}

// Delete removes a mandat without committees or budget lines.
func Delete(db *gorm.DB, clubID, id uuid.UUID) error {
	if _, err := Get(db, clubID, id); err != nil {
		return err
	}

	for _, child := range []struct {
		model any
		name  string
	}{
		{&models.Comite{}, "committees"},
		{&models.RubriqueBudget{}, "budget lines"},
	} {
		found, err := crud.Any(db, child.model, "mandat_id = ?", id)
		if err != nil {
			return err
		}

		if found {
			return apperr.Validation("mandat still has %s", child.name)
		}
	}

	return crud.Delete(db, &models.Mandat{}, what, id)
}

func uniqueYear(db *gorm.DB, clubID uuid.UUID, year int, except uuid.UUID) error {
	taken, err := crud.Any(db, &models.Mandat{}, "club_id = ? AND year = ? AND id <> ?", clubID, year, except)
	if err != nil {
		return err
	}

	if taken {
		return apperr.Validation("a mandat for %d already exists", year)
	}

	return nil
}
