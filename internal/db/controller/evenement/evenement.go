// Package evenement manages club events, their expense lines and revenues.
package evenement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/mandat"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const what = "evenement"

// Sortable are the orderBy values of the event list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"date":  "date",
	"titre": "title",
	"lieu":  "place",
}

// Input is the writable part of an event.
type Input struct {
	MandatID    *uuid.UUID `json:"mandatId"`
	Title       string     `json:"titre"       validate:"required,max=200"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"        validate:"required"`
	Place       string     `json:"lieu"        validate:"max=255"`
	Version     int        `json:"version"`
}

func (in *Input) check(db *gorm.DB, clubID uuid.UUID) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperr.ValidationFields(map[string]string{"titre": "required"})
	}

	if in.MandatID != nil {
		if _, err := mandat.Get(db, clubID, *in.MandatID); err != nil {
			return err
		}
	}

	return nil
}

// List returns a page of the events of a club.
func List(db *gorm.DB, clubID uuid.UUID, opts query.Options) ([]models.Evenement, int64, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, 0, err
	}

	events := []models.Evenement{}

	tx := opts.Match(db.Model(&models.Evenement{}).Scopes(crud.InClub(clubID)), "title", "place", "description")

	total, err := query.Find(tx, opts, &events)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list events")
	}

	return events, total, nil
}

// Get returns an event of a club.
func Get(db *gorm.DB, clubID, id uuid.UUID) (*models.Evenement, error) {
	return crud.Get[models.Evenement](db, what, id, crud.InClub(clubID))
}

// Create adds an event.
func Create(db *gorm.DB, clubID uuid.UUID, in Input) (*models.Evenement, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	if err := in.check(db, clubID); err != nil {
		return nil, err
	}

	e := &models.Evenement{
		ClubID:      clubID,
		MandatID:    in.MandatID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Place:       in.Place,
		Version:     1,
	}
	if err := db.Create(e).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return e, nil
}

// Update replaces an event if in.Version is current.
func Update(db *gorm.DB, clubID, id uuid.UUID, in Input) (*models.Evenement, error) {
	if _, err := Get(db, clubID, id); err != nil {
		return nil, err
	}

	if err := in.check(db, clubID); err != nil {
		return nil, err
	}

	err := crud.UpdateVersioned(db, &models.Evenement{}, what, id, in.Version, map[string]any{
		"mandat_id":   in.MandatID,
		"title":       in.Title,
		"description": in.Description,
		"date":        in.Date,
		"place":       in.Place,
	})
	if err != nil {
		return nil, err
	}

	return Get(db, clubID, id)
}

// Delete removes an event with its lines and revenues.
func Delete(db *gorm.DB, clubID, id uuid.UUID) error {
	if _, err := Get(db, clubID, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&models.EvenementBudget{}, &models.EvenementRecette{}} {
			if err := tx.Where("evenement_id = ?", id).Delete(child).Error; err != nil {
				return apperr.FromDB(err, what)
			}
		}

		return crud.Delete(tx, &models.Evenement{}, what, id)
	})
}
