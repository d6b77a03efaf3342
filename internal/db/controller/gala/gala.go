// Package gala manages galas: tables, invites, seating and ticket sales.
package gala

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const what = "gala"

// Sortable are the orderBy values of the gala list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"date":  "date",
	"titre": "title",
}

// Input is the writable part of a gala.
type Input struct {
	Title       string          `json:"titre"      validate:"required,max=200"`
	Date        time.Time       `json:"date"       validate:"required"`
	Place       string          `json:"lieu"       validate:"max=255"`
	TicketPrice decimal.Decimal `json:"prixTicket"`
}

func (in *Input) check() error {
	in.Title = strings.TrimSpace(in.Title)

	fields := map[string]string{}
	if in.Title == "" {
		fields["titre"] = "required"
	}

	if in.TicketPrice.IsNegative() {
		fields["prixTicket"] = "must not be negative"
	}

	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}

	return nil
}

func ofGala(id uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("gala_id = ?", id)
	}
}

// List returns a page of the galas of a club.
func List(db *gorm.DB, clubID uuid.UUID, opts query.Options) ([]models.Gala, int64, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, 0, err
	}

	galas := []models.Gala{}

	total, err := query.Find(opts.Match(db.Model(&models.Gala{}).Scopes(crud.InClub(clubID)), "title", "place"), opts, &galas)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list galas")
	}

	return galas, total, nil
}

// Get returns a gala of a club.
func Get(db *gorm.DB, clubID, id uuid.UUID) (*models.Gala, error) {
	return crud.Get[models.Gala](db, what, id, crud.InClub(clubID))
}

// Create adds a gala.
func Create(db *gorm.DB, clubID uuid.UUID, in Input) (*models.Gala, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	g := &models.Gala{ClubID: clubID, Title: in.Title, Date: in.Date, Place: in.Place, TicketPrice: in.TicketPrice}
	if err := db.Create(g).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return g, nil
}

// Update replaces a gala.
func Update(db *gorm.DB, clubID, id uuid.UUID, in Input) (*models.Gala, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	g, err := Get(db, clubID, id)
	if err != nil {
		return nil, err
	}

	g.Title = in.Title
	g.Date = in.Date
	g.Place = in.Place
	g.TicketPrice = in.TicketPrice

	if err = db.Save(g).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return g, nil
}

// Delete removes a gala with its tables, invites, seating and tickets.
func Delete(db *gorm.DB, clubID, id uuid.UUID) error {
	if _, err := Get(db, clubID, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("gala_table_id IN (?)", tx.Model(&models.GalaTable{}).Select("id").Scopes(ofGala(id))).
			Delete(&models.GalaTableAffectation{}).Error
		if err != nil {
			return apperr.FromDB(err, what)
		}

		for _, child := range []any{&models.GalaTable{}, &models.GalaInvite{}, &models.GalaTicket{}} {
			if err = tx.Scopes(ofGala(id)).Delete(child).Error; err != nil {
				return apperr.FromDB(err, what)
			}
		}

		return crud.Delete(tx, &models.Gala{}, what, id)
	})
}
