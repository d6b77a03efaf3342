package mandat

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/member"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

// ComiteInput is the writable part of a committee.
type ComiteInput struct {
	Name        string `json:"nom"         validate:"required,max=150"`
	Description string `json:"description" validate:"max=255"`
}

// SeatInput seats a club member in a committee.
type SeatInput struct {
	ComiteID uuid.UUID `json:"comiteId" validate:"required"`
	UserID   uuid.UUID `json:"userId"   validate:"required"`
	Fonction string    `json:"fonction" validate:"max=100"`
}

// Seat is a committee seat with the names resolved.
type Seat struct {
	ID         uuid.UUID `json:"id"`
	ComiteID   uuid.UUID `json:"comiteId"`
	ComiteName string    `json:"comite"`
	UserID     uuid.UUID `json:"userId"`
	FirstName  string    `json:"prenom"`
	LastName   string    `json:"nom"`
	Fonction   string    `json:"fonction"`
}

// Comites lists the committees of a mandat by name.
func Comites(db *gorm.DB, clubID, mandatID uuid.UUID) ([]models.Comite, error) {
	if _, err := Get(db, clubID, mandatID); err != nil {
		return nil, err
	}

	comites := []models.Comite{}
	if err := db.Where("mandat_id = ?", mandatID).Order("name").Find(&comites).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list committees")
	}

	return comites, nil
}

// CreateComite adds a committee. Names are unique within the mandat.
func CreateComite(db *gorm.DB, clubID, mandatID uuid.UUID, in ComiteInput) (*models.Comite, error) {
	if _, err := Get(db, clubID, mandatID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := uniqueComite(db, mandatID, name, uuid.Nil); err != nil {
		return nil, err
	}

	c := &models.Comite{MandatID: mandatID, Name: name, Description: in.Description}
	if err := db.Create(c).Error; err != nil {
		return nil, apperr.FromDB(err, "committee")
	}

	return c, nil
}

// UpdateComite renames a committee.
func UpdateComite(db *gorm.DB, clubID, mandatID, id uuid.UUID, in ComiteInput) (*models.Comite, error) {
	c, err := comite(db, clubID, mandatID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err = uniqueComite(db, mandatID, name, id); err != nil {
		return nil, err
	}

	c.Name = name
	c.Description = in.Description

	if err = db.Save(c).Error; err != nil {
		return nil, apperr.FromDB(err, "committee")
	}

	return c, nil
}

// DeleteComite removes a committee and its seats.
func DeleteComite(db *gorm.DB, clubID, mandatID, id uuid.UUID) error {
	if _, err := comite(db, clubID, mandatID, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comite_id = ?", id).Delete(&models.ComiteMembre{}).Error; err != nil {
			return apperr.FromDB(err, "committee seat")
		}

		return crud.Delete(tx, &models.Comite{}, "committee", id)
	})
}

// Seats lists the committee seats of a mandat.
func Seats(db *gorm.DB, clubID, mandatID uuid.UUID) ([]Seat, error) {
	if _, err := Get(db, clubID, mandatID); err != nil {
		return nil, err
	}

	seats := []Seat{}

	err := db.Table("comite_membres").
		Select("comite_membres.id, comite_membres.comite_id, comites.name AS comite_name, "+
			"comite_membres.user_id, users.first_name, users.last_name, comite_membres.fonction").
		Joins("JOIN comites ON comites.id = comite_membres.comite_id").
		Joins("JOIN users ON users.id = comite_membres.user_id").
		Where("comite_membres.mandat_id = ?", mandatID).
		Order("comites.name, users.last_name").
		Scan(&seats).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to list committee seats")
	}

	return seats, nil
}

// AddSeat seats a club member in a committee of the mandat. A user sits at most once per committee.
func AddSeat(db *gorm.DB, clubID, mandatID uuid.UUID, in SeatInput) (*models.ComiteMembre, error) {
	if _, err := comite(db, clubID, mandatID, in.ComiteID); err != nil {
		return nil, err
	}

	if err := member.Require(db, clubID, in.UserID); err != nil {
		return nil, err
	}

	taken, err := crud.Any(db, &models.ComiteMembre{}, "comite_id = ? AND user_id = ?", in.ComiteID, in.UserID)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, apperr.Validation("user already sits in this committee")
	}

	seat := &models.ComiteMembre{
		MandatID: mandatID,
		ComiteID: in.ComiteID,
		UserID:   in.UserID,
		Fonction: strings.TrimSpace(in.Fonction),
	}
	if err = db.Create(seat).Error; err != nil {
		return nil, apperr.FromDB(err, "committee seat")
	}

	return seat, nil
}

// RemoveSeat frees a committee seat.
func RemoveSeat(db *gorm.DB, clubID, mandatID, id uuid.UUID) error {
	if _, err := Get(db, clubID, mandatID); err != nil {
		return err
	}

	return crud.Delete(db, &models.ComiteMembre{}, "committee seat", id, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("mandat_id = ?", mandatID)
	})
}

func comite(db *gorm.DB, clubID, mandatID, id uuid.UUID) (*models.Comite, error) {
	if _, err := Get(db, clubID, mandatID); err != nil {
		return nil, err
	}

	return crud.Get[models.Comite](db, "committee", id, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("mandat_id = ?", mandatID)
	})
}

func uniqueComite(db *gorm.DB, mandatID uuid.UUID, name string, except uuid.UUID) error {
	taken, err := crud.Any(db, &models.Comite{}, "mandat_id = ? AND name = ? AND id <> ?", mandatID, name, except)
	if err != nil {
		return err
	}

	if taken {
		return apperr.Validation("a committee named %q already exists", name)
	}

	return nil
}
