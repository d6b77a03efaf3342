// Package club manages clubs, the tenant roots.
package club

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const what = "club"

// Sortable are the orderBy values of the club list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"nom":   "clubs.name",
	"ville": "clubs.city",
	"date":  "clubs.created_at",
}

// Input is the writable part of a club.
type Input struct {
	Name         string `json:"nom"          validate:"required,max=150"`
	City         string `json:"ville"        validate:"max=100"`
	Email        string `json:"email"        validate:"omitempty,email,max=255"`
	Phone        string `json:"telephone"    validate:"max=30"`
	MeetingDay   string `json:"jourReunion"  validate:"max=10"`
	MeetingTime  string `json:"heureReunion" validate:"omitempty,datetime=15:04"`
	MeetingPlace string `json:"lieuReunion"  validate:"max=255"`
	// Version must echo the version read, on update only.
	Version int `json:"version"`
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.MeetingDay = strings.ToLower(strings.TrimSpace(in.MeetingDay))

	if in.Name == "" {
		return apperr.ValidationFields(map[string]string{"nom": "required"})
	}

	if in.MeetingDay != "" && !slices.Contains(models.MeetingDays, in.MeetingDay) {
		return apperr.ValidationFields(map[string]string{
			"jourReunion": "must be one of " + strings.Join(models.MeetingDays, ", "),
		})
	}

	return nil
}

// List returns a page of clubs. A non nil memberID restricts the list to the clubs of that user.
func List(db *gorm.DB, memberID *uuid.UUID, opts query.Options) ([]models.Club, int64, error) {
	if db == nil {
		return nil, 0, crud.ErrDBNil
	}

	tx := db.Model(&models.Club{})
	if memberID != nil {
		tx = tx.Joins("JOIN user_clubs ON user_clubs.club_id = clubs.id AND user_clubs.user_id = ?", *memberID)
	}

	clubs := []models.Club{}

	total, err := query.Find(opts.Match(tx, "clubs.name", "clubs.city"), opts, &clubs)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list clubs")
	}

	return clubs, total, nil
}

// Get returns one club.
func Get(db *gorm.DB, id uuid.UUID) (*models.Club, error) {
	return crud.Get[models.Club](db, what, id)
}

// Create adds a club. Names are unique.
func Create(db *gorm.DB, in Input) (*models.Club, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	if err := in.normalize(); err != nil {
		return nil, err
	}

	if err := uniqueName(db, in.Name, uuid.Nil); err != nil {
		return nil, err
	}

	club := &models.Club{
		Name:         in.Name,
		City:         in.City,
		Email:        in.Email,
		Phone:        in.Phone,
		MeetingDay:   in.MeetingDay,
		MeetingTime:  in.MeetingTime,
		MeetingPlace: in.MeetingPlace,
		Version:      1,
	}

	if err := db.Create(club).Error; err != nil {
		return nil, apperr.FromDB(err, what)
	}

	return club, nil
}

// Update replaces the writable fields of a club if in.Version is current.
func Update(db *gorm.DB, id uuid.UUID, in Input) (*models.Club, error) {
	if db == nil {
		return nil, crud.ErrDBNil
	}

	if err := in.normalize(); err != nil {
		return nil, err
	}

	if err := uniqueName(db, in.Name, id); err != nil {
		return nil, err
	}

	err := crud.UpdateVersioned(db, &models.Club{}, what, id, in.Version, map[string]any{
		"name":          in.Name,
		"city":          in.City,
		"email":         in.Email,
		"phone":         in.Phone,
		"meeting_day":   in.MeetingDay,
		"meeting_time":  in.MeetingTime,
		"meeting_place": in.MeetingPlace,
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete removes a club without members or committees.
func Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		return crud.ErrDBNil
	}

	if _, err := Get(db, id); err != nil {
		return err
	}

	members, err := crud.Any(db, &models.UserClub{}, "club_id = ?", id)
	if err != nil {
		return err
	}

	if members {
		return apperr.Validation("club still has members")
	}

	committees, err := crud.Any(db, &models.Comite{},
		"mandat_id IN (?)", db.Model(&models.Mandat{}).Select("id").Where("club_id = ?", id))
	if err != nil {
		return err
	}

	if committees {
		return apperr.Validation("club still has committees")
	}

	return crud.Delete(db, &models.Club{}, what, id)
}

func uniqueName(db *gorm.DB, name string, except uuid.UUID) error {
	taken, err := crud.Any(db, &models.Club{}, "name = ? AND id <> ?", name, except)
	if err != nil {
		return err
	}

	if taken {
		return apperr.Validation("a club named %q already exists", name)
	}

	return nil
}
