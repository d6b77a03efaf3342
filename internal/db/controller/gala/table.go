package gala

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const (
	whatTable  = "gala table"
	whatInvite = "gala invite"
)

// InviteSortable are the orderBy values of the invite list.
var InviteSortable = query.Sortable{ //nolint:gochecknoglobals
	"nom":    "last_name",
	"prenom": "first_name",
	"email":  "email",
}

// TableInput is the writable part of a table.
type TableInput struct {
	Number int    `json:"numero" validate:"required,min=1"`
	Name   string `json:"nom"    validate:"max=100"`
}

// InviteInput is the writable part of an invite.
type InviteInput struct {
	LastName  string `json:"nom"       validate:"required,max=100"`
	FirstName string `json:"prenom"    validate:"max=100"`
	Email     string `json:"email"     validate:"omitempty,email,max=255"`
	Phone     string `json:"telephone" validate:"max=30"`
}

// Table is a table with the number of seated invites.
type Table struct {
	models.GalaTable
	Seated int `json:"nombreInvites"`
}

// Tables lists the tables of a gala by number.
func Tables(db *gorm.DB, clubID, galaID uuid.UUID) ([]Table, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	var rows []models.GalaTable
	if err := db.Scopes(ofGala(galaID)).Order("number").Find(&rows).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list gala tables")
	}

	var counts []struct {
		GalaTableID uuid.UUID
		N           int
	}

	err := db.Model(&models.GalaTableAffectation{}).
		Select("gala_table_id, COUNT(*) AS n").
		Where("gala_table_id IN (?)", db.Model(&models.GalaTable{}).Select("id").Scopes(ofGala(galaID))).
		Group("gala_table_id").
		Scan(&counts).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to count seated invites")
	}

	seated := make(map[uuid.UUID]int, len(counts))
	for _, c := range counts {
		seated[c.GalaTableID] = c.N
	}

	tables := make([]Table, 0, len(rows))
	for _, r := range rows {
		tables = append(tables, Table{GalaTable: r, Seated: seated[r.ID]})
	}

	return tables, nil
}

// CreateTable adds a table. Numbers are unique within the gala.
func CreateTable(db *gorm.DB, clubID, galaID uuid.UUID, in TableInput) (*models.GalaTable, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	taken, err := crud.Any(db, &models.GalaTable{}, "gala_id = ? AND number = ?", galaID, in.Number)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, apperr.Validation("table %d already exists", in.Number)
	}

	t := &models.GalaTable{GalaID: galaID, Number: in.Number, Name: strings.TrimSpace(in.Name)}
	if err = db.Create(t).Error; err != nil {
		return nil, apperr.FromDB(err, whatTable)
	}

	return t, nil
}

// DeleteTable removes a table nobody is seated at.
func DeleteTable(db *gorm.DB, clubID, galaID, id uuid.UUID) error {
	if _, err := table(db, clubID, galaID, id); err != nil {
		return err
	}

	seated, err := crud.Any(db, &models.GalaTableAffectation{}, "gala_table_id = ?", id)
	if err != nil {
		return err
	}

	if seated {
		return apperr.Validation("invites are still seated at this table")
	}

	return crud.Delete(db, &models.GalaTable{}, whatTable, id)
}

func table(db *gorm.DB, clubID, galaID, id uuid.UUID) (*models.GalaTable, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	return crud.Get[models.GalaTable](db, whatTable, id, ofGala(galaID))
}

// Invites returns a page of the invites of a gala.
func Invites(db *gorm.DB, clubID, galaID uuid.UUID, opts query.Options) ([]models.GalaInvite, int64, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, 0, err
	}

	invites := []models.GalaInvite{}

	tx := opts.Match(db.Model(&models.GalaInvite{}).Scopes(ofGala(galaID)), "last_name", "first_name", "email")

	total, err := query.Find(tx, opts, &invites)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list gala invites")
	}

	return invites, total, nil
}

// CreateInvite adds an invite.
func CreateInvite(db *gorm.DB, clubID, galaID uuid.UUID, in InviteInput) (*models.GalaInvite, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	in.LastName = strings.TrimSpace(in.LastName)
	if in.LastName == "" {
		return nil, apperr.ValidationFields(map[string]string{"nom": "required"})
	}

	i := &models.GalaInvite{
		GalaID:    galaID,
		LastName:  in.LastName,
		FirstName: strings.TrimSpace(in.FirstName),
		Email:     in.Email,
		Phone:     in.Phone,
	}
	if err := db.Create(i).Error; err != nil {
		return nil, apperr.FromDB(err, whatInvite)
	}

	return i, nil
}

// DeleteInvite removes an invite and its seat.
func DeleteInvite(db *gorm.DB, clubID, galaID, id uuid.UUID) error {
	if _, err := invite(db, clubID, galaID, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gala_invite_id = ?", id).Delete(&models.GalaTableAffectation{}).Error; err != nil {
			return apperr.FromDB(err, whatAffectation)
		}

		return crud.Delete(tx, &models.GalaInvite{}, whatInvite, id)
	})
}

func invite(db *gorm.DB, clubID, galaID, id uuid.UUID) (*models.GalaInvite, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	return crud.Get[models.GalaInvite](db, whatInvite, id, ofGala(galaID))
}
