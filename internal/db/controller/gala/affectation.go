package gala

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

const whatAffectation = "affectation"

var (
	// ErrNoTables is returned when distributing invites of a gala without tables.
	ErrNoTables = apperr.Validation("the gala has no tables")
	// ErrNoUnassignedInvites is returned when every invite is already seated.
	ErrNoUnassignedInvites = apperr.Validation("the gala has no unassigned invites")
)

// AffectationInput seats an invite at a table.
type AffectationInput struct {
	GalaTableID  uuid.UUID `json:"galaTableId"  validate:"required"`
	GalaInviteID uuid.UUID `json:"galaInviteId" validate:"required"`
}

// Affectation is a seat with the table and invite resolved.
type Affectation struct {
	ID           uuid.UUID `json:"id"`
	GalaTableID  uuid.UUID `json:"galaTableId"`
	TableNumber  int       `json:"numeroTable"`
	GalaInviteID uuid.UUID `json:"galaInviteId"`
	LastName     string    `json:"nom"`
	FirstName    string    `json:"prenom"`
	AssignedAt   time.Time `json:"dateAffectation"`
}

// BatchResult is the outcome of one item of a batch.
type BatchResult[T any] struct {
	Index  int               `json:"index"`
	OK     bool              `json:"succes"`
	Error  string            `json:"erreur,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Item   *T                `json:"element,omitempty"`
}

// Distribution is the outcome of an automatic distribution.
type Distribution struct {
	Assigned int                           `json:"nombreAffectes"`
	PerTable map[int]int                   `json:"parTable"`
	Items    []models.GalaTableAffectation `json:"affectations"`
}

// Pair assigns one invite to one table.
type Pair struct {
	InviteID uuid.UUID
	TableID  uuid.UUID
}

// RoundRobin assigns invites[i] to tables[i mod len(tables)].
func RoundRobin(invites, tables []uuid.UUID) ([]Pair, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	if len(invites) == 0 {
		return nil, ErrNoUnassignedInvites
	}

	pairs := make([]Pair, len(invites))
	for i, inv := range invites {
		pairs[i] = Pair{InviteID: inv, TableID: tables[i%len(tables)]}
	}

	return pairs, nil
}

func affectationsOf(db *gorm.DB, galaID uuid.UUID) *gorm.DB {
	return db.Table("gala_table_affectations").
		Select("gala_table_affectations.id, gala_table_affectations.gala_table_id, gala_tables.number AS table_number, " +
			"gala_table_affectations.gala_invite_id, gala_invites.last_name, gala_invites.first_name, " +
			"gala_table_affectations.assigned_at").
		Joins("JOIN gala_tables ON gala_tables.id = gala_table_affectations.gala_table_id").
		Joins("JOIN gala_invites ON gala_invites.id = gala_table_affectations.gala_invite_id").
		Where("gala_tables.gala_id = ?", galaID)
}

// Affectations lists the seating of a gala by table number and name.
func Affectations(db *gorm.DB, clubID, galaID uuid.UUID) ([]Affectation, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	out := []Affectation{}
	if err := affectationsOf(db, galaID).Order("gala_tables.number, gala_invites.last_name").Scan(&out).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list affectations")
	}

	return out, nil
}

// Assign seats an invite at a table. An invite already seated is rejected with the existing seat.
func Assign(db *gorm.DB, clubID, galaID uuid.UUID, in AffectationInput) (*models.GalaTableAffectation, error) {
	if _, err := table(db, clubID, galaID, in.GalaTableID); err != nil {
		return nil, err
	}

	if _, err := invite(db, clubID, galaID, in.GalaInviteID); err != nil {
		return nil, err
	}

	return assign(db, galaID, in)
}

func assign(db *gorm.DB, galaID uuid.UUID, in AffectationInput) (*models.GalaTableAffectation, error) {
	var existing []Affectation
	if err := affectationsOf(db, galaID).Where("gala_table_affectations.gala_invite_id = ?", in.GalaInviteID).
		Scan(&existing).Error; err != nil {
		return nil, apperr.Internal(err, "failed to check affectation")
	}

	if len(existing) > 0 {
		return nil, alreadySeated(existing[0].ID, existing[0].TableNumber)
	}

	a := &models.GalaTableAffectation{GalaTableID: in.GalaTableID, GalaInviteID: in.GalaInviteID, AssignedAt: time.Now().UTC()}
	if err := db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apperr.Error{Kind: apperr.KindValidation, Message: "invite is already seated", Err: err}
		}

		return nil, apperr.FromDB(err, whatAffectation)
	}

	return a, nil
}

func alreadySeated(id uuid.UUID, number int) *apperr.Error {
	e := apperr.Validation("invite is already seated at table %d", number)
	e.Fields = map[string]string{"affectationId": id.String()}

	return e
}

// AssignBatch seats each item independently. A failing item does not stop the others.
func AssignBatch(db *gorm.DB, clubID, galaID uuid.UUID, items []AffectationInput) ([]BatchResult[models.GalaTableAffectation], error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	results := make([]BatchResult[models.GalaTableAffectation], 0, len(items))

	for i, in := range items {
		a, err := Assign(db, clubID, galaID, in)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				return nil, err
			}

			msg, fields := apperr.Public(err)
			results = append(results, BatchResult[models.GalaTableAffectation]{Index: i, Error: msg, Fields: fields})

			continue
		}

		results = append(results, BatchResult[models.GalaTableAffectation]{Index: i, OK: true, Item: a})
	}

	return results, nil
}

// Unassign removes a seat of the gala.
func Unassign(db *gorm.DB, clubID, galaID, id uuid.UUID) error {
	if _, err := Get(db, clubID, galaID); err != nil {
		return err
	}

	return crud.Delete(db, &models.GalaTableAffectation{}, whatAffectation, id, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("gala_table_id IN (?)", db.Model(&models.GalaTable{}).Select("id").Scopes(ofGala(galaID)))
	})
}

// Distribute seats every unassigned invite round robin over the tables, ordered by table number
// and invite name. It needs at least one table and one unassigned invite.
func Distribute(db *gorm.DB, clubID, galaID uuid.UUID) (*Distribution, error) {
	if _, err := Get(db, clubID, galaID); err != nil {
		return nil, err
	}

	var tables []models.GalaTable
	if err := db.Scopes(ofGala(galaID)).Order("number").Find(&tables).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load gala tables")
	}

	var invites []uuid.UUID

	err := db.Model(&models.GalaInvite{}).Scopes(ofGala(galaID)).
		Where("id NOT IN (?)", db.Model(&models.GalaTableAffectation{}).Select("gala_invite_id")).
		Order("last_name, first_name, created_at").
		Pluck("id", &invites).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to load unassigned invites")
	}

	tableIDs := make([]uuid.UUID, len(tables))
	numbers := make(map[uuid.UUID]int, len(tables))

	for i, t := range tables {
		tableIDs[i] = t.ID
		numbers[t.ID] = t.Number
	}

	pairs, err := RoundRobin(invites, tableIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := &Distribution{PerTable: map[int]int{}, Items: make([]models.GalaTableAffectation, 0, len(pairs))}

	for _, p := range pairs {
		out.Items = append(out.Items, models.GalaTableAffectation{GalaTableID: p.TableID, GalaInviteID: p.InviteID, AssignedAt: now})
		out.PerTable[numbers[p.TableID]]++
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&out.Items).Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, whatAffectation)
	}

	out.Assigned = len(out.Items)

	return out, nil
}
