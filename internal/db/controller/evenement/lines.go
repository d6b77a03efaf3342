package evenement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/finance"
)

const (
	whatLine    = "budget line"
	whatRecette = "recette"
)

// LineInput is the writable part of an expense line.
type LineInput struct {
	Libelle  string          `json:"libelle"        validate:"required,max=150"`
	Planned  decimal.Decimal `json:"montantPrevu"`
	Realized decimal.Decimal `json:"montantRealise"`
}

func (in *LineInput) check() error {
	in.Libelle = strings.TrimSpace(in.Libelle)

	fields := map[string]string{}
	if in.Libelle == "" {
		fields["libelle"] = "required"
	}

	if in.Planned.IsNegative() {
		fields["montantPrevu"] = "must not be negative"
	}

	if in.Realized.IsNegative() {
		fields["montantRealise"] = "must not be negative"
	}

	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}

	return nil
}

// RecetteInput is the writable part of a revenue line.
type RecetteInput struct {
	Libelle string          `json:"libelle" validate:"required,max=150"`
	Amount  decimal.Decimal `json:"montant"`
	Date    *time.Time      `json:"date"`
}

// Line is an expense line with its derived figures.
type Line struct {
	models.EvenementBudget
	Variance        decimal.Decimal `json:"ecart"`
	PercentRealized decimal.Decimal `json:"pourcentageRealise"`
	Status          finance.Status  `json:"statut"`
}

// NewLine derives the figures of an expense line.
func NewLine(b models.EvenementBudget) Line {
	f := finance.Evaluate(finance.Line{Planned: b.Planned, Realized: b.Realized})

	return Line{EvenementBudget: b, Variance: f.Variance, PercentRealized: f.PercentRealized, Status: f.Status}
}

// Bilan is the financial result of an event.
type Bilan struct {
	EvenementID uuid.UUID `json:"evenementId"`
	Title       string    `json:"titre"`
	finance.Bilan
	Lines    []Line                    `json:"lignes"`
	Recettes []models.EvenementRecette `json:"recettes"`
}

func ofEvent(id uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("evenement_id = ?", id)
	}
}

// Lines lists the expense lines of an event.
func Lines(db *gorm.DB, clubID, eventID uuid.UUID) ([]Line, error) {
	if _, err := Get(db, clubID, eventID); err != nil {
		return nil, err
	}

	return lines(db, eventID)
}

func lines(db *gorm.DB, eventID uuid.UUID) ([]Line, error) {
	var rows []models.EvenementBudget
	if err := db.Scopes(ofEvent(eventID)).Order("libelle").Find(&rows).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list event budget lines")
	}

	out := make([]Line, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewLine(r))
	}

	return out, nil
}

// CreateLine adds an expense line.
func CreateLine(db *gorm.DB, clubID, eventID uuid.UUID, in LineInput) (*Line, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	if _, err := Get(db, clubID, eventID); err != nil {
		return nil, err
	}

	b := models.EvenementBudget{EvenementID: eventID, Libelle: in.Libelle, Planned: in.Planned, Realized: in.Realized}
	if err := db.Create(&b).Error; err != nil {
		return nil, apperr.FromDB(err, whatLine)
	}

	out := NewLine(b)

	return &out, nil
}

// UpdateLine replaces an expense line.
func UpdateLine(db *gorm.DB, clubID, eventID, id uuid.UUID, in LineInput) (*Line, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	if _, err := Get(db, clubID, eventID); err != nil {
		return nil, err
	}

	b, err := crud.Get[models.EvenementBudget](db, whatLine, id, ofEvent(eventID))
	if err != nil {
		return nil, err
	}

	b.Libelle = in.Libelle
	b.Planned = in.Planned
	b.Realized = in.Realized

	if err = db.Save(b).Error; err != nil {
		return nil, apperr.FromDB(err, whatLine)
	}

	out := NewLine(*b)

	return &out, nil
}

// DeleteLine removes an expense line.
func DeleteLine(db *gorm.DB, clubID, eventID, id uuid.UUID) error {
	if _, err := Get(db, clubID, eventID); err != nil {
		return err
	}

	return crud.Delete(db, &models.EvenementBudget{}, whatLine, id, ofEvent(eventID))
}

// Recettes lists the revenues of an event by date.
func Recettes(db *gorm.DB, clubID, eventID uuid.UUID) ([]models.EvenementRecette, error) {
	if _, err := Get(db, clubID, eventID); err != nil {
		return nil, err
	}

	return recettes(db, eventID)
}

func recettes(db *gorm.DB, eventID uuid.UUID) ([]models.EvenementRecette, error) {
	rows := []models.EvenementRecette{}
	if err := db.Scopes(ofEvent(eventID)).Order("date, libelle").Find(&rows).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list event revenues")
	}

	return rows, nil
}

// CreateRecette adds a revenue. The amount must be positive, the date defaults to now.
func CreateRecette(db *gorm.DB, clubID, eventID uuid.UUID, in RecetteInput) (*models.EvenementRecette, error) {
	in.Libelle = strings.TrimSpace(in.Libelle)

	fields := map[string]string{}
	if in.Libelle == "" {
		fields["libelle"] = "required"
	}

	if !in.Amount.IsPositive() {
		fields["montant"] = "must be positive"
	}

	if len(fields) > 0 {
		return nil, apperr.ValidationFields(fields)
	}

	if _, err := Get(db, clubID, eventID); err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if in.Date != nil {
		date = *in.Date
	}

	r := &models.EvenementRecette{EvenementID: eventID, Libelle: in.Libelle, Amount: in.Amount, Date: date}
	if err := db.Create(r).Error; err != nil {
		return nil, apperr.FromDB(err, whatRecette)
	}

	return r, nil
}

// DeleteRecette removes a revenue.
func DeleteRecette(db *gorm.DB, clubID, eventID, id uuid.UUID) error {
	if _, err := Get(db, clubID, eventID); err != nil {
		return err
	}

	return crud.Delete(db, &models.EvenementRecette{}, whatRecette, id, ofEvent(eventID))
}

// GetBilan computes the result of an event from all its lines and revenues.
func GetBilan(db *gorm.DB, clubID, eventID uuid.UUID) (*Bilan, error) {
	e, err := Get(db, clubID, eventID)
	if err != nil {
		return nil, err
	}

	ls, err := lines(db, eventID)
	if err != nil {
		return nil, err
	}

	rs, err := recettes(db, eventID)
	if err != nil {
		return nil, err
	}

	expenses := make([]finance.Line, 0, len(ls))
	for _, l := range ls {
		expenses = append(expenses, finance.Line{Planned: l.Planned, Realized: l.Realized})
	}

	revenues := make([]decimal.Decimal, 0, len(rs))
	for _, r := range rs {
		revenues = append(revenues, r.Amount)
	}

	return &Bilan{
		EvenementID: e.ID,
		Title:       e.Title,
		Bilan:       finance.EventBilan(expenses, revenues),
		Lines:       ls,
		Recettes:    rs,
	}, nil
}
