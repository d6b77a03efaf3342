package budget

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/mandat"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/finance"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const whatRubrique = "rubrique"

// RubriqueSortable are the orderBy values of the rubrique list.
var RubriqueSortable = query.Sortable{ //nolint:gochecknoglobals
	"libelle":        "libelle",
	"prixUnitaire":   "unit_price",
	"quantite":       "quantity",
	"montantRealise": "realized",
}

// RubriqueInput is the writable part of a budget line.
type RubriqueInput struct {
	SousCategoryBudgetID uuid.UUID       `json:"sousCategoryBudgetId" validate:"required"`
	Libelle              string          `json:"libelle"              validate:"required,max=150"`
	UnitPrice            decimal.Decimal `json:"prixUnitaire"`
	Quantity             int             `json:"quantite"             validate:"min=0"`
	Realized             decimal.Decimal `json:"montantRealise"`
}

// RealizedInput records the realized amount of a line.
type RealizedInput struct {
	Realized decimal.Decimal `json:"montantRealise"`
}

// Rubrique is a budget line with its derived figures.
type Rubrique struct {
	models.RubriqueBudget
	Planned         decimal.Decimal `json:"montantPrevu"`
	Variance        decimal.Decimal `json:"ecart"`
	PercentRealized decimal.Decimal `json:"pourcentageRealise"`
	Status          finance.Status  `json:"statut"`
}

// NewRubrique derives the figures of a line.
func NewRubrique(r models.RubriqueBudget) Rubrique {
	f := finance.Evaluate(line(r))

	return Rubrique{
		RubriqueBudget:  r,
		Planned:         f.Planned,
		Variance:        f.Variance,
		PercentRealized: f.PercentRealized,
		Status:          f.Status,
	}
}

func line(r models.RubriqueBudget) finance.Line {
	return finance.Line{Planned: finance.PlannedAmount(r.UnitPrice, r.Quantity), Realized: r.Realized}
}

func (in *RubriqueInput) check() error {
	in.Libelle = strings.TrimSpace(in.Libelle)

	fields := map[string]string{}
	if in.UnitPrice.IsNegative() {
		fields["prixUnitaire"] = "must not be negative"
	}

	if in.Realized.IsNegative() {
		fields["montantRealise"] = "must not be negative"
	}

	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}

	return nil
}

func inMandat(mandatID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("mandat_id = ?", mandatID)
	}
}

// Rubriques returns a page of the budget lines of a mandat.
func Rubriques(db *gorm.DB, clubID, mandatID uuid.UUID, opts query.Options) ([]Rubrique, int64, error) {
	if _, err := mandat.Get(db, clubID, mandatID); err != nil {
		return nil, 0, err
	}

	rows := []models.RubriqueBudget{}

	tx := opts.Match(db.Model(&models.RubriqueBudget{}).Scopes(inMandat(mandatID)), "libelle")

	total, err := query.Find(tx, opts, &rows)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list rubriques")
	}

	out := make([]Rubrique, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewRubrique(r))
	}

	return out, total, nil
}

// GetRubrique returns a budget line of a mandat.
func GetRubrique(db *gorm.DB, clubID, mandatID, id uuid.UUID) (*Rubrique, error) {
	if _, err := mandat.Get(db, clubID, mandatID); err != nil {
		return nil, err
	}

	r, err := crud.Get[models.RubriqueBudget](db, whatRubrique, id, inMandat(mandatID))
	if err != nil {
		return nil, err
	}

	out := NewRubrique(*r)

	return &out, nil
}

// CreateRubrique adds a budget line to a mandat.
func CreateRubrique(db *gorm.DB, clubID, mandatID uuid.UUID, in RubriqueInput) (*Rubrique, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	if _, err := mandat.Get(db, clubID, mandatID); err != nil {
		return nil, err
	}

	if _, err := GetSubCategory(db, clubID, in.SousCategoryBudgetID); err != nil {
		return nil, err
	}

	if err := uniqueRubrique(db, mandatID, in, uuid.Nil); err != nil {
		return nil, err
	}

	r := models.RubriqueBudget{
		MandatID:             mandatID,
		SousCategoryBudgetID: in.SousCategoryBudgetID,
		Libelle:              in.Libelle,
		UnitPrice:            in.UnitPrice,
		Quantity:             in.Quantity,
		Realized:             in.Realized,
	}
	if err := db.Create(&r).Error; err != nil {
		return nil, apperr.FromDB(err, whatRubrique)
	}

	out := NewRubrique(r)

	return &out, nil
}

// UpdateRubrique replaces a budget line.
func UpdateRubrique(db *gorm.DB, clubID, mandatID, id uuid.UUID, in RubriqueInput) (*Rubrique, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	current, err := GetRubrique(db, clubID, mandatID, id)
	if err != nil {
		return nil, err
	}

	if _, err = GetSubCategory(db, clubID, in.SousCategoryBudgetID); err != nil {
		return nil, err
	}

	if err = uniqueRubrique(db, mandatID, in, id); err != nil {
		return nil, err
	}

	r := current.RubriqueBudget
	r.SousCategoryBudgetID = in.SousCategoryBudgetID
	r.Libelle = in.Libelle
	r.UnitPrice = in.UnitPrice
	r.Quantity = in.Quantity
	r.Realized = in.Realized

	if err = db.Save(&r).Error; err != nil {
		return nil, apperr.FromDB(err, whatRubrique)
	}

	out := NewRubrique(r)

	return &out, nil
}

// SetRealized records the realized amount of a budget line.
func SetRealized(db *gorm.DB, clubID, mandatID, id uuid.UUID, in RealizedInput) (*Rubrique, error) {
	if in.Realized.IsNegative() {
		return nil, apperr.ValidationFields(map[string]string{"montantRealise": "must not be negative"})
	}

	current, err := GetRubrique(db, clubID, mandatID, id)
	if err != nil {
		return nil, err
	}

	r := current.RubriqueBudget
	if err = db.Model(&r).Update("realized", in.Realized).Error; err != nil {
		return nil, apperr.FromDB(err, whatRubrique)
	}

	r.Realized = in.Realized
	out := NewRubrique(r)

	return &out, nil
}

// DeleteRubrique removes a budget line.
func DeleteRubrique(db *gorm.DB, clubID, mandatID, id uuid.UUID) error {
	if _, err := mandat.Get(db, clubID, mandatID); err != nil {
		return err
	}

	return crud.Delete(db, &models.RubriqueBudget{}, whatRubrique, id, inMandat(mandatID))
}

func uniqueRubrique(db *gorm.DB, mandatID uuid.UUID, in RubriqueInput, except uuid.UUID) error {
	taken, err := crud.Any(db, &models.RubriqueBudget{},
		"mandat_id = ? AND sous_category_budget_id = ? AND libelle = ? AND id <> ?",
		mandatID, in.SousCategoryBudgetID, in.Libelle, except)
	if err != nil {
		return err
	}

	if taken {
		return apperr.Validation("rubrique %q already exists", in.Libelle)
	}

	return nil
}
