package budget

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/mandat"
	"github.com/ClubAdmin/ClubAdmin/internal/finance"
)

// CategorySummary aggregates the lines of one category.
type CategorySummary struct {
	CategoryID uuid.UUID       `json:"categoryBudgetId"`
	Category   string          `json:"categorie"`
	Type       string          `json:"type"`
	Lines      int             `json:"nombreRubriques"`
	Figures    finance.Figures `json:"montants"`
}

// Summary is the budget of a mandat, per category and overall.
type Summary struct {
	MandatID   uuid.UUID         `json:"mandatId"`
	Year       int               `json:"annee"`
	Categories []CategorySummary `json:"categories"`
	Global     finance.Figures   `json:"global"`
}

// detailRow is a budget line joined with its hierarchy.
type detailRow struct {
	ID          uuid.UUID
	Libelle     string
	UnitPrice   decimal.Decimal
	Quantity    int
	Realized    decimal.Decimal
	SubCategory string
	CategoryID  uuid.UUID
	Category    string
	Type        string
}

func (r detailRow) line() finance.Line {
	return finance.Line{Planned: finance.PlannedAmount(r.UnitPrice, r.Quantity), Realized: r.Realized}
}

func details(db *gorm.DB, mandatID uuid.UUID) ([]detailRow, error) {
	rows := []detailRow{}

	err := db.Table("rubrique_budgets").
		Select("rubrique_budgets.id, rubrique_budgets.libelle, rubrique_budgets.unit_price, " +
			"rubrique_budgets.quantity, rubrique_budgets.realized, " +
			"sous_category_budgets.libelle AS sub_category, category_budgets.id AS category_id, " +
			"category_budgets.libelle AS category, type_budgets.libelle AS type").
		Joins("JOIN sous_category_budgets ON sous_category_budgets.id = rubrique_budgets.sous_category_budget_id").
		Joins("JOIN category_budgets ON category_budgets.id = sous_category_budgets.category_budget_id").
		Joins("JOIN type_budgets ON type_budgets.id = category_budgets.type_budget_id").
		Where("rubrique_budgets.mandat_id = ?", mandatID).
		Order("type_budgets.libelle, category_budgets.libelle, sous_category_budgets.libelle, rubrique_budgets.libelle").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to load budget lines")
	}

	return rows, nil
}

// Synthese sums the lines of a mandat per category and overall.
// Ratios are derived from the sums, never averaged.
func Synthese(db *gorm.DB, clubID, mandatID uuid.UUID) (*Summary, error) {
	m, err := mandat.Get(db, clubID, mandatID)
	if err != nil {
		return nil, err
	}

	rows, err := details(db, mandatID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{MandatID: m.ID, Year: m.Year, Categories: []CategorySummary{}}

	var (
		all     = make([]finance.Line, 0, len(rows))
		current []finance.Line
	)

	flush := func(r detailRow) {
		summary.Categories = append(summary.Categories, CategorySummary{
			CategoryID: r.CategoryID,
			Category:   r.Category,
			Type:       r.Type,
			Lines:      len(current),
			Figures:    finance.Total(current),
		})
		current = nil
	}

	for i, r := range rows {
		current = append(current, r.line())
		all = append(all, r.line())

		if i == len(rows)-1 || rows[i+1].CategoryID != r.CategoryID {
			flush(r)
		}
	}

	summary.Global = finance.Total(all)

	return summary, nil
}
