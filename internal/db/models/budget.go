package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TypeBudget is the top level of a club budget, "Recettes" or "Dépenses" for instance.
type TypeBudget struct {
	Base
	ClubID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_type_club_libelle" json:"clubId"`
	Libelle string    `gorm:"size:150;not null;uniqueIndex:idx_type_club_libelle" json:"libelle"`
}

// CategoryBudget belongs to a TypeBudget.
type CategoryBudget struct {
	Base
	TypeBudgetID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_category_type_libelle" json:"typeBudgetId"`
	Libelle      string    `gorm:"size:150;not null;uniqueIndex:idx_category_type_libelle" json:"libelle"`
}

// SousCategoryBudget belongs to a CategoryBudget.
type SousCategoryBudget struct {
	Base
	CategoryBudgetID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_souscat_cat_libelle" json:"categoryBudgetId"`
	Libelle          string    `gorm:"size:150;not null;uniqueIndex:idx_souscat_cat_libelle" json:"libelle"`
}

// RubriqueBudget is the leaf budget line of a mandat.
// Its planned amount is UnitPrice times Quantity.
type RubriqueBudget struct {
	Base
	MandatID             uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_rubrique_libelle" json:"mandatId"`
	SousCategoryBudgetID uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex:idx_rubrique_libelle" json:"sousCategoryBudgetId"`
	Libelle              string          `gorm:"size:150;not null;uniqueIndex:idx_rubrique_libelle" json:"libelle"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"prixUnitaire"`
	Quantity             int             `gorm:"not null" json:"quantite"`
	Realized             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"montantRealise"`
}
