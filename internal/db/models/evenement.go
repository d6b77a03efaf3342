package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Evenement is a club event with its own budget and revenues.
type Evenement struct {
	Base
	ClubID      uuid.UUID  `gorm:"type:char(36);not null;index" json:"clubId"`
	MandatID    *uuid.UUID `gorm:"type:char(36);index" json:"mandatId,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"titre"`
	Description string     `gorm:"type:text" json:"description"`
	Date        time.Time  `json:"date"`
	Place       string     `gorm:"size:255" json:"lieu"`
	Version     int        `gorm:"not null;default:1" json:"version"`
}

// EvenementBudget is a planned expense line of an event.
type EvenementBudget struct {
	Base
	EvenementID uuid.UUID       `gorm:"type:char(36);not null;index" json:"evenementId"`
	Libelle     string          `gorm:"size:150;not null" json:"libelle"`
	Planned     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"montantPrevu"`
	Realized    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"montantRealise"`
}

// EvenementRecette is a revenue line of an event.
type EvenementRecette struct {
	Base
	EvenementID uuid.UUID       `gorm:"type:char(36);not null;index" json:"evenementId"`
	Libelle     string          `gorm:"size:150;not null" json:"libelle"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"montant"`
	Date        time.Time       `json:"date"`
}
