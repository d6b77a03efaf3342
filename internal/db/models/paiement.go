package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Paiement is a membership fee payment.
type Paiement struct {
	Base
	ClubID    uuid.UUID       `gorm:"type:char(36);not null;index" json:"clubId"`
	UserID    uuid.UUID       `gorm:"type:char(36);not null;index" json:"userId"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"montant"`
	PaidAt    time.Time       `json:"datePaiement"`
	Mode      string          `gorm:"size:30" json:"mode"`
	Reference string          `gorm:"size:100" json:"reference"`
}
