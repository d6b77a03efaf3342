package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gala is a ticketed, seated event.
type Gala struct {
	Base
	ClubID      uuid.UUID       `gorm:"type:char(36);not null;index" json:"clubId"`
	Title       string          `gorm:"size:200;not null" json:"titre"`
	Date        time.Time       `json:"date"`
	Place       string          `gorm:"size:255" json:"lieu"`
	TicketPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"prixTicket"`
}

// GalaTable is a table of a gala. Tables have no capacity.
type GalaTable struct {
	Base
	GalaID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_gala_table_number" json:"galaId"`
	Number int       `gorm:"not null;uniqueIndex:idx_gala_table_number" json:"numero"`
	Name   string    `gorm:"size:100" json:"nom"`
}

// GalaInvite is a guest of a gala.
type GalaInvite struct {
	Base
	GalaID    uuid.UUID `gorm:"type:char(36);not null;index" json:"galaId"`
	LastName  string    `gorm:"size:100;not null" json:"nom"`
	FirstName string    `gorm:"size:100" json:"prenom"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:30" json:"telephone"`
}

// GalaTableAffectation seats an invite at a table. An invite has at most one affectation.
type GalaTableAffectation struct {
	Base
	GalaTableID  uuid.UUID `gorm:"type:char(36);not null;index" json:"galaTableId"`
	GalaInviteID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex" json:"galaInviteId"`
	AssignedAt   time.Time `json:"dateAffectation"`
}

// GalaTicket is a ticket purchase by a club member or an external buyer.
type GalaTicket struct {
	Base
	GalaID       uuid.UUID       `gorm:"type:char(36);not null;index" json:"galaId"`
	UserID       *uuid.UUID      `gorm:"type:char(36);index" json:"userId,omitempty"`
	ExternalName string          `gorm:"size:200" json:"nomExterne,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantite"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"prixUnitaire"`
	PurchasedAt  time.Time       `json:"dateAchat"`
}
