// Package models contains database model definitions.
//
// Every entity is keyed by a random UUID stored as char(36) so the same schema works on
// MySQL, PostgreSQL and SQLite. Monetary columns are shopspring decimals.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base holds the identity and timestamps shared by every entity.
type Base struct {
	// ID is generated before insert when left empty.
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a new identifier.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	return nil
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&UserRole{},
		&Club{},
		&UserClub{},
		&Mandat{},
		&Comite{},
		&ComiteMembre{},
		&TypeBudget{},
		&CategoryBudget{},
		&SousCategoryBudget{},
		&RubriqueBudget{},
		&Evenement{},
		&EvenementBudget{},
		&EvenementRecette{},
		&Gala{},
		&GalaTable{},
		&GalaInvite{},
		&GalaTableAffectation{},
		&GalaTicket{},
		&Reunion{},
		&OrdreDuJour{},
		&Document{},
		&Paiement{},
	}
}
