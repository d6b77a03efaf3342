package models

import (
	"github.com/google/uuid"
)

// Mandat is one term of a club, a Rotary year for instance.
type Mandat struct {
	Base
	ClubID      uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_mandat_club_year" json:"clubId"`
	Year        int       `gorm:"not null;uniqueIndex:idx_mandat_club_year" json:"annee"`
	Description string    `gorm:"size:255" json:"description"`
	Version     int       `gorm:"not null;default:1" json:"version"`
}

// Comite is a committee of a mandat.
type Comite struct {
	Base
	MandatID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_comite_mandat_name" json:"mandatId"`
	Name        string    `gorm:"size:150;not null;uniqueIndex:idx_comite_mandat_name" json:"nom"`
	Description string    `gorm:"size:255" json:"description"`
}

// ComiteMembre seats a club member in a committee. A user sits at most once per committee.
type ComiteMembre struct {
	Base
	MandatID uuid.UUID `gorm:"type:char(36);not null;index" json:"mandatId"`
	ComiteID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_comite_user" json:"comiteId"`
	UserID   uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_comite_user" json:"userId"`
	// Fonction is the seat held, "Président de commission" for instance.
	Fonction string `gorm:"size:100" json:"fonction"`
}
