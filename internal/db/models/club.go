package models

import (
	"time"

	"github.com/google/uuid"
)

// MeetingDays are the accepted values of Club.MeetingDay, weekdays only.
var MeetingDays = []string{"lundi", "mardi", "mercredi", "jeudi", "vendredi"} //nolint:gochecknoglobals

// Club is the tenant root.
type Club struct {
	Base
	// Name is unique across all clubs.
	Name  string `gorm:"uniqueIndex;size:150;not null" json:"nom"`
	City  string `gorm:"size:100" json:"ville"`
	Email string `gorm:"size:255" json:"email"`
	Phone string `gorm:"size:30" json:"telephone"`
	// MeetingDay is one of MeetingDays.
	MeetingDay string `gorm:"size:10" json:"jourReunion"`
	// MeetingTime is a wall clock time, "19:30".
	MeetingTime  string `gorm:"size:5" json:"heureReunion"`
	MeetingPlace string `gorm:"size:255" json:"lieuReunion"`
	// Version is bumped on every update for optimistic concurrency.
	Version int `gorm:"not null;default:1" json:"version"`
}

// UserClub is a membership of a user in a club.
type UserClub struct {
	ClubID   uuid.UUID `gorm:"type:char(36);primaryKey" json:"clubId"`
	UserID   uuid.UUID `gorm:"type:char(36);primaryKey;index" json:"userId"`
	JoinedAt time.Time `json:"dateAdhesion"`
}
