package models

import (
	"time"

	"github.com/google/uuid"
)

// Reunion is a club meeting.
type Reunion struct {
	Base
	ClubID  uuid.UUID `gorm:"type:char(36);not null;index" json:"clubId"`
	Date    time.Time `json:"date"`
	Type    string    `gorm:"size:50" json:"type"`
	Place   string    `gorm:"size:255" json:"lieu"`
	Summary string    `gorm:"type:text" json:"compteRendu"`
	Version int       `gorm:"not null;default:1" json:"version"`
}

// OrdreDuJour is an agenda item of a meeting.
type OrdreDuJour struct {
	Base
	ReunionID   uuid.UUID `gorm:"type:char(36);not null;index" json:"reunionId"`
	Position    int       `gorm:"not null" json:"ordre"`
	Title       string    `gorm:"size:200;not null" json:"titre"`
	Description string    `gorm:"type:text" json:"description"`
}
