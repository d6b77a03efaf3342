package models

import (
	"github.com/google/uuid"
)

// Document is the metadata of a stored blob.
type Document struct {
	Base
	ClubID      uuid.UUID `gorm:"type:char(36);not null;index" json:"clubId"`
	Name        string    `gorm:"size:255;not null" json:"nom"`
	ContentType string    `gorm:"size:100;not null" json:"contentType"`
	Size        int64     `gorm:"not null" json:"taille"`
	// BlobKey locates the content in the blob store.
	BlobKey    string    `gorm:"size:100;not null" json:"-"`
	UploadedBy uuid.UUID `gorm:"type:char(36);not null" json:"uploadedBy"`
}
