// Package document manages the metadata of club documents. Content lives in a blob store.
package document

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/blob"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/crud"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

const what = "document"

// Sortable are the orderBy values of the document list.
var Sortable = query.Sortable{ //nolint:gochecknoglobals
	"nom":    "name",
	"taille": "size",
	"date":   "created_at",
}

// Store is the blob store holding document content.
type Store interface {
	Put(r io.Reader, filename string) (blob.Info, error)
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// List returns a page of the documents of a club.
func List(db *gorm.DB, clubID uuid.UUID, opts query.Options) ([]models.Document, int64, error) {
	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, 0, err
	}

	docs := []models.Document{}

	total, err := query.Find(opts.Match(db.Model(&models.Document{}).Scopes(crud.InClub(clubID)), "name"), opts, &docs)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list documents")
	}

	return docs, total, nil
}

// Get returns a document of a club.
func Get(db *gorm.DB, clubID, id uuid.UUID) (*models.Document, error) {
	return crud.Get[models.Document](db, what, id, crud.InClub(clubID))
}

// Upload stores content and records it. The content type is sniffed by the store.
func Upload(db *gorm.DB, store Store, clubID, uploader uuid.UUID, filename string, content io.Reader) (*models.Document, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, apperr.ValidationFields(map[string]string{"fichier": "a file name is required"})
	}

	if err := crud.Exists(db, &models.Club{}, "club", "id = ?", clubID); err != nil {
		return nil, err
	}

	info, err := store.Put(content, name)
	if errors.Is(err, blob.ErrTooLarge) {
		return nil, apperr.ValidationFields(map[string]string{"fichier": "file is too large"})
	}

	if err != nil {
		return nil, apperr.Internal(err, "failed to store document")
	}

	doc := &models.Document{
		ClubID:      clubID,
		Name:        name,
		ContentType: info.ContentType,
		Size:        info.Size,
		BlobKey:     info.Key,
		UploadedBy:  uploader,
	}
	if err = db.Create(doc).Error; err != nil {
		if delErr := store.Delete(info.Key); delErr != nil {
			log.Error().Err(delErr).Str("blob", info.Key).Msg("failed to remove orphan blob")
		}

		return nil, apperr.FromDB(err, what)
	}

	return doc, nil
}

// Open returns a document with its content. The caller closes the reader.
func Open(db *gorm.DB, store Store, clubID, id uuid.UUID) (*models.Document, io.ReadCloser, error) {
	doc, err := Get(db, clubID, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := store.Open(doc.BlobKey)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, nil, apperr.NotFound("document content")
	}

	if err != nil {
		return nil, nil, apperr.Internal(err, "failed to open document")
	}

	return doc, rc, nil
}

// Delete removes a document and its content.
func Delete(db *gorm.DB, store Store, clubID, id uuid.UUID) error {
	doc, err := Get(db, clubID, id)
	if err != nil {
		return err
	}

	if err = crud.Delete(db, &models.Document{}, what, id); err != nil {
		return err
	}

	if err = store.Delete(doc.BlobKey); err != nil {
		log.Error().Err(err).Str("blob", doc.BlobKey).Msg("failed to remove document content")
	}

	return nil
}
