package document_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/blob"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/document"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

func TestUploadOpenDelete(t *testing.T) {
	db := dbtest.Open(t)
	club := &models.Club{Name: "Rotary Lyon", Version: 1}
	require.NoError(t, db.Create(club).Error)

	store, err := blob.NewFS(t.TempDir(), 1024)
	require.NoError(t, err)

	uploader := uuid.New()

	doc, err := document.Upload(db, store, club.ID, uploader, "../statuts.pdf", strings.NewReader("%PDF-1.4\nstatuts"))
	require.NoError(t, err)
	assert.Equal(t, "statuts.pdf", doc.Name)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.EqualValues(t, 16, doc.Size)
	assert.Equal(t, uploader, doc.UploadedBy)

	list, total, err := document.List(db, club.ID, query.Options{Page: 1, PageSize: 20, Search: "statuts"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, doc.ID, list[0].ID)

	got, rc, err := document.Open(db, store, club.ID, doc.ID)
	require.NoError(t, err)

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4\nstatuts", string(content))
	assert.Equal(t, doc.Name, got.Name)

	_, _, err = document.Open(db, store, uuid.New(), doc.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, document.Delete(db, store, club.ID, doc.ID))

	_, err = store.Open(doc.BlobKey)
	require.ErrorIs(t, err, blob.ErrNotFound)

	require.ErrorIs(t, document.Delete(db, store, club.ID, doc.ID), apperr.ErrNotFound)
}

func TestUploadTooLarge(t *testing.T) {
	db := dbtest.Open(t)
	club := &models.Club{Name: "Rotary Lyon", Version: 1}
	require.NoError(t, db.Create(club).Error)

	store, err := blob.NewFS(t.TempDir(), 4)
	require.NoError(t, err)

	_, err = document.Upload(db, store, club.ID, uuid.New(), "big.bin", bytes.NewReader([]byte("12345")))
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = document.Upload(db, store, club.ID, uuid.New(), "", bytes.NewReader([]byte("1")))
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = document.Upload(db, store, uuid.New(), uuid.New(), "a.txt", bytes.NewReader([]byte("1")))
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
