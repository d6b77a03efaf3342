package evenement_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/evenement"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/finance"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*gorm.DB, *models.Club, *models.Evenement) {
	t.Helper()

	db := dbtest.Open(t)
	club := &models.Club{Name: "Rotary Lyon", Version: 1}
	require.NoError(t, db.Create(club).Error)

	e, err := evenement.Create(db, club.ID, evenement.Input{
		Title: "Soirée jazz", Date: time.Date(2025, 11, 14, 20, 0, 0, 0, time.UTC), Place: "Salle Molière",
	})
	require.NoError(t, err)

	return db, club, e
}

func TestEventLifecycle(t *testing.T) {
	db, club, e := setup(t)

	_, err := evenement.Create(db, club.ID, evenement.Input{Title: "x", MandatID: ptr(uuid.New())})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	updated, err := evenement.Update(db, club.ID, e.ID, evenement.Input{Title: "Soirée jazz 2025", Date: e.Date, Version: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	_, err = evenement.Update(db, club.ID, e.ID, evenement.Input{Title: "stale", Date: e.Date, Version: 1})
	require.ErrorIs(t, err, apperr.ErrConflict)

	list, total, err := evenement.List(db, club.ID, query.Options{Page: 1, PageSize: 20, Search: "JAZZ"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, e.ID, list[0].ID)

	_, err = evenement.CreateLine(db, club.ID, e.ID, evenement.LineInput{Libelle: "Orchestre", Planned: dec("500")})
	require.NoError(t, err)

	require.NoError(t, evenement.Delete(db, club.ID, e.ID))

	var lines int64
	require.NoError(t, db.Model(&models.EvenementBudget{}).Count(&lines).Error)
	assert.Zero(t, lines)

	_, err = evenement.Get(db, club.ID, e.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBilan(t *testing.T) {
	db, club, e := setup(t)

	for _, in := range []evenement.LineInput{
		{Libelle: "Orchestre", Planned: dec("500"), Realized: dec("600")},
		{Libelle: "Traiteur", Planned: dec("1500"), Realized: dec("1400")},
	} {
		_, err := evenement.CreateLine(db, club.ID, e.ID, in)
		require.NoError(t, err)
	}

	for _, in := range []evenement.RecetteInput{
		{Libelle: "Billetterie", Amount: dec("2200")},
		{Libelle: "Tombola", Amount: dec("300")},
	} {
		_, err := evenement.CreateRecette(db, club.ID, e.ID, in)
		require.NoError(t, err)
	}

	bilan, err := evenement.GetBilan(db, club.ID, e.ID)
	require.NoError(t, err)

	assert.True(t, dec("2500").Equal(bilan.TotalRevenue))
	assert.True(t, dec("2000").Equal(bilan.TotalRealized))
	assert.True(t, dec("500").Equal(bilan.NetResult))
	assert.True(t, dec("20").Equal(bilan.Margin))
	assert.True(t, bilan.IsProfitable)

	require.Len(t, bilan.Lines, 2)
	assert.Equal(t, finance.StatusOverrun, bilan.Lines[0].Status)
	assert.Equal(t, finance.StatusInProgress, bilan.Lines[1].Status)
	assert.Len(t, bilan.Recettes, 2)
}

func TestBilanWithoutRevenue(t *testing.T) {
	db, club, e := setup(t)

	_, err := evenement.CreateLine(db, club.ID, e.ID, evenement.LineInput{Libelle: "Salle", Planned: dec("100"), Realized: dec("100")})
	require.NoError(t, err)

	bilan, err := evenement.GetBilan(db, club.ID, e.ID)
	require.NoError(t, err)

	assert.True(t, bilan.Margin.IsZero())
	assert.False(t, bilan.IsProfitable)
	assert.True(t, dec("-100").Equal(bilan.NetResult))
}

func TestLineValidation(t *testing.T) {
	db, club, e := setup(t)

	_, err := evenement.CreateLine(db, club.ID, e.ID, evenement.LineInput{Libelle: "x", Planned: dec("-1")})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = evenement.CreateRecette(db, club.ID, e.ID, evenement.RecetteInput{Libelle: "Don", Amount: decimal.Zero})
	require.ErrorIs(t, err, apperr.ErrValidation)

	other := &models.Club{Name: "Rotary Paris", Version: 1}
	require.NoError(t, db.Create(other).Error)

	_, err = evenement.Lines(db, other.ID, e.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	line, err := evenement.CreateLine(db, club.ID, e.ID, evenement.LineInput{Libelle: "Son", Planned: dec("100")})
	require.NoError(t, err)

	line, err = evenement.UpdateLine(db, club.ID, e.ID, line.ID, evenement.LineInput{Libelle: "Son", Planned: dec("100"), Realized: dec("90")})
	require.NoError(t, err)
	assert.Equal(t, finance.StatusInProgress, line.Status)

	require.NoError(t, evenement.DeleteLine(db, club.ID, e.ID, line.ID))
	require.ErrorIs(t, evenement.DeleteLine(db, club.ID, e.ID, line.ID), apperr.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
