package paiement_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/paiement"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

func join(t *testing.T, db *gorm.DB, clubID uuid.UUID, name string) *models.User {
	t.Helper()

	u := &models.User{Username: name, Email: name + "@example.org", Password: "x", LastName: name}
	require.NoError(t, db.Create(u).Error)
	require.NoError(t, db.Create(&models.UserClub{ClubID: clubID, UserID: u.ID}).Error)

	return u
}

func TestPayments(t *testing.T) {
	db := dbtest.Open(t)
	club := &models.Club{Name: "Rotary Lyon", Version: 1}
	require.NoError(t, db.Create(club).Error)

	alice := join(t, db, club.ID, "alice")
	bob := join(t, db, club.ID, "bob")

	for _, in := range []paiement.Input{
		{UserID: alice.ID, Amount: decimal.NewFromInt(150), Mode: "Virement"},
		{UserID: alice.ID, Amount: decimal.RequireFromString("50.50"), Mode: "cheque"},
		{UserID: bob.ID, Amount: decimal.NewFromInt(200)},
	} {
		_, err := paiement.Create(db, club.ID, in)
		require.NoError(t, err)
	}

	_, err := paiement.Create(db, club.ID, paiement.Input{UserID: alice.ID, Amount: decimal.Zero})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = paiement.Create(db, club.ID, paiement.Input{UserID: uuid.New(), Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, apperr.ErrValidation)

	summary, err := paiement.Synthese(db, club.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Payments)
	assert.True(t, decimal.RequireFromString("400.50").Equal(summary.Total), summary.Total.String())
	require.Len(t, summary.PerMember, 2)
	assert.Equal(t, "alice", summary.PerMember[0].LastName)
	assert.Equal(t, 2, summary.PerMember[0].Payments)
	assert.True(t, decimal.RequireFromString("200.50").Equal(summary.PerMember[0].Total))

	list, total, err := paiement.List(db, club.ID, &bob.ID, query.Options{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	require.NoError(t, paiement.Delete(db, club.ID, list[0].ID))
	require.ErrorIs(t, paiement.Delete(db, club.ID, list[0].ID), apperr.ErrNotFound)

	list, _, err = paiement.List(db, club.ID, nil, query.Options{Page: 1, PageSize: 20, Search: "virement"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "virement", list[0].Mode)
}
