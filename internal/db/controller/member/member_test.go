package member_test

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/member"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

func fakeUser(t *testing.T, db *gorm.DB, lastName string) *models.User {
	t.Helper()

	u := &models.User{
		Username:  gofakeit.Username() + uuid.NewString()[:8],
		Email:     strings.ToLower(lastName) + "@example.org",
		Password:  "x",
		FirstName: "Jean",
		LastName:  lastName,
		Phone:     gofakeit.Phone(),
	}
	require.NoError(t, db.Create(u).Error)

	return u
}

func setup(t *testing.T) (*gorm.DB, *models.Club) {
	t.Helper()

	db := dbtest.Open(t)
	club := &models.Club{Name: "Rotary Lyon", Version: 1}
	require.NoError(t, db.Create(club).Error)

	return db, club
}

func TestAddAndList(t *testing.T) {
	db, club := setup(t)

	martin := fakeUser(t, db, "Martin")
	bernard := fakeUser(t, db, "Bernard")

	joined := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	m, err := member.Add(db, club.ID, member.Input{UserID: martin.ID, JoinedAt: &joined})
	require.NoError(t, err)
	assert.Equal(t, martin.Email, m.Email)
	assert.True(t, joined.Equal(m.JoinedAt))

	_, err = member.Add(db, club.ID, member.Input{UserID: bernard.ID})
	require.NoError(t, err)

	list, total, err := member.List(db, club.ID, query.Options{Page: 1, PageSize: 10, Column: "users.last_name"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Bernard", list[0].LastName)
	assert.Equal(t, "Martin", list[1].LastName)

	list, total, err = member.List(db, club.ID, query.Options{Page: 1, PageSize: 10, Search: "mart"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, martin.ID, list[0].UserID)
}

func TestAddRejects(t *testing.T) {
	db, club := setup(t)
	u := fakeUser(t, db, "Martin")

	_, err := member.Add(db, club.ID, member.Input{UserID: u.ID})
	require.NoError(t, err)

	_, err = member.Add(db, club.ID, member.Input{UserID: u.ID})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = member.Add(db, club.ID, member.Input{UserID: uuid.New()})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = member.Add(db, uuid.New(), member.Input{UserID: u.ID})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveFreesCommitteeSeats(t *testing.T) {
	db, club := setup(t)
	u := fakeUser(t, db, "Martin")

	_, err := member.Add(db, club.ID, member.Input{UserID: u.ID})
	require.NoError(t, err)

	mandat := &models.Mandat{ClubID: club.ID, Year: 2025, Version: 1}
	require.NoError(t, db.Create(mandat).Error)

	comite := &models.Comite{MandatID: mandat.ID, Name: "Action"}
	require.NoError(t, db.Create(comite).Error)
	require.NoError(t, db.Create(&models.ComiteMembre{MandatID: mandat.ID, ComiteID: comite.ID, UserID: u.ID}).Error)

	require.NoError(t, member.Remove(db, club.ID, u.ID))

	var seats int64
	require.NoError(t, db.Model(&models.ComiteMembre{}).Count(&seats).Error)
	assert.Zero(t, seats)

	require.ErrorIs(t, member.Remove(db, club.ID, u.ID), apperr.ErrNotFound)
	require.ErrorIs(t, member.Require(db, club.ID, u.ID), apperr.ErrValidation)
}
