package club_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/club"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

func page() query.Options {
	return query.Options{Page: 1, PageSize: 20, Column: "clubs.name"}
}

func createClub(t *testing.T, db *gorm.DB, name string) *models.Club {
	t.Helper()

	c, err := club.Create(db, club.Input{Name: name, City: "Lyon", MeetingDay: "Mardi", MeetingTime: "19:30"})
	require.NoError(t, err)

	return c
}

func TestCreate(t *testing.T) {
	db := dbtest.Open(t)

	c := createClub(t, db, "Rotary Lyon")
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "mardi", c.MeetingDay)
	assert.Equal(t, 1, c.Version)

	_, err := club.Create(db, club.Input{Name: "Rotary Lyon"})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateRejectsWeekendMeetingDay(t *testing.T) {
	db := dbtest.Open(t)

	for _, day := range []string{"samedi", "dimanche", "someday"} {
		_, err := club.Create(db, club.Input{Name: "Club " + day, MeetingDay: day})
		require.ErrorIs(t, err, apperr.ErrValidation, day)

		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "jourReunion")
	}
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)

	lyon := createClub(t, db, "Rotary Lyon")
	createClub(t, db, "Rotary Paris")

	all, total, err := club.List(db, nil, page())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	member := uuid.New()
	require.NoError(t, db.Create(&models.UserClub{ClubID: lyon.ID, UserID: member}).Error)

	mine, total, err := club.List(db, &member, page())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, lyon.ID, mine[0].ID)

	opts := page()
	opts.Search = "paris"

	found, total, err := club.List(db, nil, opts)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Rotary Paris", found[0].Name)
}

func TestUpdate(t *testing.T) {
	db := dbtest.Open(t)

	c := createClub(t, db, "Rotary Lyon")
	other := createClub(t, db, "Rotary Paris")

	updated, err := club.Update(db, c.ID, club.Input{Name: "Rotary Lyon Est", MeetingDay: "jeudi", Version: 1})
	require.NoError(t, err)
	assert.Equal(t, "Rotary Lyon Est", updated.Name)
	assert.Equal(t, 2, updated.Version)

	_, err = club.Update(db, c.ID, club.Input{Name: "Rotary Lyon Ouest", Version: 1})
	require.ErrorIs(t, err, apperr.ErrConflict)

	_, err = club.Update(db, c.ID, club.Input{Name: other.Name, Version: 2})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = club.Update(db, uuid.New(), club.Input{Name: "Ghost", Version: 1})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteBlockedByChildren(t *testing.T) {
	db := dbtest.Open(t)

	c := createClub(t, db, "Rotary Lyon")
	member := models.UserClub{ClubID: c.ID, UserID: uuid.New()}
	require.NoError(t, db.Create(&member).Error)

	require.ErrorIs(t, club.Delete(db, c.ID), apperr.ErrValidation)

	require.NoError(t, db.Delete(&member).Error)

	mandat := &models.Mandat{ClubID: c.ID, Year: 2025, Version: 1}
	require.NoError(t, db.Create(mandat).Error)
	require.NoError(t, db.Create(&models.Comite{MandatID: mandat.ID, Name: "Action"}).Error)

	require.ErrorIs(t, club.Delete(db, c.ID), apperr.ErrValidation)

	require.NoError(t, db.Where("mandat_id = ?", mandat.ID).Delete(&models.Comite{}).Error)
	require.NoError(t, club.Delete(db, c.ID))

	require.ErrorIs(t, club.Delete(db, c.ID), apperr.ErrNotFound)
}
