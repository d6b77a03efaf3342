package reunion_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/reunion"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/notify"
)

type recordingSender struct {
	sent []notify.Message
	fail string
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) (string, error) {
	if msg.To == s.fail {
		return "", errors.New("rejected")
	}

	s.sent = append(s.sent, msg)

	return uuid.NewString(), nil
}

func setup(t *testing.T) (*gorm.DB, *models.Club) {
	t.Helper()

	db := dbtest.Open(t)
	club := &models.Club{Name: "Rotary Lyon", Version: 1}
	require.NoError(t, db.Create(club).Error)

	return db, club
}

func join(t *testing.T, db *gorm.DB, clubID uuid.UUID, name, email, phone string) {
	t.Helper()

	u := &models.User{Username: name, Email: email, Phone: phone, Password: "x", LastName: name}
	require.NoError(t, db.Create(u).Error)
	require.NoError(t, db.Create(&models.UserClub{ClubID: clubID, UserID: u.ID}).Error)
}

func TestAgenda(t *testing.T) {
	db, club := setup(t)

	r, err := reunion.Create(db, club.ID, reunion.Input{Date: time.Now(), Type: "statutaire"})
	require.NoError(t, err)

	first, err := reunion.AddItem(db, club.ID, r.ID, reunion.ItemInput{Title: "Accueil"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)

	second, err := reunion.AddItem(db, club.ID, r.ID, reunion.ItemInput{Title: "Trésorerie"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)

	detail, err := reunion.Get(db, club.ID, r.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Accueil", detail.Items[0].Title)

	require.NoError(t, reunion.DeleteItem(db, club.ID, r.ID, first.ID))
	require.ErrorIs(t, reunion.DeleteItem(db, club.ID, r.ID, first.ID), apperr.ErrNotFound)

	updated, err := reunion.Update(db, club.ID, r.ID, reunion.Input{Date: r.Date, Type: "statutaire", Summary: "RAS", Version: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Len(t, updated.Items, 1)

	_, err = reunion.Update(db, club.ID, r.ID, reunion.Input{Date: r.Date, Type: "x", Version: 1})
	require.ErrorIs(t, err, apperr.ErrConflict)

	require.NoError(t, reunion.Delete(db, club.ID, r.ID))

	var items int64
	require.NoError(t, db.Model(&models.OrdreDuJour{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestSendSummary(t *testing.T) {
	db, club := setup(t)
	join(t, db, club.ID, "alice", "alice@example.org", "")
	join(t, db, club.ID, "bob", "bob@example.org", "")

	outsider := &models.User{Username: "eve", Email: "eve@example.org", Password: "x"}
	require.NoError(t, db.Create(outsider).Error)

	r, err := reunion.Create(db, club.ID, reunion.Input{
		Date: time.Date(2025, 3, 4, 19, 30, 0, 0, time.UTC), Type: "statutaire", Summary: "Budget adopté.",
	})
	require.NoError(t, err)

	_, err = reunion.AddItem(db, club.ID, r.ID, reunion.ItemInput{Title: "Budget"})
	require.NoError(t, err)

	sender := &recordingSender{fail: "bob@example.org"}

	res, err := reunion.SendSummary(context.Background(), db, sender, 0, club.ID, r.ID, notify.ChannelEmail)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "alice@example.org", msg.To)
	assert.Equal(t, notify.ChannelEmail, msg.Channel)
	assert.Equal(t, "Rotary Lyon - compte rendu de la réunion du 04/03/2025", msg.Subject)
	assert.Contains(t, msg.Body, "1. Budget")
	assert.Contains(t, msg.Body, "Budget adopté.")
}

func TestSendSummaryNeedsMinutes(t *testing.T) {
	db, club := setup(t)

	r, err := reunion.Create(db, club.ID, reunion.Input{Date: time.Now(), Type: "comité"})
	require.NoError(t, err)

	_, err = reunion.SendSummary(context.Background(), db, &recordingSender{}, 0, club.ID, r.ID, notify.ChannelEmail)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = reunion.SendSummary(context.Background(), db, &recordingSender{}, 0, uuid.New(), r.ID, notify.ChannelEmail)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSendSummaryWhatsApp(t *testing.T) {
	db, club := setup(t)
	join(t, db, club.ID, "alice", "alice@example.org", "+33611111111")
	join(t, db, club.ID, "bob", "bob@example.org", "")
	join(t, db, club.ID, "carol", "", "+33622222222")

	r, err := reunion.Create(db, club.ID, reunion.Input{
		Date: time.Date(2025, 3, 4, 19, 30, 0, 0, time.UTC), Type: "statutaire", Summary: "Budget adopté.",
	})
	require.NoError(t, err)

	sender := &recordingSender{}

	res, err := reunion.SendSummary(context.Background(), db, sender, 0, club.ID, r.ID, notify.ChannelWhatsApp)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Sent)
	require.Len(t, sender.sent, 2)

	var to []string
	for _, msg := range sender.sent {
		to = append(to, msg.To)

		assert.Equal(t, notify.ChannelWhatsApp, msg.Channel)
		assert.Empty(t, msg.Subject)
		assert.Contains(t, msg.Body, "Rotary Lyon - compte rendu de la réunion du 04/03/2025")
		assert.Contains(t, msg.Body, "Budget adopté.")
	}

	assert.ElementsMatch(t, []string{"+33611111111", "+33622222222"}, to)

	_, err = reunion.SendSummary(context.Background(), db, sender, 0, club.ID, r.ID, notify.Channel("sms"))
	require.ErrorIs(t, err, apperr.ErrValidation)
}
