package paiements_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/paiement"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web"
	"github.com/ClubAdmin/ClubAdmin/internal/web/webtest"
)

func TestPayments(t *testing.T) {
	env := webtest.New(t)

	treasurer := env.User(t, "treasurer", models.RoleTreasurer)
	alice := env.User(t, "alice")
	club := env.Club(t, "Rotary Lyon", treasurer, alice)
	token := env.Token(t, treasurer)

	base := fmt.Sprintf("/api/clubs/%s/paiements", club.ID)

	for _, in := range []paiement.Input{
		{UserID: alice.ID, Amount: decimal.RequireFromString("120.50"), Mode: "Virement"},
		{UserID: alice.ID, Amount: decimal.NewFromInt(30), Mode: "especes"},
		{UserID: treasurer.ID, Amount: decimal.NewFromInt(100)},
	} {
		resp := env.Do(t, http.MethodPost, base, token, in)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := env.Do(t, http.MethodPost, base, token, paiement.Input{UserID: alice.ID, Amount: decimal.NewFromInt(10), Mode: "bitcoin"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, webtest.Decode[web.ErrorBody](t, resp).Fields, "mode")

	resp = env.Do(t, http.MethodPost, base, token, paiement.Input{UserID: alice.ID, Amount: decimal.Zero})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, webtest.Decode[web.ErrorBody](t, resp).Fields, "montant")

	resp = env.Do(t, http.MethodGet, base+"?userId="+alice.ID.String()+"&pageSize=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get(query.HeaderTotalCount))
	assert.Equal(t, "2", resp.Header.Get(query.HeaderTotalPages))
	assert.Len(t, webtest.Decode[[]models.Paiement](t, resp), 1)

	resp = env.Do(t, http.MethodGet, base+"/synthese", env.Token(t, alice), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s := webtest.Decode[paiement.Summary](t, resp)
	assert.Equal(t, 3, s.Payments)
	assert.True(t, decimal.RequireFromString("250.50").Equal(s.Total), s.Total.String())
	require.Len(t, s.PerMember, 2)

	totals := map[string]decimal.Decimal{}
	for _, m := range s.PerMember {
		totals[m.UserID.String()] = m.Total
	}

	assert.True(t, decimal.RequireFromString("150.50").Equal(totals[alice.ID.String()]))
	assert.True(t, decimal.NewFromInt(100).Equal(totals[treasurer.ID.String()]))
}

func TestPaymentForNonMember(t *testing.T) {
	env := webtest.New(t)

	treasurer := env.User(t, "treasurer", models.RoleTreasurer)
	outsider := env.User(t, "outsider")
	club := env.Club(t, "Rotary Lyon", treasurer)

	resp := env.Do(t, http.MethodPost, fmt.Sprintf("/api/clubs/%s/paiements", club.ID), env.Token(t, treasurer),
		paiement.Input{UserID: outsider.ID, Amount: decimal.NewFromInt(10)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, webtest.Decode[web.ErrorBody](t, resp).Error, "not a member")
}
