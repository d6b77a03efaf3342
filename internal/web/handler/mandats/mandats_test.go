package mandats_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/mandat"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/web/webtest"
)

func TestMandatAndCommittees(t *testing.T) {
	env := webtest.New(t)

	president := env.User(t, "president", models.RolePresident)
	alice := env.User(t, "alice")
	club := env.Club(t, "Rotary Lyon", president, alice)
	token := env.Token(t, president)

	base := fmt.Sprintf("/api/clubs/%s/mandats", club.ID)

	resp := env.Do(t, http.MethodPost, base, token, mandat.Input{Year: 2025})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	m := webtest.Decode[models.Mandat](t, resp)
	item := base + "/" + m.ID.String()

	resp = env.Do(t, http.MethodPost, base, token, mandat.Input{Year: 2025})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "one mandat per year")

	resp = env.Do(t, http.MethodPut, item, token, mandat.Input{Year: 2025, Description: "stale", Version: m.Version + 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.Do(t, http.MethodPost, item+"/comites", token, mandat.ComiteInput{Name: "Action jeunesse"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	comite := webtest.Decode[models.Comite](t, resp)

	resp = env.Do(t, http.MethodPost, item+"/membres", token, mandat.SeatInput{ComiteID: comite.ID, UserID: alice.ID, Fonction: "Responsable"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.Do(t, http.MethodGet, item+"/membres", env.Token(t, alice), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	seats := webtest.Decode[[]mandat.Seat](t, resp)
	require.Len(t, seats, 1)
	assert.Equal(t, "Action jeunesse", seats[0].ComiteName)
	assert.Equal(t, "Responsable", seats[0].Fonction)

	resp = env.Do(t, http.MethodDelete, item, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "committees remain")

	resp = env.Do(t, http.MethodDelete, item+"/membres/"+seats[0].ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.Do(t, http.MethodDelete, item+"/comites/"+comite.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.Do(t, http.MethodDelete, item, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
