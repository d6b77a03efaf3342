package auth_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/user"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	authhandler "github.com/ClubAdmin/ClubAdmin/internal/web/handler/auth"
	"github.com/ClubAdmin/ClubAdmin/internal/web/webtest"
)

func login(t *testing.T, env *webtest.Env, username, password, otp string) *http.Response {
	t.Helper()

	return env.Do(t, http.MethodPost, authhandler.LoginPath, "", authhandler.LoginRequest{
		Username: username, Password: password, OTP: otp,
	})
}

func TestLogin(t *testing.T) {
	env := webtest.New(t)
	u := env.User(t, "marie", models.RoleTreasurer)

	resp := login(t, env, "marie", "password-marie", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := webtest.Decode[authhandler.LoginResponse](t, resp)
	assert.NotEmpty(t, body.Value)
	assert.True(t, body.ExpiresAt.After(time.Now()))
	assert.Equal(t, u.ID, body.User.ID)
	assert.Equal(t, []models.RoleName{models.RoleTreasurer}, body.User.RoleNames)

	resp = env.Do(t, http.MethodGet, authhandler.MePath, body.Value, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "marie", webtest.Decode[user.Profile](t, resp).Username)

	assert.Equal(t, http.StatusUnauthorized, login(t, env, "marie", "wrong", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, login(t, env, "nobody", "password-marie", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, login(t, env, "", "", "").StatusCode)

	_, err := user.SetActive(env.DB, u.ID, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, login(t, env, "marie", "password-marie", "").StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := webtest.New(t)
	u := env.User(t, "paul")
	token := env.Token(t, u)

	assert.Equal(t, http.StatusOK, env.Do(t, http.MethodGet, authhandler.MePath, token, nil).StatusCode)
	assert.Equal(t, http.StatusNoContent, env.Do(t, http.MethodPost, authhandler.LogoutPath, token, nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, env.Do(t, http.MethodGet, authhandler.MePath, token, nil).StatusCode)
}

func TestTOTP(t *testing.T) {
	env := webtest.New(t)
	u := env.User(t, "claire")
	token := env.Token(t, u)

	resp := env.Do(t, http.MethodPost, authhandler.TOTPPath, token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw := webtest.Decode[map[string]string](t, resp)["otpauthUrl"]
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	secret := parsed.Query().Get("secret")
	require.NotEmpty(t, secret)

	// enrolling twice is refused
	assert.Equal(t, http.StatusBadRequest, env.Do(t, http.MethodPost, authhandler.TOTPPath, token, nil).StatusCode)

	assert.Equal(t, http.StatusUnauthorized, login(t, env, "claire", "password-claire", "").StatusCode)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, login(t, env, "claire", "password-claire", code).StatusCode)

	resp = env.Do(t, http.MethodDelete, authhandler.TOTPPath, token, authhandler.TOTPRequest{OTP: "000000"})
	if code != "000000" {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp = env.Do(t, http.MethodDelete, authhandler.TOTPPath, token, authhandler.TOTPRequest{OTP: code})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, http.StatusOK, login(t, env, "claire", "password-claire", "").StatusCode)
}
