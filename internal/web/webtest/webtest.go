// Package webtest builds a complete API on an in-memory database for handler tests.
package webtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/auth"
	"github.com/ClubAdmin/ClubAdmin/internal/blob"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/user"
	"github.com/ClubAdmin/ClubAdmin/internal/db/dbtest"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
	"github.com/ClubAdmin/ClubAdmin/internal/notify"
	"github.com/ClubAdmin/ClubAdmin/internal/tokenstore"
	"github.com/ClubAdmin/ClubAdmin/internal/web"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

// Secret signs the test tokens.
const Secret = "0123456789abcdef0123456789abcdef"

// ErrRejected is returned by Recorder for the recipients in Fail.
var ErrRejected = errors.New("recipient rejected")

// Recorder is a notify.Sender keeping every message.
type Recorder struct {
	mu   sync.Mutex
	Sent []notify.Message
	// Fail makes Send fail for these recipients.
	Fail map[string]bool
}

// Send implements notify.Sender.
func (r *Recorder) Send(_ context.Context, msg notify.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Fail[msg.To] {
		return "", ErrRejected
	}

	r.Sent = append(r.Sent, msg)

	return uuid.NewString(), nil
}

// Env is a running API with its collaborators.
type Env struct {
	App     *fiber.App
	DB      *gorm.DB
	Service *web.Service
	Tokens  *auth.TokenService
	Sender  *Recorder
	Faker   *gofakeit.Faker
}

// Option changes the configuration before the API is built.
type Option func(*config.Config)

// New builds the API.
func New(t *testing.T, opts ...Option) *Env {
	t.Helper()

	db := dbtest.Open(t)

	cfg := &config.Config{
		Title:     "ClubAdmin test",
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost", ShutDownTime: 1},
		Auth: config.Auth{
			JWTSecret:  Secret,
			Issuer:     "clubadmin-test",
			TokenTTL:   time.Hour,
			TOTPIssuer: "ClubAdmin",
		},
		Blob: config.Blob{Path: t.TempDir(), MaxSize: 1 << 20},
	}
	for _, o := range opts {
		o(cfg)
	}

	storage, err := tokenstore.NewGorm(db)
	require.NoError(t, err)

	revoked, err := tokenstore.New(storage)
	require.NoError(t, err)

	blobs, err := blob.NewFS(cfg.Blob.Path, cfg.Blob.MaxSize)
	require.NoError(t, err)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	recorder := &Recorder{Fail: map[string]bool{}}

	svc := web.New(cfg, db, &handler.Deps{
		Auth:   auth.NewService(db, tokens, revoked, cfg.Auth.TOTPIssuer),
		Gate:   access.NewGate(access.DBMemberships{DB: db}, access.DefaultPolicy()),
		Sender: recorder,
		Blobs:  blobs,
	})
	svc.SetAlive(true)

	return &Env{
		App:     svc.App,
		DB:      db,
		Service: svc,
		Tokens:  tokens,
		Sender:  recorder,
		Faker:   gofakeit.New(1),
	}
}

// User creates an account with a fake identity and the given roles.
func (e *Env) User(t *testing.T, username string, roles ...models.RoleName) *models.User {
	t.Helper()

	a, err := user.Create(e.DB, user.Input{
		Username:  username,
		Email:     username + "@example.org",
		Password:  "password-" + username,
		FirstName: e.Faker.FirstName(),
		LastName:  e.Faker.LastName(),
		Phone:     e.Faker.Phone(),
		Roles:     roles,
	})
	require.NoError(t, err)

	return &a.User
}

// Club creates a club and makes members of users.
func (e *Env) Club(t *testing.T, name string, members ...*models.User) *models.Club {
	t.Helper()

	club := &models.Club{Name: name, City: e.Faker.City(), Version: 1}
	require.NoError(t, e.DB.Create(club).Error)

	for _, u := range members {
		require.NoError(t, e.DB.Create(&models.UserClub{ClubID: club.ID, UserID: u.ID}).Error)
	}

	return club
}

// Token issues a bearer token for u.
func (e *Env) Token(t *testing.T, u *models.User) string {
	t.Helper()

	tok, err := e.Tokens.Issue(u)
	require.NoError(t, err)

	return tok.Value
}

// Do sends a request with an optional token and JSON body.
func (e *Env) Do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	return e.Send(t, req, token)
}

// Send sends req with an optional token.
func (e *Env) Send(t *testing.T, req *http.Request, token string) *http.Response {
	t.Helper()

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// Decode reads the JSON body of resp into a T.
func Decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}
