// Package auth serves login, logout, two factor enrolment and the caller profile.
package auth

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/auth"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/user"
	"github.com/ClubAdmin/ClubAdmin/internal/ratelimit"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// LoginPath is the only API path served without a token.
	LoginPath = handler.APIPath + "/auth/login"
	// LogoutPath revokes the current token.
	LogoutPath = handler.APIPath + "/auth/logout"
	// TOTPPath enrols (POST) or disables (DELETE) two factor authentication.
	TOTPPath = handler.APIPath + "/auth/totp"
	// MePath returns the caller profile.
	MePath = handler.APIPath + "/me"
)

// LoginRequest is the body of a login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=128"`
	OTP      string `json:"otp"      validate:"omitempty,numeric,len=6"`
}

// LoginResponse carries the token and the authenticated account.
type LoginResponse struct {
	auth.Token
	User user.Account `json:"user"`
}

// TOTPRequest confirms a two factor change.
type TOTPRequest struct {
	OTP string `json:"otp" validate:"required,numeric,len=6"`
}

// Service is the authentication handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	auth      *auth.Service
	validator *validator.Validate
}

// Handler is the authentication handler.
var Handler = Service{}

// Init registers the authentication routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.auth = deps.Auth
	s.validator = handler.NewValidator()

	login := []fiber.Handler{s.Login}
	if deps.Limiter != nil {
		login = append([]fiber.Handler{ratelimit.Middleware(deps.Limiter)}, login...)
	}

	app.Post(LoginPath, login...)
	app.Post(LogoutPath, s.Logout)
	app.Post(TOTPPath, s.EnrollTOTP)
	app.Delete(TOTPPath, s.DisableTOTP)
	app.Get(MePath, s.Me)
}

// translate maps authentication failures to their kind.
func translate(err error) error {
	switch {
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return &apperr.Error{Kind: apperr.KindForbidden, Message: err.Error(), Err: err}
	case errors.Is(err, auth.ErrTOTPAlreadyEnabled):
		return &apperr.Error{Kind: apperr.KindValidation, Message: err.Error(), Err: err}
	case auth.IsAuthError(err):
		return &apperr.Error{Kind: apperr.KindUnauthorized, Message: err.Error(), Err: err}
	default:
		return apperr.FromDB(err, "user")
	}
}

// Login checks the credentials and issues a token.
func (s *Service) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := handler.Bind(c, s.validator, &req); err != nil {
		return err
	}

	token, u, err := s.auth.Login(c.UserContext(), req.Username, req.Password, req.OTP)
	if err != nil {
		return translate(err)
	}

	log.Info().Str("user", u.Username).Str("ip", c.IP()).Msg("login")

	return c.JSON(LoginResponse{Token: token, User: user.Account{User: *u, RoleNames: u.RoleNames()}})
}

// Logout revokes the token of the request.
func (s *Service) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	if err := s.auth.Logout(claims); err != nil {
		if auth.IsAuthError(err) {
			return translate(err)
		}

		return apperr.Internal(err, "failed to revoke token")
	}

	return handler.NoContent(c)
}

// EnrollTOTP creates a secret for the caller and returns its otpauth URL.
func (s *Service) EnrollTOTP(c *fiber.Ctx) error {
	caller, ok := access.CallerFrom(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	url, err := s.auth.EnrollTOTP(c.UserContext(), caller.UserID)
	if err != nil {
		return translate(err)
	}

	return handler.Created(c, fiber.Map{"otpauthUrl": url})
}

// DisableTOTP removes the secret of the caller after checking a current code.
func (s *Service) DisableTOTP(c *fiber.Ctx) error {
	caller, ok := access.CallerFrom(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	var req TOTPRequest
	if err := handler.Bind(c, s.validator, &req); err != nil {
		return err
	}

	if err := s.auth.DisableTOTP(c.UserContext(), caller.UserID, req.OTP); err != nil {
		return translate(err)
	}

	return handler.NoContent(c)
}

// Me returns the caller with its roles and clubs.
func (s *Service) Me(c *fiber.Ctx) error {
	caller, ok := access.CallerFrom(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	profile, err := user.Me(s.db, caller.UserID)
	if err != nil {
		return err
	}

	return c.JSON(profile)
}
