package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/auth"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/document"
	"github.com/ClubAdmin/ClubAdmin/internal/notify"
	"github.com/ClubAdmin/ClubAdmin/internal/ratelimit"
)

// Deps are the collaborators shared by the handlers.
type Deps struct {
	Auth   *auth.Service
	Gate   *access.Gate
	Sender notify.Sender
	Blobs  document.Store
	// Limiter throttles login, nil disables it.
	Limiter ratelimit.Limiter
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *Deps)
}
