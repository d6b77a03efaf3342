// Package clubs serves the club resource.
package clubs

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/club"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and creates clubs.
	Path = handler.APIPath + "/clubs"
	// ItemPath addresses one club.
	ItemPath = handler.ClubPath
)

// Service is the club handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the club handler.
var Handler = Service{}

// Init registers the club routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	app.Get(Path, s.List)
	app.Post(Path, access.RequireAdmin(), s.Create)
	app.Get(ItemPath, access.RequireClub(deps.Gate, access.ReadOf(access.ResourceClub)), s.Get)
	app.Put(ItemPath, access.RequireClub(deps.Gate, access.WriteOf(access.ResourceClub)), s.Update)
	app.Delete(ItemPath, access.RequireAdmin(), access.RequireClub(deps.Gate, access.WriteOf(access.ResourceClub)), s.Delete)
}

// List returns every club to an administrator, the caller's clubs otherwise.
func (s *Service) List(c *fiber.Ctx) error {
	caller, ok := access.CallerFrom(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	opts, err := query.Parse(c, controller.Sortable, "nom")
	if err != nil {
		return err
	}

	var member = &caller.UserID
	if caller.IsAdmin() {
		member = nil
	}

	clubs, total, err := controller.List(s.db, member, opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, clubs, total)
}

// Get returns one club.
func (s *Service) Get(c *fiber.Ctx) error {
	club, err := controller.Get(s.db, access.ClubID(c))
	if err != nil {
		return err
	}

	return c.JSON(club)
}

// Create adds a club.
func (s *Service) Create(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	club, err := controller.Create(s.db, in)
	if err != nil {
		return err
	}

	return handler.Created(c, club)
}

// Update replaces a club, version must match.
func (s *Service) Update(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	club, err := controller.Update(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return c.JSON(club)
}

// Delete removes a club without members or committees.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := controller.Delete(s.db, access.ClubID(c)); err != nil {
		return err
	}

	return handler.NoContent(c)
}
