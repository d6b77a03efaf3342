// Package users serves the administration of accounts.
package users

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/user"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and creates accounts.
	Path = handler.APIPath + "/users"
	// ItemPath addresses one account.
	ItemPath = Path + "/:id"
)

// Service is the user administration handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the user administration handler.
var Handler = Service{}

// Init registers the administration routes, all restricted to administrators.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	admin := access.RequireAdmin()

	app.Get(Path, admin, s.List)
	app.Post(Path, admin, s.Create)
	app.Get(ItemPath, admin, s.Get)
	app.Put(ItemPath+"/roles", admin, s.SetRoles)
	app.Patch(ItemPath+"/active", admin, s.SetActive)
}

// List returns a page of accounts.
func (s *Service) List(c *fiber.Ctx) error {
	opts, err := query.Parse(c, controller.Sortable, "username")
	if err != nil {
		return err
	}

	accounts, total, err := controller.List(s.db, opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, accounts, total)
}

// Get returns one account.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	a, err := controller.Get(s.db, id)
	if err != nil {
		return err
	}

	return c.JSON(a)
}

// Create adds an account.
func (s *Service) Create(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	a, err := controller.Create(s.db, in)
	if err != nil {
		return err
	}

	log.Info().Str("user", a.Username).Msg("account created")

	return handler.Created(c, a)
}

// SetRoles replaces the global roles of an account.
func (s *Service) SetRoles(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.RolesInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	a, err := controller.SetRoles(s.db, id, in)
	if err != nil {
		return err
	}

	return c.JSON(a)
}

// SetActive enables or disables an account.
func (s *Service) SetActive(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.ActiveInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	a, err := controller.SetActive(s.db, id, *in.Active)
	if err != nil {
		return err
	}

	return c.JSON(a)
}
