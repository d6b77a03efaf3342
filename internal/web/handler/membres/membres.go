// Package membres serves the members of a club.
package membres

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/member"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and adds members.
	Path = handler.ClubPath + "/membres"
	// ItemPath addresses one member by user id.
	ItemPath = Path + "/:userId"
)

// Service is the member handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the member handler.
var Handler = Service{}

// Init registers the member routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	read := access.RequireClub(deps.Gate, access.ReadOf(access.ResourceMember))
	write := access.RequireClub(deps.Gate, access.WriteOf(access.ResourceMember))

	app.Get(Path, read, s.List)
	app.Post(Path, write, s.Add)
	app.Get(ItemPath, read, s.Get)
	app.Delete(ItemPath, write, s.Remove)
}

// List returns a page of members.
func (s *Service) List(c *fiber.Ctx) error {
	opts, err := query.Parse(c, controller.Sortable, "nom")
	if err != nil {
		return err
	}

	members, total, err := controller.List(s.db, access.ClubID(c), opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, members, total)
}

// Get returns one member.
func (s *Service) Get(c *fiber.Ctx) error {
	userID, err := handler.UUIDParam(c, "userId")
	if err != nil {
		return err
	}

	m, err := controller.Get(s.db, access.ClubID(c), userID)
	if err != nil {
		return err
	}

	return c.JSON(m)
}

// Add makes a user member of the club.
func (s *Service) Add(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	m, err := controller.Add(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, m)
}

// Remove ends a membership.
func (s *Service) Remove(c *fiber.Ctx) error {
	userID, err := handler.UUIDParam(c, "userId")
	if err != nil {
		return err
	}

	if err = controller.Remove(s.db, access.ClubID(c), userID); err != nil {
		return err
	}

	return handler.NoContent(c)
}
