// Package mandats serves mandats, their committees and the committee seats.
package mandats

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/mandat"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and creates mandats.
	Path = handler.ClubPath + "/mandats"
	// ItemPath addresses one mandat.
	ItemPath = Path + "/:mandatId"
	// ComitesPath lists and creates the committees of a mandat.
	ComitesPath = ItemPath + "/comites"
	// ComitePath addresses one committee.
	ComitePath = ComitesPath + "/:comiteId"
	// SeatsPath lists and adds committee members of a mandat.
	SeatsPath = ItemPath + "/membres"
	// SeatPath addresses one seat.
	SeatPath = SeatsPath + "/:seatId"
)

// Service is the mandat handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the mandat handler.
var Handler = Service{}

// Init registers the mandat routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	read := access.RequireClub(deps.Gate, access.ReadOf(access.ResourceMandat))
	write := access.RequireClub(deps.Gate, access.WriteOf(access.ResourceMandat))
	readComite := access.RequireClub(deps.Gate, access.ReadOf(access.ResourceComite))
	writeComite := access.RequireClub(deps.Gate, access.WriteOf(access.ResourceComite))

	app.Get(Path, read, s.List)
	app.Post(Path, write, s.Create)
	app.Get(ItemPath, read, s.Get)
	app.Put(ItemPath, write, s.Update)
	app.Delete(ItemPath, write, s.Delete)

	app.Get(ComitesPath, readComite, s.Comites)
	app.Post(ComitesPath, writeComite, s.CreateComite)
	app.Put(ComitePath, writeComite, s.UpdateComite)
	app.Delete(ComitePath, writeComite, s.DeleteComite)

	app.Get(SeatsPath, readComite, s.Seats)
	app.Post(SeatsPath, writeComite, s.AddSeat)
	app.Delete(SeatPath, writeComite, s.RemoveSeat)
}

// List returns a page of mandats.
func (s *Service) List(c *fiber.Ctx) error {
	opts, err := query.Parse(c, controller.Sortable, "annee")
	if err != nil {
		return err
	}

	mandats, total, err := controller.List(s.db, access.ClubID(c), opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, mandats, total)
}

// Get returns one mandat.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	m, err := controller.Get(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(m)
}

// Create adds a mandat.
func (s *Service) Create(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	m, err := controller.Create(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, m)
}

// Update replaces a mandat, version must match.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	var in controller.Input
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	m, err := controller.Update(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return c.JSON(m)
}

// Delete removes a mandat without committees or budget lines.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	if err = controller.Delete(s.db, access.ClubID(c), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
