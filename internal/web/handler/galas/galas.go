// Package galas serves galas with their tables, invites, seating and tickets.
package galas

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/gala"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and creates galas.
	Path = handler.ClubPath + "/galas"
	// ItemPath addresses one gala.
	ItemPath = Path + "/:galaId"
	// TablesPath lists and creates tables.
	TablesPath = ItemPath + "/tables"
	// InvitesPath lists and creates invites.
	InvitesPath = ItemPath + "/invites"
	// AffectationsPath lists and creates seats.
	AffectationsPath = ItemPath + "/affectations"
	// AffectationsBatchPath seats several invites, each item succeeds or fails on its own.
	AffectationsBatchPath = AffectationsPath + "/batch"
	// DistributePath seats every unassigned invite round robin.
	DistributePath = AffectationsPath + "/distribuer"
	// TicketsPath lists and creates ticket purchases.
	TicketsPath = ItemPath + "/tickets"
	// TicketsSynthesePath sums the tickets sold.
	TicketsSynthesePath = TicketsPath + "/synthese"
)

// Service is the gala handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the gala handler.
var Handler = Service{}

// Init registers the gala routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	read := access.RequireClub(deps.Gate, access.ReadOf(access.ResourceGala))
	write := access.RequireClub(deps.Gate, access.WriteOf(access.ResourceGala))

	app.Get(Path, read, s.List)
	app.Post(Path, write, s.Create)
	app.Get(ItemPath, read, s.Get)
	app.Put(ItemPath, write, s.Update)
	app.Delete(ItemPath, write, s.Delete)

	app.Get(TablesPath, read, s.Tables)
	app.Post(TablesPath, write, s.CreateTable)
	app.Delete(TablesPath+"/:id", write, s.DeleteTable)

	app.Get(InvitesPath, read, s.Invites)
	app.Post(InvitesPath, write, s.CreateInvite)
	app.Delete(InvitesPath+"/:id", write, s.DeleteInvite)

	app.Get(AffectationsPath, read, s.Affectations)
	app.Post(AffectationsPath, write, s.Assign)
	app.Post(AffectationsBatchPath, write, s.AssignBatch)
	app.Post(DistributePath, write, s.Distribute)
	app.Delete(AffectationsPath+"/:id", write, s.Unassign)

	app.Get(TicketsPath, read, s.Tickets)
	app.Post(TicketsPath, write, s.CreateTickets)
	app.Get(TicketsSynthesePath, read, s.TicketSynthese)
	app.Delete(TicketsPath+"/:id", write, s.DeleteTicket)
}

// galaAnd returns the gala id and the child id of the route.
func galaAnd(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	id, err := handler.UUIDParam(c, "id")

	return galaID, id, err
}

// bindBatch decodes a non empty JSON array.
func bindBatch[T any](c *fiber.Ctx) ([]T, error) {
	var items []T
	if err := c.BodyParser(&items); err != nil {
		return nil, &apperr.Error{Kind: apperr.KindValidation, Message: "invalid request body", Err: err}
	}

	if len(items) == 0 {
		return nil, apperr.Validation("at least one item is required")
	}

	return items, nil
}

// List returns a page of galas.
func (s *Service) List(c *fiber.Ctx) error {
	opts, err := query.Parse(c, controller.Sortable, "date")
	if err != nil {
		return err
	}

	galas, total, err := controller.List(s.db, access.ClubID(c), opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, galas, total)
}

// Get returns one gala.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	g, err := controller.Get(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(g)
}

// Create adds a gala.
func (s *Service) Create(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	g, err := controller.Create(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, g)
}

// Update replaces a gala.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	var in controller.Input
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	g, err := controller.Update(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return c.JSON(g)
}

// Delete removes a gala with everything below it.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	if err = controller.Delete(s.db, access.ClubID(c), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
