// Package evenements serves club events, their budget lines, revenues and result.
package evenements

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/evenement"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and creates events.
	Path = handler.ClubPath + "/evenements"
	// ItemPath addresses one event.
	ItemPath = Path + "/:id"
	// LinesPath lists and creates the budget lines of an event.
	LinesPath = ItemPath + "/budgets"
	// LinePath addresses one budget line.
	LinePath = LinesPath + "/:lineId"
	// RecettesPath lists and creates the revenues of an event.
	RecettesPath = ItemPath + "/recettes"
	// RecettePath addresses one revenue.
	RecettePath = RecettesPath + "/:recetteId"
	// BilanPath returns the financial result of an event.
	BilanPath = ItemPath + "/bilan"
)

// Service is the event handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the event handler.
var Handler = Service{}

// Init registers the event routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	read := access.RequireClub(deps.Gate, access.ReadOf(access.ResourceEvenement))
	write := access.RequireClub(deps.Gate, access.WriteOf(access.ResourceEvenement))

	app.Get(Path, read, s.List)
	app.Post(Path, write, s.Create)
	app.Get(ItemPath, read, s.Get)
	app.Put(ItemPath, write, s.Update)
	app.Delete(ItemPath, write, s.Delete)

	app.Get(LinesPath, read, s.Lines)
	app.Post(LinesPath, write, s.CreateLine)
	app.Put(LinePath, write, s.UpdateLine)
	app.Delete(LinePath, write, s.DeleteLine)

	app.Get(RecettesPath, read, s.Recettes)
	app.Post(RecettesPath, write, s.CreateRecette)
	app.Delete(RecettePath, write, s.DeleteRecette)

	app.Get(BilanPath, read, s.Bilan)
}

// eventAnd returns the event id and the child id named param.
func eventAnd(c *fiber.Ctx, param string) (uuid.UUID, uuid.UUID, error) {
	eventID, err := handler.UUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	id, err := handler.UUIDParam(c, param)

	return eventID, id, err
}

// List returns a page of events.
func (s *Service) List(c *fiber.Ctx) error {
	opts, err := query.Parse(c, controller.Sortable, "date")
	if err != nil {
		return err
	}

	events, total, err := controller.List(s.db, access.ClubID(c), opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, events, total)
}

// Get returns one event.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	e, err := controller.Get(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(e)
}

// Create adds an event.
func (s *Service) Create(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	e, err := controller.Create(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, e)
}

// Update replaces an event, version must match.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.Input
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	e, err := controller.Update(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return c.JSON(e)
}

// Delete removes an event with its lines and revenues.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err = controller.Delete(s.db, access.ClubID(c), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Lines lists the budget lines of an event with their figures.
func (s *Service) Lines(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	lines, err := controller.Lines(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(lines)
}

// CreateLine adds a budget line.
func (s *Service) CreateLine(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.LineInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	line, err := controller.CreateLine(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return handler.Created(c, line)
}

// UpdateLine replaces a budget line.
func (s *Service) UpdateLine(c *fiber.Ctx) error {
	eventID, id, err := eventAnd(c, "lineId")
	if err != nil {
		return err
	}

	var in controller.LineInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	line, err := controller.UpdateLine(s.db, access.ClubID(c), eventID, id, in)
	if err != nil {
		return err
	}

	return c.JSON(line)
}

// DeleteLine removes a budget line.
func (s *Service) DeleteLine(c *fiber.Ctx) error {
	eventID, id, err := eventAnd(c, "lineId")
	if err != nil {
		return err
	}

	if err = controller.DeleteLine(s.db, access.ClubID(c), eventID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Recettes lists the revenues of an event.
func (s *Service) Recettes(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	recettes, err := controller.Recettes(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(recettes)
}

// CreateRecette adds a revenue.
func (s *Service) CreateRecette(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.RecetteInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	recette, err := controller.CreateRecette(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return handler.Created(c, recette)
}

// DeleteRecette removes a revenue.
func (s *Service) DeleteRecette(c *fiber.Ctx) error {
	eventID, id, err := eventAnd(c, "recetteId")
	if err != nil {
		return err
	}

	if err = controller.DeleteRecette(s.db, access.ClubID(c), eventID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Bilan returns the result of an event.
func (s *Service) Bilan(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	bilan, err := controller.GetBilan(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(bilan)
}
