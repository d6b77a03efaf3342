// Package paiements serves the membership fee payments of a club.
package paiements

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/paiement"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and records payments, ?userId filters.
	Path = handler.ClubPath + "/paiements"
	// SynthesePath sums the payments per member.
	SynthesePath = Path + "/synthese"
)

// Service is the payment handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the payment handler.
var Handler = Service{}

// Init registers the payment routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	read := access.RequireClub(deps.Gate, access.ReadOf(access.ResourcePaiement))
	write := access.RequireClub(deps.Gate, access.WriteOf(access.ResourcePaiement))

	app.Get(Path, read, s.List)
	app.Post(Path, write, s.Create)
	app.Get(SynthesePath, read, s.Synthese)
	app.Delete(Path+"/:id", write, s.Delete)
}

// List returns a page of payments.
func (s *Service) List(c *fiber.Ctx) error {
	userID, err := handler.UUIDQuery(c, "userId")
	if err != nil {
		return err
	}

	opts, err := query.Parse(c, controller.Sortable, "datePaiement")
	if err != nil {
		return err
	}

	payments, total, err := controller.List(s.db, access.ClubID(c), userID, opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, payments, total)
}

// Create records a payment.
func (s *Service) Create(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	p, err := controller.Create(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, p)
}

// Delete removes a payment.
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

// Synthese returns the total collected and the totals per member.
func (s *Service) Synthese(c *fiber.Ctx) error {
	summary, err := controller.Synthese(s.db, access.ClubID(c))
	if err != nil {
		return err
	}

	return c.JSON(summary)
}
