// Package reunions serves club meetings, their agenda and the minutes broadcast.
package reunions

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/reunion"
	"github.com/ClubAdmin/ClubAdmin/internal/notify"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and creates meetings.
	Path = handler.ClubPath + "/reunions"
	// ItemPath addresses one meeting.
	ItemPath = Path + "/:id"
	// ItemsPath lists and adds agenda items.
	ItemsPath = ItemPath + "/ordres-du-jour"
	// SendPath sends the minutes to the members.
	SendPath = ItemPath + "/compte-rendu/envoyer"
)

// Service is the meeting handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	sender    notify.Sender
	validator *validator.Validate
}

// Handler is the meeting handler.
var Handler = Service{}

// Init registers the meeting routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.sender = deps.Sender
	s.validator = handler.NewValidator()

	if s.sender == nil {
		s.sender = notify.LogSender{}
	}

	read := access.RequireClub(deps.Gate, access.ReadOf(access.ResourceReunion))
	write := access.RequireClub(deps.Gate, access.WriteOf(access.ResourceReunion))

	app.Get(Path, read, s.List)
	app.Post(Path, write, s.Create)
	app.Get(ItemPath, read, s.Get)
	app.Put(ItemPath, write, s.Update)
	app.Delete(ItemPath, write, s.Delete)

	app.Get(ItemsPath, read, s.Items)
	app.Post(ItemsPath, write, s.AddItem)
	app.Delete(ItemsPath+"/:itemId", write, s.DeleteItem)

	app.Post(SendPath, write, s.SendSummary)
}

// List returns a page of meetings.
func (s *Service) List(c *fiber.Ctx) error {
	opts, err := query.Parse(c, controller.Sortable, "date")
	if err != nil {
		return err
	}

	reunions, total, err := controller.List(s.db, access.ClubID(c), opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, reunions, total)
}

// Get returns a meeting with its agenda.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	r, err := controller.Get(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// Create adds a meeting.
func (s *Service) Create(c *fiber.Ctx) error {
	var in controller.Input
	if err := handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	r, err := controller.Create(s.db, access.ClubID(c), in)
	if err != nil {
		return err
	}

	return handler.Created(c, r)
}

// Update replaces a meeting, version must match.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.Input
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	r, err := controller.Update(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// Delete removes a meeting and its agenda.
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

// Items lists the agenda of a meeting.
func (s *Service) Items(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	r, err := controller.Get(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(r.Items)
}

// AddItem appends or inserts an agenda item.
func (s *Service) AddItem(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var in controller.ItemInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	item, err := controller.AddItem(s.db, access.ClubID(c), id, in)
	if err != nil {
		return err
	}

	return handler.Created(c, item)
}

// DeleteItem removes an agenda item.
func (s *Service) DeleteItem(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	itemID, err := handler.UUIDParam(c, "itemId")
	if err != nil {
		return err
	}

	if err = controller.DeleteItem(s.db, access.ClubID(c), id, itemID); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// SendSummary sends the minutes by email, or WhatsApp with ?canal=whatsapp, and reports the counts.
func (s *Service) SendSummary(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	ch, err := notify.ParseChannel(c.Query("canal"))
	if err != nil {
		return err
	}

	result, err := controller.SendSummary(c.UserContext(), s.db, s.sender, s.cfg.Notification.Delay, access.ClubID(c), id, ch)
	if err != nil {
		return err
	}

	log.Info().
		Str("clubId", access.ClubID(c).String()).
		Str("reunionId", id.String()).
		Str("channel", string(ch)).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("meeting minutes sent")

	return c.JSON(result)
}
