// Package documents serves the document library of a club.
package documents

import (
	"mime"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/document"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

const (
	// Path lists and uploads documents.
	Path = handler.ClubPath + "/documents"
	// ItemPath addresses one document.
	ItemPath = Path + "/:id"
	// ContentPath downloads the content of a document.
	ContentPath = ItemPath + "/contenu"

	// FormField is the multipart field carrying the file.
	FormField = "fichier"
)

// Service is the document handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	db    *gorm.DB
	store controller.Store
}

// Handler is the document handler.
var Handler = Service{}

// Init registers the document routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, deps *handler.Deps) {
	if app == nil || cfg == nil || db == nil || deps.Blobs == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.store = deps.Blobs

	read := access.RequireClub(deps.Gate, access.ReadOf(access.ResourceDocument))
	write := access.RequireClub(deps.Gate, access.WriteOf(access.ResourceDocument))

	app.Get(Path, read, s.List)
	app.Post(Path, write, s.Upload)
	app.Get(ItemPath, read, s.Get)
	app.Get(ContentPath, read, s.Content)
	app.Delete(ItemPath, write, s.Delete)
}

// List returns a page of documents.
func (s *Service) List(c *fiber.Ctx) error {
	opts, err := query.Parse(c, controller.Sortable, "date")
	if err != nil {
		return err
	}

	docs, total, err := controller.List(s.db, access.ClubID(c), opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, docs, total)
}

// Get returns the metadata of a document.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	doc, err := controller.Get(s.db, access.ClubID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(doc)
}

// Upload stores the multipart file of the request.
func (s *Service) Upload(c *fiber.Ctx) error {
	caller, ok := access.CallerFrom(c)
	if !ok {
		return apperr.Unauthorized("authentication required")
	}

	fh, err := c.FormFile(FormField)
	if err != nil {
		return apperr.ValidationFields(map[string]string{FormField: "a multipart file is required"})
	}

	f, err := fh.Open()
	if err != nil {
		return apperr.Internal(err, "failed to open upload")
	}
	defer f.Close()

	doc, err := controller.Upload(s.db, s.store, access.ClubID(c), caller.UserID, fh.Filename, f)
	if err != nil {
		return err
	}

	return handler.Created(c, doc)
}

// Content streams the document with its sniffed content type.
func (s *Service) Content(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	doc, rc, err := controller.Open(s.db, s.store, access.ClubID(c), id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))

	// fasthttp closes rc once the body is written
	return c.SendStream(rc, int(doc.Size))
}

// Delete removes a document and its content.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err = controller.Delete(s.db, s.store, access.ClubID(c), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
