package budget

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/budget"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

// ids returns the mandat id and, when the route has one, the rubrique id.
func ids(c *fiber.Ctx, withID bool) (uuid.UUID, uuid.UUID, error) {
	mandatID, err := handler.UUIDParam(c, "mandatId")
	if err != nil || !withID {
		return mandatID, uuid.Nil, err
	}

	id, err := handler.UUIDParam(c, "id")

	return mandatID, id, err
}

// Rubriques returns a page of the rubriques of a mandat with their figures.
func (s *Service) Rubriques(c *fiber.Ctx) error {
	mandatID, _, err := ids(c, false)
	if err != nil {
		return err
	}

	opts, err := query.Parse(c, controller.RubriqueSortable, "libelle")
	if err != nil {
		return err
	}

	rubriques, total, err := controller.Rubriques(s.db, access.ClubID(c), mandatID, opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, rubriques, total)
}

// GetRubrique returns one rubrique.
func (s *Service) GetRubrique(c *fiber.Ctx) error {
	mandatID, id, err := ids(c, true)
	if err != nil {
		return err
	}

	r, err := controller.GetRubrique(s.db, access.ClubID(c), mandatID, id)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// CreateRubrique adds a budget line.
func (s *Service) CreateRubrique(c *fiber.Ctx) error {
	mandatID, _, err := ids(c, false)
	if err != nil {
		return err
	}

	var in controller.RubriqueInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	r, err := controller.CreateRubrique(s.db, access.ClubID(c), mandatID, in)
	if err != nil {
		return err
	}

	return handler.Created(c, r)
}

// UpdateRubrique replaces a budget line.
func (s *Service) UpdateRubrique(c *fiber.Ctx) error {
	mandatID, id, err := ids(c, true)
	if err != nil {
		return err
	}

	var in controller.RubriqueInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	r, err := controller.UpdateRubrique(s.db, access.ClubID(c), mandatID, id, in)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// SetRealized records the realized amount of a line.
func (s *Service) SetRealized(c *fiber.Ctx) error {
	mandatID, id, err := ids(c, true)
	if err != nil {
		return err
	}

	var in controller.RealizedInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	r, err := controller.SetRealized(s.db, access.ClubID(c), mandatID, id, in)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// DeleteRubrique removes a budget line.
func (s *Service) DeleteRubrique(c *fiber.Ctx) error {
	mandatID, id, err := ids(c, true)
	if err != nil {
		return err
	}

	if err = controller.DeleteRubrique(s.db, access.ClubID(c), mandatID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Synthese aggregates the mandat budget per category and globally.
func (s *Service) Synthese(c *fiber.Ctx) error {
	mandatID, _, err := ids(c, false)
	if err != nil {
		return err
	}

	summary, err := controller.Synthese(s.db, access.ClubID(c), mandatID)
	if err != nil {
		return err
	}

	return c.JSON(summary)
}

// Export sends the mandat budget as an XLSX workbook.
func (s *Service) Export(c *fiber.Ctx) error {
	mandatID, _, err := ids(c, false)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = controller.Export(s.db, access.ClubID(c), mandatID, &buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, controller.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="budget-%s.xlsx"`, mandatID))

	return c.Send(buf.Bytes())
}
