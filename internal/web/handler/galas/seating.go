package galas

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/gala"
	"github.com/ClubAdmin/ClubAdmin/internal/query"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

// Tables lists the tables of a gala with their seat count.
func (s *Service) Tables(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	tables, err := controller.Tables(s.db, access.ClubID(c), galaID)
	if err != nil {
		return err
	}

	return c.JSON(tables)
}

// CreateTable adds a table.
func (s *Service) CreateTable(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	var in controller.TableInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	t, err := controller.CreateTable(s.db, access.ClubID(c), galaID, in)
	if err != nil {
		return err
	}

	return handler.Created(c, t)
}

// DeleteTable removes an empty table.
func (s *Service) DeleteTable(c *fiber.Ctx) error {
	galaID, id, err := galaAnd(c)
	if err != nil {
		return err
	}

	if err = controller.DeleteTable(s.db, access.ClubID(c), galaID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Invites returns a page of invites.
func (s *Service) Invites(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	opts, err := query.Parse(c, controller.InviteSortable, "nom")
	if err != nil {
		return err
	}

	invites, total, err := controller.Invites(s.db, access.ClubID(c), galaID, opts)
	if err != nil {
		return err
	}

	return handler.List(c, opts, invites, total)
}

// CreateInvite adds an invite.
func (s *Service) CreateInvite(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	var in controller.InviteInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	inv, err := controller.CreateInvite(s.db, access.ClubID(c), galaID, in)
	if err != nil {
		return err
	}

	return handler.Created(c, inv)
}

// DeleteInvite removes an invite and its seat.
func (s *Service) DeleteInvite(c *fiber.Ctx) error {
	galaID, id, err := galaAnd(c)
	if err != nil {
		return err
	}

	if err = controller.DeleteInvite(s.db, access.ClubID(c), galaID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Affectations lists the seats of a gala.
func (s *Service) Affectations(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	seats, err := controller.Affectations(s.db, access.ClubID(c), galaID)
	if err != nil {
		return err
	}

	return c.JSON(seats)
}

// Assign seats one invite. An invite already seated is rejected with 400.
func (s *Service) Assign(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	var in controller.AffectationInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	a, err := controller.Assign(s.db, access.ClubID(c), galaID, in)
	if err != nil {
		return err
	}

	return handler.Created(c, a)
}

// AssignBatch seats several invites and reports each item.
func (s *Service) AssignBatch(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	items, err := bindBatch[controller.AffectationInput](c)
	if err != nil {
		return err
	}

	results, err := controller.AssignBatch(s.db, access.ClubID(c), galaID, items)
	if err != nil {
		return err
	}

	return c.JSON(results)
}

// Distribute seats every unassigned invite round robin over the tables.
func (s *Service) Distribute(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	d, err := controller.Distribute(s.db, access.ClubID(c), galaID)
	if err != nil {
		return err
	}

	return handler.Created(c, d)
}

// Unassign frees a seat.
func (s *Service) Unassign(c *fiber.Ctx) error {
	galaID, id, err := galaAnd(c)
	if err != nil {
		return err
	}

	if err = controller.Unassign(s.db, access.ClubID(c), galaID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
