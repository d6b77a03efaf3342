package galas

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/gala"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

// Tickets lists the ticket purchases of a gala.
func (s *Service) Tickets(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	tickets, err := controller.Tickets(s.db, access.ClubID(c), galaID)
	if err != nil {
		return err
	}

	return c.JSON(tickets)
}

// CreateTickets records a batch of purchases and reports each item.
func (s *Service) CreateTickets(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	items, err := bindBatch[controller.TicketInput](c)
	if err != nil {
		return err
	}

	results, err := controller.CreateTickets(s.db, access.ClubID(c), galaID, items)
	if err != nil {
		return err
	}

	return c.JSON(results)
}

// DeleteTicket removes a purchase.
func (s *Service) DeleteTicket(c *fiber.Ctx) error {
	galaID, id, err := galaAnd(c)
	if err != nil {
		return err
	}

	if err = controller.DeleteTicket(s.db, access.ClubID(c), galaID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// TicketSynthese sums the tickets sold and the revenue.
func (s *Service) TicketSynthese(c *fiber.Ctx) error {
	galaID, err := handler.UUIDParam(c, "galaId")
	if err != nil {
		return err
	}

	summary, err := controller.TicketSynthese(s.db, access.ClubID(c), galaID)
	if err != nil {
		return err
	}

	return c.JSON(summary)
}
