package mandats

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	controller "github.com/ClubAdmin/ClubAdmin/internal/db/controller/mandat"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

// Comites lists the committees of a mandat.
func (s *Service) Comites(c *fiber.Ctx) error {
	mandatID, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	comites, err := controller.Comites(s.db, access.ClubID(c), mandatID)
	if err != nil {
		return err
	}

	return c.JSON(comites)
}

// CreateComite adds a committee.
func (s *Service) CreateComite(c *fiber.Ctx) error {
	mandatID, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	var in controller.ComiteInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	comite, err := controller.CreateComite(s.db, access.ClubID(c), mandatID, in)
	if err != nil {
		return err
	}

	return handler.Created(c, comite)
}

// UpdateComite renames a committee.
func (s *Service) UpdateComite(c *fiber.Ctx) error {
	mandatID, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	id, err := handler.UUIDParam(c, "comiteId")
	if err != nil {
		return err
	}

	var in controller.ComiteInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	comite, err := controller.UpdateComite(s.db, access.ClubID(c), mandatID, id, in)
	if err != nil {
		return err
	}

	return c.JSON(comite)
}

// DeleteComite removes a committee and its seats.
func (s *Service) DeleteComite(c *fiber.Ctx) error {
	mandatID, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	id, err := handler.UUIDParam(c, "comiteId")
	if err != nil {
		return err
	}

	if err = controller.DeleteComite(s.db, access.ClubID(c), mandatID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}

// Seats lists the committee members of a mandat.
func (s *Service) Seats(c *fiber.Ctx) error {
	mandatID, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	seats, err := controller.Seats(s.db, access.ClubID(c), mandatID)
	if err != nil {
		return err
	}

	return c.JSON(seats)
}

// AddSeat seats a club member in a committee.
func (s *Service) AddSeat(c *fiber.Ctx) error {
	mandatID, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	var in controller.SeatInput
	if err = handler.Bind(c, s.validator, &in); err != nil {
		return err
	}

	seat, err := controller.AddSeat(s.db, access.ClubID(c), mandatID, in)
	if err != nil {
		return err
	}

	return handler.Created(c, seat)
}

// RemoveSeat frees a seat.
func (s *Service) RemoveSeat(c *fiber.Ctx) error {
	mandatID, err := handler.UUIDParam(c, "mandatId")
	if err != nil {
		return err
	}

	id, err := handler.UUIDParam(c, "seatId")
	if err != nil {
		return err
	}

	if err = controller.RemoveSeat(s.db, access.ClubID(c), mandatID, id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
