package access

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

// ParamClubID is the route parameter carrying the club id.
const ParamClubID = "clubId"

// RequireClub authorizes the caller for key on the club of the route before the handler runs.
// Handlers behind it check existence, so a non member gets 403 even for a missing club.
func RequireClub(gate *Gate, key Key) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clubID, err := uuid.Parse(c.Params(ParamClubID))
		if err != nil || clubID == uuid.Nil {
			return apperr.Validation("invalid club id")
		}

		caller, _ := CallerFrom(c)

		if err = gate.Authorize(c.UserContext(), caller, clubID, key); err != nil {
			return err
		}

		c.Locals(LocalsClubID, clubID)

		return c.Next()
	}
}

// RequireAdmin lets only global administrators through.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return apperr.Unauthorized("authentication required")
		}

		if !caller.IsAdmin() {
			return apperr.Forbidden("administrator role required")
		}

		return c.Next()
	}
}
