package access

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

const (
	// LocalsCaller holds the authenticated *Caller.
	LocalsCaller = "caller"
	// LocalsClubID holds the authorized club id.
	LocalsClubID = "clubId"
)

// Caller is the authenticated principal of a request.
type Caller struct {
	UserID uuid.UUID
	Roles  []models.RoleName
}

// Resolved reports whether the caller has an identity.
func (c *Caller) Resolved() bool {
	return c != nil && c.UserID != uuid.Nil
}

// IsAdmin reports whether the caller holds the global Admin role.
func (c *Caller) IsAdmin() bool {
	return c.Resolved() && slices.Contains(c.Roles, models.RoleAdmin)
}

func (c *Caller) String() string {
	if c == nil {
		return ""
	}

	return c.UserID.String()
}

// SetCaller stores the caller in the request locals.
func SetCaller(c *fiber.Ctx, caller *Caller) {
	c.Locals(LocalsCaller, caller)
}

// CallerFrom returns the caller stored by the bearer middleware.
func CallerFrom(c *fiber.Ctx) (*Caller, bool) {
	caller, ok := c.Locals(LocalsCaller).(*Caller)

	return caller, ok && caller.Resolved()
}

// ClubID returns the club id authorized by RequireClub.
func ClubID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalsClubID).(uuid.UUID)

	return id
}
