package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

// LocalsClaims holds the verified *Claims of the request.
const LocalsClaims = "claims"

// Bearer verifies the Authorization header and stores the caller in the request locals.
// Missing, invalid, expired or revoked tokens end the request with 401.
func Bearer(tokens *TokenService, revoked Revocations) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, found := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !found || raw == "" {
			return apperr.Unauthorized("missing bearer token")
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return &apperr.Error{Kind: apperr.KindUnauthorized, Message: err.Error(), Err: err}
		}

		isRevoked, err := revoked.IsRevoked(claims.ID)
		if err != nil {
			log.Error().Err(err).Str("jti", claims.ID).Msg("failed to read token revocation")

			return apperr.Internal(err, "token revocation lookup failed")
		}

		if isRevoked {
			return apperr.Unauthorized(ErrRevokedToken.Error())
		}

		userID, _ := claims.UserID() // checked by Parse

		access.SetCaller(c, &access.Caller{UserID: userID, Roles: claims.Roles})
		c.Locals(LocalsClaims, claims)

		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by Bearer.
func ClaimsFrom(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(LocalsClaims).(*Claims)

	return claims, ok
}
