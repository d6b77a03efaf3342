// Package access decides whether a caller may read or manage a club.
//
// Membership is looked up on every call, nothing is cached between requests.
package access

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

// Memberships answers whether a user belongs to a club.
type Memberships interface {
	IsMember(ctx context.Context, userID, clubID uuid.UUID) (bool, error)
}

// DBMemberships reads memberships from the user_clubs table.
type DBMemberships struct {
	DB *gorm.DB
}

// IsMember implements Memberships.
func (m DBMemberships) IsMember(ctx context.Context, userID, clubID uuid.UUID) (bool, error) {
	var count int64

	err := m.DB.WithContext(ctx).
		Model(&models.UserClub{}).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Count(&count).Error

	return count > 0, err
}

// Gate evaluates the policy against memberships.
type Gate struct {
	members Memberships
	policy  Policy
}

// NewGate returns a gate using policy, or DefaultPolicy when policy is nil.
func NewGate(members Memberships, policy Policy) *Gate {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Gate{members: members, policy: policy}
}

// CanAccessClub is true for admins and for members of the club.
// An unresolved caller is always denied.
func (g *Gate) CanAccessClub(ctx context.Context, caller *Caller, clubID uuid.UUID) (bool, error) {
	if !caller.Resolved() {
		return false, nil
	}

	if caller.IsAdmin() {
		return true, nil
	}

	return g.members.IsMember(ctx, caller.UserID, clubID)
}

// CanManageClub is true for admins, and for members holding one of the write roles of resource.
func (g *Gate) CanManageClub(ctx context.Context, caller *Caller, clubID uuid.UUID, resource Resource) (bool, error) {
	return g.allowed(ctx, caller, clubID, WriteOf(resource))
}

func (g *Gate) allowed(ctx context.Context, caller *Caller, clubID uuid.UUID, key Key) (bool, error) {
	if _, known := g.policy.Roles(key); !known || !caller.Resolved() {
		return false, nil
	}

	if caller.IsAdmin() {
		return true, nil
	}

	if !g.policy.Satisfied(key, caller.Roles) {
		return false, nil
	}

	return g.members.IsMember(ctx, caller.UserID, clubID)
}

// Authorize returns nil when caller may perform key on the club. Reads go through
// CanAccessClub, writes through CanManageClub.
// The errors are apperr Unauthorized, Forbidden or Internal.
func (g *Gate) Authorize(ctx context.Context, caller *Caller, clubID uuid.UUID, key Key) error {
	if !caller.Resolved() {
		return apperr.Unauthorized("authentication required")
	}

	if _, known := g.policy.Roles(key); !known {
		log.Error().Str("key", key.String()).Msg("no access policy for key, denying")

		return apperr.Forbidden("access denied")
	}

	var (
		allowed bool
		err     error
	)

	switch key.Operation {
	case Read:
		allowed, err = g.CanAccessClub(ctx, caller, clubID)
	case Write:
		allowed, err = g.CanManageClub(ctx, caller, clubID, key.Resource)
	default:
		log.Error().Str("key", key.String()).Msg("unknown operation, denying")

		return apperr.Forbidden("access denied")
	}

	switch {
	case err != nil:
		return apperr.Internal(err, "membership lookup failed")
	case !allowed && key.Operation == Read:
		return apperr.Forbidden("you are not a member of this club")
	case !allowed:
		return apperr.Forbidden("your role does not allow this operation on " + string(key.Resource))
	}

	return nil
}
