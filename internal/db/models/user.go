package models

import (
	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RoleName is a global role claim. Roles are assigned per user, not per club.
type RoleName string

// Known roles.
const (
	RoleAdmin     RoleName = "Admin"
	RolePresident RoleName = "President"
	RoleSecretary RoleName = "Secretary"
	RoleTreasurer RoleName = "Treasurer"
)

// Valid reports whether r is one of the known roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RolePresident, RoleSecretary, RoleTreasurer:
		return true
	}

	return false
}

// User represents a local account.
type User struct {
	Base
	// Username is the unique login name.
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	// Email is unique and receives meeting summaries.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Password is the Argon2id hash.
	Password  string `gorm:"size:255;not null" json:"-"`
	FirstName string `gorm:"size:100" json:"prenom"`
	LastName  string `gorm:"size:100" json:"nom"`
	// Phone is the WhatsApp number in E.164 form.
	Phone string `gorm:"size:30" json:"telephone"`
	// Active users can log in.
	Active bool `gorm:"not null;default:true" json:"actif"`
	// TOTPSecret enables two factor login when not empty.
	TOTPSecret string     `gorm:"size:64" json:"-"`
	Roles      []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// RoleNames flattens the loaded Roles association.
func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}

	return names
}

// UserRole assigns a global role to a user.
type UserRole struct {
	UserID uuid.UUID `gorm:"type:char(36);primaryKey" json:"userId"`
	Role   RoleName  `gorm:"type:varchar(20);primaryKey" json:"role"`
}

// HashPassword hashes a plaintext password with the default Argon2id parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword compares password against the stored hash in constant time.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user", u.Username).Msg("failed to verify password")

		return false
	}

	return match
}
