package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

// LocalProvider authenticates against the users table.
type LocalProvider struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{db: db, now: time.Now}
}

// Authenticate checks username, password and, when enrolled, the TOTP code.
// The returned user has its roles loaded.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password, code string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if user.TOTPSecret != "" {
		if code == "" {
			return nil, ErrOTPRequired
		}

		if !ValidateTOTP(code, user.TOTPSecret, p.now()) {
			return nil, ErrOTPInvalid
		}
	}

	return &user, nil
}
