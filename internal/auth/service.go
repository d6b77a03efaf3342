package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/db/models"
)

// Revocations records logged out token ids.
type Revocations interface {
	Revoke(tokenID string, until time.Time) error
	IsRevoked(tokenID string) (bool, error)
}

// Service ties the local provider, the token service and the revocation store together.
type Service struct {
	db         *gorm.DB
	local      *LocalProvider
	tokens     *TokenService
	revoked    Revocations
	totpIssuer string
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, tokens *TokenService, revoked Revocations, totpIssuer string) *Service {
	return &Service{
		db:         db,
		local:      NewLocalProvider(db),
		tokens:     tokens,
		revoked:    revoked,
		totpIssuer: totpIssuer,
	}
}

// Tokens returns the token service.
func (s *Service) Tokens() *TokenService { return s.tokens }

// Revocations returns the revocation store.
func (s *Service) Revocations() Revocations { return s.revoked }

// Login authenticates and issues a token.
func (s *Service) Login(ctx context.Context, username, password, code string) (Token, *models.User, error) {
	user, err := s.local.Authenticate(ctx, username, password, code)
	if err != nil {
		return Token{}, nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return Token{}, nil, err
	}

	return token, user, nil
}

// Logout revokes the token until its expiry.
func (s *Service) Logout(claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}

	return s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
}

// EnrollTOTP creates and stores a TOTP secret for the user and returns the otpauth URL.
func (s *Service) EnrollTOTP(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return "", err //nolint:wrapcheck
	}

	if user.TOTPSecret != "" {
		return "", ErrTOTPAlreadyEnabled
	}

	key, err := GenerateTOTP(s.totpIssuer, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("totp_secret", key.Secret()).Error
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return key.URL(), nil
}

// DisableTOTP removes the TOTP secret after checking a current code.
func (s *Service) DisableTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return err //nolint:wrapcheck
	}

	if user.TOTPSecret == "" {
		return nil
	}

	if !ValidateTOTP(code, user.TOTPSecret, time.Now()) {
		return ErrOTPInvalid
	}

	return s.db.WithContext(ctx).Model(&models.User{}). //nolint:wrapcheck
		Where("id = ?", userID).
		Update("totp_secret", "").Error
}

// IsAuthError reports whether err is a credential problem rather than a failure.
func IsAuthError(err error) bool {
	for _, target := range []error{
		ErrInvalidCredentials, ErrUserAccountDisabled, ErrOTPRequired, ErrOTPInvalid,
		ErrInvalidToken, ErrExpiredToken, ErrRevokedToken,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
