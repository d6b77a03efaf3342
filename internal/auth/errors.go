package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrOTPRequired is returned when the user has TOTP enabled and no code was sent.
	ErrOTPRequired = errors.New("one time password required")

	// ErrOTPInvalid is returned for a wrong TOTP code.
	ErrOTPInvalid = errors.New("invalid one time password")

	// ErrTOTPAlreadyEnabled is returned when enrolling a user that already has a secret.
	ErrTOTPAlreadyEnabled = errors.New("two factor authentication already enabled")

	// ErrInvalidToken is returned for a malformed or badly signed token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned for an expired token.
	ErrExpiredToken = errors.New("token expired")

	// ErrRevokedToken is returned for a token revoked by logout.
	ErrRevokedToken = errors.New("token revoked")
)
