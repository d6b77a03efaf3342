package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrJWTSecretTooShort error if auth.jwtSecret has less than 32 bytes.
	ErrJWTSecretTooShort = errors.New("config auth.jwtSecret must have at least 32 bytes")

	// ErrUnknownEngine error if db.gormEngine is not supported.
	ErrUnknownEngine = errors.New("config db.gormEngine must be one of mysql, postgres, sqlite")
)
