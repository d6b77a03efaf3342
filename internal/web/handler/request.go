package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ClubAdmin/ClubAdmin/internal/apperr"
)

// NewValidator returns a validator reporting fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// UUIDParam parses the route parameter name. Malformed and nil ids are rejected with 400.
func UUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Validation("invalid %s", name)
	}

	return id, nil
}

// UUIDQuery parses an optional query parameter. An absent parameter returns nil.
func UUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return nil, apperr.Validation("invalid %s", name)
	}

	return &id, nil
}

// Bind decodes the JSON body into dst and validates it.
func Bind(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "invalid request body", Err: err}
	}

	return Validate(v, dst)
}

// Validate runs the struct tags of dst and converts failures into a field map.
func Validate(v *validator.Validate, dst any) error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Internal(err, "validation failed")
	}

	fields := make(map[string]string, len(validationErrors))
	for _, ve := range validationErrors {
		fields[fieldPath(ve.Namespace())] = "failed validation tag '" + ve.Tag() + "'"
	}

	return apperr.ValidationFields(fields)
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return ns
}
