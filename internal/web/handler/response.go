package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ClubAdmin/ClubAdmin/internal/query"
)

// List writes one page of items with the pagination headers.
func List[T any](c *fiber.Ctx, o query.Options, items []T, total int64) error {
	query.SetHeaders(c, o, total)

	if items == nil {
		items = []T{}
	}

	return c.JSON(items)
}

// Created answers 201 with v.
func Created(c *fiber.Ctx, v any) error {
	return c.Status(fiber.StatusCreated).JSON(v)
}

// NoContent answers 204.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
