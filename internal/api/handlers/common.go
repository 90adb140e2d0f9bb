package handlers

import (
	"errors"

	"foodgram-backend/domain"
	"foodgram-backend/pkg/relation"

	"github.com/gofiber/fiber/v2"
)

// statusOf maps service errors to HTTP status codes; anything unrecognized is
// a plain validation failure.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotRecipeAuthor),
		errors.Is(err, domain.ErrUserBlocked):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrMethodNotAllowed),
		errors.Is(err, relation.ErrMethodNotAllowed):
		return fiber.StatusMethodNotAllowed
	default:
		return fiber.StatusBadRequest
	}
}

func userIDFromLocals(c *fiber.Ctx) uint {
	if id, ok := c.Locals("user_id").(uint); ok {
		return id
	}
	return 0
}

func parsePagination(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", domain.DefaultPageSize)
	if limit < 1 {
		limit = domain.DefaultPageSize
	}
	return page, limit
}

// paramID parses a positive integer path parameter; anything else reads as an
// unknown resource.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, domain.ErrParseID
	}
	return uint(id), nil
}
