package presenters

import (
	"fmt"
	"strconv"

	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// ErrorResponse writes the single error envelope used across the API.
func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	msg := message
	if err != nil {
		msg = err.Error()
	}
	return c.Status(code).JSON(fiber.Map{"errors": msg})
}

// pageURL rewrites the current request URL for another page, keeping every
// other query parameter (filters, search, recipes_limit) intact.
func pageURL(c *fiber.Ctx, page, limit int) *string {
	args := new(fasthttp.Args)
	c.Context().QueryArgs().CopyTo(args)
	args.Set("page", strconv.Itoa(page))
	args.Set("limit", strconv.Itoa(limit))

	url := fmt.Sprintf("%s%s?%s", c.BaseURL(), c.Path(), args.String())
	return &url
}

// Paginated writes the count/next/previous/results list envelope.
func Paginated[T any](c *fiber.Ctx, count int64, page, limit int, results []T) error {
	res := domain.Page[T]{Count: count, Results: results}
	if res.Results == nil {
		res.Results = []T{}
	}
	if int64(page*limit) < count {
		res.Next = pageURL(c, page+1, limit)
	}
	if page > 1 {
		res.Previous = pageURL(c, page-1, limit)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}
