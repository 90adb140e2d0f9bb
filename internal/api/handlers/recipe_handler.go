package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		ManageFavorite(c *fiber.Ctx) error
		ManageShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func queryBoolPtr(c *fiber.Ctx, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value := raw == "1" || raw == "true" || raw == "True"
	return &value
}

func queryMulti(c *fiber.Ctx, name string) []string {
	var values []string
	for _, v := range c.Context().QueryArgs().PeekMulti(name) {
		values = append(values, string(v))
	}
	return values
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	page, limit := parsePagination(c)
	filter := domain.RecipeFilter{
		Tags:             queryMulti(c, "tags"),
		Author:           uint(c.QueryInt("author", 0)),
		IsFavorited:      queryBoolPtr(c, "is_favorited"),
		IsInShoppingCart: queryBoolPtr(c, "is_in_shopping_cart"),
		Page:             page,
		Limit:            limit,
	}

	res, count, err := h.recipeService.GetRecipes(c.Context(), filter, userIDFromLocals(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}
	return presenters.Paginated(c, count, page, limit, res)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetRecipeDetail, domain.ErrRecipeNotFound)
	}

	res, err := h.recipeService.GetRecipeByID(c.Context(), id, userIDFromLocals(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusOf(err), domain.MessageFailedGetRecipeDetail, err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, userIDFromLocals(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusOf(err), domain.MessageFailedSaveRecipe, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedSaveRecipe, domain.ErrRecipeNotFound)
	}

	req := new(domain.RecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), id, *req, userIDFromLocals(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusOf(err), domain.MessageFailedSaveRecipe, err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteRecipe, domain.ErrRecipeNotFound)
	}

	if err := h.recipeService.DeleteRecipe(c.Context(), id, userIDFromLocals(c)); err != nil {
		return presenters.ErrorResponse(c, statusOf(err), domain.MessageFailedDeleteRecipe, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) manageRelation(
	c *fiber.Ctx,
	message string,
	toggle func(c *fiber.Ctx, recipeID uint) (*domain.ShortRecipeResponse, error),
) error {
	id, err := paramID(c, "id")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, domain.ErrRecipeNotFound)
	}

	res, err := toggle(c, id)
	if err != nil {
		return presenters.ErrorResponse(c, statusOf(err), message, err)
	}
	if res == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *recipeHandler) ManageFavorite(c *fiber.Ctx) error {
	return h.manageRelation(c, domain.MessageFailedManageFavorite, func(c *fiber.Ctx, recipeID uint) (*domain.ShortRecipeResponse, error) {
		return h.recipeService.ToggleFavorite(c.Context(), c.Method(), userIDFromLocals(c), recipeID)
	})
}

func (h *recipeHandler) ManageShoppingCart(c *fiber.Ctx) error {
	return h.manageRelation(c, domain.MessageFailedManageCart, func(c *fiber.Ctx, recipeID uint) (*domain.ShortRecipeResponse, error) {
		return h.recipeService.ToggleShoppingCart(c.Context(), c.Method(), userIDFromLocals(c), recipeID)
	})
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	list, err := h.recipeService.DownloadShoppingCart(c.Context(), userIDFromLocals(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDownloadCart, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=UTF-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=ingredients.txt`)
	return c.Status(fiber.StatusOK).SendString(list)
}
