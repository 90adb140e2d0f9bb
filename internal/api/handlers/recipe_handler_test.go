package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/pkg/relation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecipeService struct {
	mock.Mock
}

func (m *mockRecipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint) ([]domain.RecipeResponse, int64, error) {
	args := m.Called(ctx, filter, userID)
	return args.Get(0).([]domain.RecipeResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockRecipeService) GetRecipeByID(ctx context.Context, id, userID uint) (domain.RecipeResponse, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(domain.RecipeResponse), args.Error(1)
}

func (m *mockRecipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID uint) (domain.RecipeResponse, error) {
	args := m.Called(ctx, req, userID)
	return args.Get(0).(domain.RecipeResponse), args.Error(1)
}

func (m *mockRecipeService) UpdateRecipe(ctx context.Context, id uint, req domain.RecipeRequest, userID uint) (domain.RecipeResponse, error) {
	args := m.Called(ctx, id, req, userID)
	return args.Get(0).(domain.RecipeResponse), args.Error(1)
}

func (m *mockRecipeService) DeleteRecipe(ctx context.Context, id, userID uint) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockRecipeService) ToggleFavorite(ctx context.Context, method string, userID, recipeID uint) (*domain.ShortRecipeResponse, error) {
	args := m.Called(ctx, method, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortRecipeResponse), args.Error(1)
}

func (m *mockRecipeService) ToggleShoppingCart(ctx context.Context, method string, userID, recipeID uint) (*domain.ShortRecipeResponse, error) {
	args := m.Called(ctx, method, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortRecipeResponse), args.Error(1)
}

func (m *mockRecipeService) DownloadShoppingCart(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// newRecipeApp mounts the recipe routes behind a stand-in auth middleware that
// injects userID into locals.
func newRecipeApp(service *mockRecipeService, userID uint) *fiber.App {
	app := fiber.New()
	handler := NewRecipeHandler(service, validator.New())

	recipes := app.Group("/api/v1/recipes", func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	recipes.Get("/", handler.GetRecipes)
	recipes.Post("/", handler.CreateRecipe)
	recipes.Get("/download_shopping_cart", handler.DownloadShoppingCart)
	recipes.Get("/:id", handler.GetRecipeDetail)
	recipes.Post("/:id/favorite", handler.ManageFavorite)
	recipes.Delete("/:id/favorite", handler.ManageFavorite)
	recipes.Post("/:id/shopping_cart", handler.ManageShoppingCart)
	recipes.Delete("/:id/shopping_cart", handler.ManageShoppingCart)
	return app
}

func decodeBody(t *testing.T, body io.Reader, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(out))
}

func TestGetRecipesPaginationEnvelope(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 1)

	results := make([]domain.RecipeResponse, 6)
	for i := range results {
		results[i] = domain.RecipeResponse{ID: uint(8 - i)}
	}
	service.On("GetRecipes", mock.Anything, mock.AnythingOfType("domain.RecipeFilter"), uint(1)).
		Return(results, int64(14), nil)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/recipes/?page=2&limit=6", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var page domain.Page[domain.RecipeResponse]
	decodeBody(t, res.Body, &page)
	assert.Equal(t, int64(14), page.Count)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Previous, "page=1")
	assert.Len(t, page.Results, 6)

	filter := service.Calls[0].Arguments.Get(1).(domain.RecipeFilter)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 6, filter.Limit)
}

func TestGetRecipesPaginationKeepsFilters(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 1)

	service.On("GetRecipes", mock.Anything, mock.AnythingOfType("domain.RecipeFilter"), uint(1)).
		Return(make([]domain.RecipeResponse, 6), int64(14), nil)

	req := httptest.NewRequest(fiber.MethodGet,
		"/api/v1/recipes/?page=2&limit=6&tags=breakfast&tags=dinner&is_favorited=1", nil)
	res, err := app.Test(req)
	require.NoError(t, err)

	var page domain.Page[domain.RecipeResponse]
	decodeBody(t, res.Body, &page)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")
	assert.Contains(t, *page.Next, "tags=breakfast")
	assert.Contains(t, *page.Next, "tags=dinner")
	assert.Contains(t, *page.Next, "is_favorited=1")
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Previous, "page=1")
	assert.Contains(t, *page.Previous, "tags=breakfast")
}

func TestGetRecipesLastPageHasNoNext(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 0)

	service.On("GetRecipes", mock.Anything, mock.AnythingOfType("domain.RecipeFilter"), uint(0)).
		Return([]domain.RecipeResponse{{ID: 1}, {ID: 2}}, int64(14), nil)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/recipes/?page=3&limit=6", nil)
	res, err := app.Test(req)
	require.NoError(t, err)

	var page domain.Page[domain.RecipeResponse]
	decodeBody(t, res.Body, &page)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Previous, "page=2")
}

func TestGetRecipesFilterQuery(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 1)

	service.On("GetRecipes", mock.Anything, mock.AnythingOfType("domain.RecipeFilter"), uint(1)).
		Return([]domain.RecipeResponse{}, int64(0), nil)

	req := httptest.NewRequest(fiber.MethodGet,
		"/api/v1/recipes/?tags=breakfast&tags=dinner&author=5&is_favorited=1", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	filter := service.Calls[0].Arguments.Get(1).(domain.RecipeFilter)
	assert.Equal(t, []string{"breakfast", "dinner"}, filter.Tags)
	assert.Equal(t, uint(5), filter.Author)
	require.NotNil(t, filter.IsFavorited)
	assert.True(t, *filter.IsFavorited)
	assert.Nil(t, filter.IsInShoppingCart)
}

// An unknown id inside a write payload is a validation failure on the write,
// not a missing resource.
func TestCreateRecipeUnknownIDsAreValidationErrors(t *testing.T) {
	body := `{
		"ingredients": [{"id": 999, "amount": 5}],
		"tags": [1],
		"image": "data:image/png;base64,aGVsbG8=",
		"name": "Porridge",
		"text": "Boil and stir.",
		"cooking_time": 10
	}`

	for _, serviceErr := range []error{domain.ErrUnknownIngredient, domain.ErrUnknownTag} {
		service := new(mockRecipeService)
		app := newRecipeApp(service, 1)

		service.On("CreateRecipe", mock.Anything, mock.AnythingOfType("domain.RecipeRequest"), uint(1)).
			Return(domain.RecipeResponse{}, serviceErr)

		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/recipes/", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode, "error %v", serviceErr)

		var envelope map[string]string
		decodeBody(t, res.Body, &envelope)
		assert.Equal(t, serviceErr.Error(), envelope["errors"])
	}
}

func TestManageFavorite(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 1)

	service.On("ToggleFavorite", mock.Anything, fiber.MethodPost, uint(1), uint(3)).
		Return(&domain.ShortRecipeResponse{ID: 3, Name: "Porridge"}, nil)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/recipes/3/favorite", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	var short domain.ShortRecipeResponse
	decodeBody(t, res.Body, &short)
	assert.Equal(t, uint(3), short.ID)
	assert.Equal(t, "Porridge", short.Name)
}

func TestManageFavoriteTwice(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 1)

	service.On("ToggleFavorite", mock.Anything, fiber.MethodPost, uint(1), uint(3)).
		Return(nil, domain.ErrAlreadyInFavorite)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/recipes/3/favorite", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var envelope map[string]string
	decodeBody(t, res.Body, &envelope)
	assert.Equal(t, domain.ErrAlreadyInFavorite.Error(), envelope["errors"])
}

func TestManageFavoriteDelete(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 1)

	service.On("ToggleFavorite", mock.Anything, fiber.MethodDelete, uint(1), uint(3)).
		Return(nil, nil)

	req := httptest.NewRequest(fiber.MethodDelete, "/api/v1/recipes/3/favorite", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
}

func TestManageShoppingCartBadID(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 1)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/recipes/abc/shopping_cart", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	service.AssertNotCalled(t, "ToggleShoppingCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStatusOfMethodNotAllowed(t *testing.T) {
	assert.Equal(t, fiber.StatusMethodNotAllowed, statusOf(relation.ErrMethodNotAllowed))
	assert.Equal(t, fiber.StatusMethodNotAllowed, statusOf(domain.ErrMethodNotAllowed))
	assert.Equal(t, fiber.StatusNotFound, statusOf(domain.ErrRecipeNotFound))
	assert.Equal(t, fiber.StatusForbidden, statusOf(domain.ErrNotRecipeAuthor))
	assert.Equal(t, fiber.StatusBadRequest, statusOf(domain.ErrInvalidAmount))
	assert.Equal(t, fiber.StatusBadRequest, statusOf(domain.ErrUnknownIngredient))
	assert.Equal(t, fiber.StatusBadRequest, statusOf(domain.ErrUnknownTag))
}

func TestDownloadShoppingCart(t *testing.T) {
	service := new(mockRecipeService)
	app := newRecipeApp(service, 1)

	service.On("DownloadShoppingCart", mock.Anything, uint(1)).
		Return("Sugar 5kg\nMilk 400ml\n", nil)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/recipes/download_shopping_cart", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "text/plain; charset=UTF-8", res.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "attachment; filename=ingredients.txt", res.Header.Get(fiber.HeaderContentDisposition))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "Sugar 5kg\nMilk 400ml\n", string(body))
}
