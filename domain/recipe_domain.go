package domain

import "errors"

var (
	MessageFailedGetRecipes       = "failed to get recipes"
	MessageFailedGetRecipeDetail  = "failed to get recipe detail"
	MessageFailedSaveRecipe       = "failed to save recipe"
	MessageFailedDeleteRecipe     = "failed to delete recipe"
	MessageFailedManageFavorite   = "failed to manage favorite"
	MessageFailedManageCart       = "failed to manage shopping cart"
	MessageFailedDownloadCart     = "failed to download shopping cart"

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrNotRecipeAuthor    = errors.New("only the author can modify this recipe")
	ErrNoIngredients      = errors.New("ingredients should be not empty")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")

	// Write-side variants: a recipe payload referencing an unknown id is a
	// validation failure, not a missing resource.
	ErrUnknownIngredient = errors.New("ingredient with this id does not exist")
	ErrUnknownTag        = errors.New("tag with this id does not exist")
	ErrInvalidAmount      = errors.New("amount should be between 1 and 32767")
	ErrInvalidCookingTime = errors.New("cooking time should be between 1 and 32767")
	ErrImageFormat        = errors.New("image base64 wrong format")
	ErrAlreadyInFavorite  = errors.New("recipe already in favorites")
	ErrNotInFavorite      = errors.New("recipe not in favorites")
	ErrAlreadyInCart      = errors.New("recipe already in shopping cart")
	ErrNotInCart          = errors.New("recipe not in shopping cart")
)

type (
	RecipeIngredientRequest struct {
		ID     uint `json:"id" validate:"required"`
		Amount int  `json:"amount" validate:"required,min=1,max=32767"`
	}

	RecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []uint                    `json:"tags" validate:"required"`
		Image       string                    `json:"image" validate:"required"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1,max=32767"`
	}

	RecipeIngredientResponse struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               uint                       `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	ShortRecipeResponse struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeFilter struct {
		Tags             []string
		Author           uint
		IsFavorited      *bool
		IsInShoppingCart *bool
		Page             int
		Limit            int
	}

	// ShoppingListItem is one aggregated row of the cart download, grouped by
	// ingredient name and unit across every recipe in the cart.
	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Total           int64  `json:"total"`
	}
)
