package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/ingredient"
	"foodgram-backend/pkg/relation"
	"foodgram-backend/pkg/tag"
	"foodgram-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint) ([]domain.RecipeResponse, int64, error)
		GetRecipeByID(ctx context.Context, id, userID uint) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID uint) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id uint, req domain.RecipeRequest, userID uint) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id, userID uint) error

		ToggleFavorite(ctx context.Context, method string, userID, recipeID uint) (*domain.ShortRecipeResponse, error)
		ToggleShoppingCart(ctx context.Context, method string, userID, recipeID uint) (*domain.ShortRecipeResponse, error)
		DownloadShoppingCart(ctx context.Context, userID uint) (string, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		ingredientRepository ingredient.IngredientRepository
		tagRepository        tag.TagRepository
		userRepository       user.UserRepository
		storage              storage.Storage
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientRepository ingredient.IngredientRepository,
	tagRepository tag.TagRepository,
	userRepository user.UserRepository,
	storage storage.Storage,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		ingredientRepository: ingredientRepository,
		tagRepository:        tagRepository,
		userRepository:       userRepository,
		storage:              storage,
	}
}

// requestSets carries the per-request membership sets the read responses are
// computed from. Built once per call, never per row.
type requestSets struct {
	favorites map[uint]struct{}
	cart      map[uint]struct{}
	follows   map[uint]struct{}
}

func (s *recipeService) buildRequestSets(ctx context.Context, userID uint) (requestSets, error) {
	favorites, err := s.recipeRepository.FavoriteRecipeIDs(ctx, userID)
	if err != nil {
		return requestSets{}, err
	}
	cart, err := s.recipeRepository.CartRecipeIDs(ctx, userID)
	if err != nil {
		return requestSets{}, err
	}
	follows, err := s.userRepository.FollowedAuthorIDs(ctx, userID)
	if err != nil {
		return requestSets{}, err
	}
	return requestSets{favorites: favorites, cart: cart, follows: follows}, nil
}

func (s *recipeService) responseOf(recipe entities.Recipe, sets requestSets) domain.RecipeResponse {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tags = append(tags, tag.TagResponseOf(t))
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, amount := range recipe.Ingredients {
		row := domain.RecipeIngredientResponse{
			ID:     amount.IngredientID,
			Amount: amount.Amount,
		}
		if amount.Ingredient != nil {
			row.Name = amount.Ingredient.Name
			row.MeasurementUnit = amount.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, row)
	}

	var author domain.UserResponse
	if recipe.Author != nil {
		author = user.ResponseOf(*recipe.Author, sets.follows)
	}

	_, favorited := sets.favorites[recipe.ID]
	_, inCart := sets.cart[recipe.ID]

	return domain.RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            s.storage.URL(recipe.Image),
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func (s *recipeService) shortResponseOf(recipe entities.Recipe) domain.ShortRecipeResponse {
	return domain.ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       s.storage.URL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, userID)
	if err != nil {
		return nil, 0, err
	}

	sets, err := s.buildRequestSets(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, s.responseOf(recipe, sets))
	}
	return res, count, nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id, userID uint) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	sets, err := s.buildRequestSets(ctx, userID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.responseOf(*recipe, sets), nil
}

// resolveIngredients checks every referenced ingredient id exists and builds
// the fresh amount rows for a recipe write.
func (s *recipeService) resolveIngredients(ctx context.Context, reqs []domain.RecipeIngredientRequest) ([]entities.IngredientAmount, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoIngredients
	}

	ids := make([]uint, 0, len(reqs))
	seen := make(map[uint]struct{}, len(reqs))
	for _, req := range reqs {
		if req.Amount < 1 || req.Amount > 32767 {
			return nil, domain.ErrInvalidAmount
		}
		if _, ok := seen[req.ID]; !ok {
			seen[req.ID] = struct{}{}
			ids = append(ids, req.ID)
		}
	}

	existing, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(ids) {
		return nil, domain.ErrUnknownIngredient
	}

	amounts := make([]entities.IngredientAmount, 0, len(reqs))
	for _, req := range reqs {
		amounts = append(amounts, entities.IngredientAmount{
			IngredientID: req.ID,
			Amount:       req.Amount,
		})
	}
	return amounts, nil
}

func (s *recipeService) resolveTags(ctx context.Context, ids []uint) ([]entities.Tag, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, domain.ErrUnknownTag
	}
	return tags, nil
}

func (s *recipeService) storeImage(ctx context.Context, data string) (string, error) {
	ext, payload, err := utils.DecodeImageDataURI(data)
	if err != nil {
		return "", domain.ErrImageFormat
	}

	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)
	if err := s.storage.Upload(ctx, key, payload, "image/"+ext); err != nil {
		return "", err
	}
	return key, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID uint) (domain.RecipeResponse, error) {
	if req.CookingTime < 1 || req.CookingTime > 32767 {
		return domain.RecipeResponse{}, domain.ErrInvalidCookingTime
	}

	amounts, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageKey, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		Name:        req.Name,
		AuthorID:    userID,
		Text:        req.Text,
		Image:       imageKey,
		CookingTime: req.CookingTime,
		Ingredients: amounts,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tags); err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.GetRecipeByID(ctx, recipe.ID, userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id uint, req domain.RecipeRequest, userID uint) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	if req.CookingTime < 1 || req.CookingTime > 32767 {
		return domain.RecipeResponse{}, domain.ErrInvalidCookingTime
	}

	amounts, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageKey, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	oldImage := recipe.Image

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.Image = imageKey
	recipe.CookingTime = req.CookingTime
	recipe.Ingredients = amounts

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	if oldImage != "" && oldImage != imageKey {
		_ = s.storage.Delete(ctx, oldImage)
	}
	return s.GetRecipeByID(ctx, recipe.ID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id, userID uint) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID != userID {
		return domain.ErrNotRecipeAuthor
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return err
	}

	if recipe.Image != "" {
		_ = s.storage.Delete(ctx, recipe.Image)
	}
	return nil
}

func (s *recipeService) toggleRelation(
	ctx context.Context,
	method string,
	userID, recipeID uint,
	toggle func(ctx context.Context, method string, userID, recipeID uint) error,
	errExists, errAbsent error,
) (*domain.ShortRecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}

	if err := toggle(ctx, method, userID, recipeID); err != nil {
		switch {
		case errors.Is(err, relation.ErrAlreadyExists):
			return nil, errExists
		case errors.Is(err, relation.ErrNotFound):
			return nil, errAbsent
		default:
			return nil, err
		}
	}

	if method != fiber.MethodPost {
		return nil, nil
	}
	res := s.shortResponseOf(*recipe)
	return &res, nil
}

func (s *recipeService) ToggleFavorite(ctx context.Context, method string, userID, recipeID uint) (*domain.ShortRecipeResponse, error) {
	return s.toggleRelation(ctx, method, userID, recipeID,
		s.recipeRepository.ToggleFavorite,
		domain.ErrAlreadyInFavorite, domain.ErrNotInFavorite,
	)
}

func (s *recipeService) ToggleShoppingCart(ctx context.Context, method string, userID, recipeID uint) (*domain.ShortRecipeResponse, error) {
	return s.toggleRelation(ctx, method, userID, recipeID,
		s.recipeRepository.ToggleShoppingCart,
		domain.ErrAlreadyInCart, domain.ErrNotInCart,
	)
}

// RenderShoppingList prints one "{name} {total}{unit}" line per aggregated
// ingredient.
func RenderShoppingList(items []domain.ShoppingListItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s %d%s\n", item.Name, item.Total, item.MeasurementUnit)
	}
	return b.String()
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID uint) (string, error) {
	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(items), nil
}
