package recipe

import (
	"context"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/relation"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []entities.Tag) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []entities.Tag) error
		GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint) ([]entities.Recipe, int64, error)
		DeleteRecipe(ctx context.Context, id uint) error

		ToggleFavorite(ctx context.Context, method string, userID, recipeID uint) error
		ToggleShoppingCart(ctx context.Context, method string, userID, recipeID uint) error
		FavoriteRecipeIDs(ctx context.Context, userID uint) (map[uint]struct{}, error)
		CartRecipeIDs(ctx context.Context, userID uint) (map[uint]struct{}, error)
		GetShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []entities.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(recipe).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

// UpdateRecipe replaces the recipe's base fields, its tag links and its full
// set of ingredient amount rows.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []entities.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.IngredientAmount{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Tags").Session(&gorm.Session{FullSaveAssociations: false}).Save(recipe).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, userID uint) ([]entities.Recipe, int64, error) {
	var recipes []entities.Recipe
	var count int64
	offset := (filter.Page - 1) * filter.Limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if len(filter.Tags) > 0 {
		tagged := r.db.Model(&entities.Tag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if filter.Author != 0 {
		query = query.Where("recipes.author_id = ?", filter.Author)
	}

	if filter.IsFavorited != nil && userID != 0 {
		favorited := r.db.Model(&entities.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", userID)
		if *filter.IsFavorited {
			query = query.Where("recipes.id IN (?)", favorited)
		} else {
			query = query.Where("recipes.id NOT IN (?)", favorited)
		}
	}

	if filter.IsInShoppingCart != nil && userID != 0 {
		inCart := r.db.Model(&entities.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", userID)
		if *filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)", inCart)
		} else {
			query = query.Where("recipes.id NOT IN (?)", inCart)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(filter.Limit).
		Order("recipes.id desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conds := []any{"recipe_id = ?", id}
		if err := tx.Delete(&entities.IngredientAmount{}, conds...).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entities.Favorite{}, conds...).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entities.ShoppingCart{}, conds...).Error; err != nil {
			return err
		}
		recipe := entities.Recipe{ID: id}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

func (r *recipeRepository) ToggleFavorite(ctx context.Context, method string, userID, recipeID uint) error {
	return relation.Toggle(ctx, r.db, method,
		entities.Favorite{UserID: userID, RecipeID: recipeID},
		"user_id = ? AND recipe_id = ?", userID, recipeID,
	)
}

func (r *recipeRepository) ToggleShoppingCart(ctx context.Context, method string, userID, recipeID uint) error {
	return relation.Toggle(ctx, r.db, method,
		entities.ShoppingCart{UserID: userID, RecipeID: recipeID},
		"user_id = ? AND recipe_id = ?", userID, recipeID,
	)
}

func (r *recipeRepository) recipeIDSet(ctx context.Context, model any, userID uint) (map[uint]struct{}, error) {
	ids := make(map[uint]struct{})
	if userID == 0 {
		return ids, nil
	}

	var recipeIDs []uint
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &recipeIDs).Error; err != nil {
		return nil, err
	}

	for _, id := range recipeIDs {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (r *recipeRepository) FavoriteRecipeIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	return r.recipeIDSet(ctx, &entities.Favorite{}, userID)
}

func (r *recipeRepository) CartRecipeIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	return r.recipeIDSet(ctx, &entities.ShoppingCart{}, userID)
}

// GetShoppingList sums ingredient amounts over every recipe in the user's
// cart, grouped by ingredient name and measurement unit.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Model(&entities.IngredientAmount{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_amounts.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = ingredient_amounts.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = ingredient_amounts.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("total desc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
