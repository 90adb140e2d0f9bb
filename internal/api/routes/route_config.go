package routes

import (
	"foodgram-backend/internal/api/handlers"
	"foodgram-backend/internal/middleware"
	"foodgram-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Auth()
	c.Users()
	c.Tags()
	c.Ingredients()
	c.Recipes()
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth/token")
	auth.Post("/login", c.UserHandler.Login)
	auth.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
}

func (c *Config) Users() {
	requireAuth := c.Middleware.AuthMiddleware(c.JWTService)
	optionalAuth := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	users := c.App.Group("/api/v1/users")
	{
		users.Get("", optionalAuth, c.UserHandler.GetUsers)
		users.Post("", c.UserHandler.Register)
		users.Get("/me", requireAuth, c.UserHandler.Me)
		users.Post("/set_password", requireAuth, c.UserHandler.SetPassword)
		users.Post("/reset_password", c.UserHandler.ResetPassword)
		users.Post("/reset_password_confirm", c.UserHandler.ResetPasswordConfirm)
		users.Get("/subscriptions", requireAuth, c.UserHandler.GetSubscriptions)
		users.Get("/:id", requireAuth, c.UserHandler.GetUserByID)
		users.Post("/:id/subscribe", requireAuth, c.UserHandler.Subscribe)
		users.Delete("/:id/subscribe", requireAuth, c.UserHandler.Subscribe)
	}
}

func (c *Config) Tags() {
	tags := c.App.Group("/api/v1/tags")
	tags.Get("", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTagDetail)
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/v1/ingredients")
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredientDetail)
}

func (c *Config) Recipes() {
	requireAuth := c.Middleware.AuthMiddleware(c.JWTService)
	optionalAuth := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/v1/recipes")
	{
		recipes.Get("/download_shopping_cart", requireAuth, c.RecipeHandler.DownloadShoppingCart)
		recipes.Get("", optionalAuth, c.RecipeHandler.GetRecipes)
		recipes.Post("", requireAuth, c.RecipeHandler.CreateRecipe)
		recipes.Get("/:id", optionalAuth, c.RecipeHandler.GetRecipeDetail)
		recipes.Patch("/:id", requireAuth, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", requireAuth, c.RecipeHandler.DeleteRecipe)
		recipes.Post("/:id/favorite", requireAuth, c.RecipeHandler.ManageFavorite)
		recipes.Delete("/:id/favorite", requireAuth, c.RecipeHandler.ManageFavorite)
		recipes.Post("/:id/shopping_cart", requireAuth, c.RecipeHandler.ManageShoppingCart)
		recipes.Delete("/:id/shopping_cart", requireAuth, c.RecipeHandler.ManageShoppingCart)
	}
}
