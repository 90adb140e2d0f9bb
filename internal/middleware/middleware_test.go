package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram-backend/entities"

	"github.com/gofiber/fiber/v2"
	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubJWTService accepts exactly one token and maps it to userID.
type stubJWTService struct {
	token  string
	userID uint
}

func (s stubJWTService) GenerateTokenUser(userID uint) string { return s.token }
func (s stubJWTService) ValidateTokenUser(token string) (*jwtlib.Token, error) {
	return nil, nil
}
func (s stubJWTService) GetUserIDByToken(token string) (uint, error) {
	if token != s.token {
		return 0, jwtlib.ErrTokenMalformed
	}
	return s.userID, nil
}
func (s stubJWTService) GenerateResetToken(email string, duration time.Duration) (string, error) {
	return "", nil
}
func (s stubJWTService) ValidateResetToken(token string) (string, error) { return "", nil }

// stubUserRepository serves a fixed set of users by id.
type stubUserRepository struct {
	users map[uint]*entities.User
}

func (s stubUserRepository) CreateUser(ctx context.Context, user *entities.User) error { return nil }
func (s stubUserRepository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s stubUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s stubUserRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s stubUserRepository) GetUsers(ctx context.Context, page, limit int) ([]entities.User, int64, error) {
	return nil, 0, nil
}
func (s stubUserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return nil
}
func (s stubUserRepository) FollowedAuthorIDs(ctx context.Context, followerID uint) (map[uint]struct{}, error) {
	return map[uint]struct{}{}, nil
}
func (s stubUserRepository) GetSubscriptions(ctx context.Context, followerID uint, page, limit int) ([]entities.User, int64, error) {
	return nil, 0, nil
}
func (s stubUserRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	return map[uint]int64{}, nil
}
func (s stubUserRepository) GetRecipesByAuthors(ctx context.Context, authorIDs []uint) ([]entities.Recipe, error) {
	return nil, nil
}
func (s stubUserRepository) ToggleFollow(ctx context.Context, method string, authorID, followerID uint) error {
	return nil
}

func newMiddlewareApp(users map[uint]*entities.User, jwtService stubJWTService) *fiber.App {
	app := fiber.New()
	m := NewMiddleware(stubUserRepository{users: users})

	echo := func(c *fiber.Ctx) error {
		id, _ := c.Locals("user_id").(uint)
		return c.JSON(fiber.Map{"user_id": id})
	}

	app.Get("/required", m.AuthMiddleware(jwtService), echo)
	app.Post("/required", m.AuthMiddleware(jwtService), echo)
	app.Get("/optional", m.OptionalAuthMiddleware(jwtService), echo)
	return app
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	app := newMiddlewareApp(nil, stubJWTService{})

	req := httptest.NewRequest(fiber.MethodGet, "/required", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	app := newMiddlewareApp(nil, stubJWTService{token: "good", userID: 1})

	req := httptest.NewRequest(fiber.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer bad")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	users := map[uint]*entities.User{1: {ID: 1}}
	app := newMiddlewareApp(users, stubJWTService{token: "good", userID: 1})

	req := httptest.NewRequest(fiber.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer good")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestAuthMiddlewareDeletedUser(t *testing.T) {
	app := newMiddlewareApp(nil, stubJWTService{token: "good", userID: 1})

	req := httptest.NewRequest(fiber.MethodGet, "/required", nil)
	req.Header.Set("Authorization", "Bearer good")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestBlockedUserKeepsReadAccess(t *testing.T) {
	users := map[uint]*entities.User{1: {ID: 1, IsBlocked: true}}
	app := newMiddlewareApp(users, stubJWTService{token: "good", userID: 1})

	get := httptest.NewRequest(fiber.MethodGet, "/required", nil)
	get.Header.Set("Authorization", "Bearer good")
	res, err := app.Test(get)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	post := httptest.NewRequest(fiber.MethodPost, "/required", nil)
	post.Header.Set("Authorization", "Bearer good")
	res, err = app.Test(post)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestOptionalAuthAnonymous(t *testing.T) {
	app := newMiddlewareApp(nil, stubJWTService{token: "good", userID: 1})

	req := httptest.NewRequest(fiber.MethodGet, "/optional", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestOptionalAuthRejectsBadToken(t *testing.T) {
	app := newMiddlewareApp(nil, stubJWTService{token: "good", userID: 1})

	req := httptest.NewRequest(fiber.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer bad")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}
