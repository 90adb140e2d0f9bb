package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/relation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUsers(ctx context.Context, page, limit int, requesterID uint) ([]domain.UserResponse, int64, error)
		GetUserByID(ctx context.Context, id, requesterID uint) (domain.UserResponse, error)
		SetPassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
		ResetPasswordConfirm(ctx context.Context, req domain.ResetPasswordConfirmRequest) error
		GetSubscriptions(ctx context.Context, userID uint, recipesLimit string, page, limit int) ([]domain.SubscriptionResponse, int64, error)
		Subscribe(ctx context.Context, method string, userID, authorID uint, recipesLimit string) (*domain.SubscriptionResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		storage        storage.Storage
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, storage storage.Storage) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		storage:        storage,
	}
}

// ResponseOf builds the wire shape of a user. follows is the requesting
// user's followed-author ID set, computed once per request.
func ResponseOf(user entities.User, follows map[uint]struct{}) domain.UserResponse {
	_, subscribed := follows[user.ID]
	return domain.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.RegisterResponse{}, domain.ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
	}

	// A racing insert can trip either unique index; the driver does not say
	// which one, so report the duplicate without guessing the column.
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RegisterResponse{}, domain.ErrUserAlreadyExists
		}
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	return domain.LoginResponse{AuthToken: s.jwtService.GenerateTokenUser(user.ID)}, nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, requesterID uint) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	follows, err := s.userRepository.FollowedAuthorIDs(ctx, requesterID)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, user := range users {
		res = append(res, ResponseOf(user, follows))
	}
	return res, count, nil
}

func (s *userService) GetUserByID(ctx context.Context, id, requesterID uint) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	follows, err := s.userRepository.FollowedAuthorIDs(ctx, requesterID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ResponseOf(*user, follows), nil
}

func (s *userService) SetPassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrPasswordNotMatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address is registered.
			return nil
		}
		return err
	}

	token, err := s.jwtService.GenerateResetToken(user.Email, 30*time.Minute)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset_password_confirm?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>Hello, %s.</p><p>Follow <a href=%q>this link</a> to set a new password. The link expires in 30 minutes.</p>",
		user.Username, link,
	)
	return mailing.SendMail(user.Email, "Password reset", body)
}

func (s *userService) ResetPasswordConfirm(ctx context.Context, req domain.ResetPasswordConfirmRequest) error {
	email, err := s.jwtService.ValidateResetToken(req.Token)
	if err != nil {
		return err
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, user.ID, string(hash))
}

// parseRecipesLimit interprets the recipes_limit query parameter: a negative
// result means no cap. Absent or non-numeric values leave the list uncapped.
func parseRecipesLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func (s *userService) buildSubscriptions(ctx context.Context, authors []entities.User, recipesLimit string) ([]domain.SubscriptionResponse, error) {
	authorIDs := make([]uint, 0, len(authors))
	for _, author := range authors {
		authorIDs = append(authorIDs, author.ID)
	}

	counts, err := s.userRepository.CountRecipesByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	recipes, err := s.userRepository.GetRecipesByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	maxRecipes := parseRecipesLimit(recipesLimit)
	byAuthor := make(map[uint][]domain.ShortRecipeResponse, len(authors))
	for _, recipe := range recipes {
		if maxRecipes >= 0 && len(byAuthor[recipe.AuthorID]) >= maxRecipes {
			continue
		}
		byAuthor[recipe.AuthorID] = append(byAuthor[recipe.AuthorID], domain.ShortRecipeResponse{
			ID:          recipe.ID,
			Name:        recipe.Name,
			Image:       s.storage.URL(recipe.Image),
			CookingTime: recipe.CookingTime,
		})
	}

	res := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		entry := domain.SubscriptionResponse{
			UserResponse: domain.UserResponse{
				ID:           author.ID,
				Email:        author.Email,
				Username:     author.Username,
				FirstName:    author.FirstName,
				LastName:     author.LastName,
				IsSubscribed: true,
			},
			Recipes:      byAuthor[author.ID],
			RecipesCount: counts[author.ID],
		}
		if entry.Recipes == nil {
			entry.Recipes = []domain.ShortRecipeResponse{}
		}
		res = append(res, entry)
	}
	return res, nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID uint, recipesLimit string, page, limit int) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.userRepository.GetSubscriptions(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.buildSubscriptions(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func (s *userService) Subscribe(ctx context.Context, method string, userID, authorID uint, recipesLimit string) (*domain.SubscriptionResponse, error) {
	if userID == authorID {
		return nil, domain.ErrSelfSubscription
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepository.ToggleFollow(ctx, method, authorID, userID); err != nil {
		switch {
		case errors.Is(err, relation.ErrAlreadyExists):
			return nil, domain.ErrAlreadySubscribed
		case errors.Is(err, relation.ErrNotFound):
			return nil, domain.ErrNotSubscribed
		default:
			return nil, err
		}
	}

	if method != fiber.MethodPost {
		return nil, nil
	}

	res, err := s.buildSubscriptions(ctx, []entities.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &res[0], nil
}
