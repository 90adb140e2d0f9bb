package user

import (
	"context"

	"foodgram-backend/entities"
	"foodgram-backend/pkg/relation"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uint) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		GetUsers(ctx context.Context, page, limit int) ([]entities.User, int64, error)
		UpdatePassword(ctx context.Context, userID uint, passwordHash string) error

		// Subscription queries.
		FollowedAuthorIDs(ctx context.Context, followerID uint) (map[uint]struct{}, error)
		GetSubscriptions(ctx context.Context, followerID uint, page, limit int) ([]entities.User, int64, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
		GetRecipesByAuthors(ctx context.Context, authorIDs []uint) ([]entities.Recipe, error)
		ToggleFollow(ctx context.Context, method string, authorID, followerID uint) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUsers(ctx context.Context, page, limit int) ([]entities.User, int64, error) {
	var users []entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Order("id").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Update("password", passwordHash).Error
}

func (r *userRepository) FollowedAuthorIDs(ctx context.Context, followerID uint) (map[uint]struct{}, error) {
	ids := make(map[uint]struct{})
	if followerID == 0 {
		return ids, nil
	}

	var authorIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("author_id", &authorIDs).Error; err != nil {
		return nil, err
	}

	for _, id := range authorIDs {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (r *userRepository) GetSubscriptions(ctx context.Context, followerID uint, page, limit int) ([]entities.User, int64, error) {
	var authors []entities.User
	var count int64
	offset := (page - 1) * limit

	followed := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Select("author_id").
		Where("follower_id = ?", followerID)

	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id IN (?)", followed).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("id IN (?)", followed).
		Offset(offset).
		Limit(limit).
		Order("id desc").
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	return authors, count, nil
}

func (r *userRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *userRepository) GetRecipesByAuthors(ctx context.Context, authorIDs []uint) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if len(authorIDs) == 0 {
		return recipes, nil
	}

	if err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("id desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *userRepository) ToggleFollow(ctx context.Context, method string, authorID, followerID uint) error {
	return relation.Toggle(ctx, r.db, method,
		entities.Follow{AuthorID: authorID, FollowerID: followerID},
		"author_id = ? AND follower_id = ?", authorID, followerID,
	)
}
