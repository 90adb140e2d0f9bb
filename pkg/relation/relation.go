// Package relation implements the shared create-or-conflict / delete-or-conflict
// logic behind the favorite, shopping cart and subscribe endpoints.
package relation

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	ErrAlreadyExists    = errors.New("relation already exists")
	ErrNotFound         = errors.New("relation not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Toggle applies an HTTP method to a join row of type T. POST creates the row
// and fails with ErrAlreadyExists when a row matching conds is present; DELETE
// removes the matching row and fails with ErrNotFound when none is. Any other
// method fails with ErrMethodNotAllowed before touching the database.
//
// The existence check and the insert are two statements, so the unique index
// on the join table stays the authoritative duplicate guard: a racing insert
// surfaces as gorm.ErrDuplicatedKey and is reported as ErrAlreadyExists.
func Toggle[T any](ctx context.Context, db *gorm.DB, method string, row T, query string, args ...any) error {
	if method != fiber.MethodPost && method != fiber.MethodDelete {
		return ErrMethodNotAllowed
	}

	var count int64
	if err := db.WithContext(ctx).Model(new(T)).Where(query, args...).Count(&count).Error; err != nil {
		return err
	}

	if method == fiber.MethodPost {
		if count > 0 {
			return ErrAlreadyExists
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyExists
			}
			return err
		}
		return nil
	}

	if count == 0 {
		return ErrNotFound
	}
	return db.WithContext(ctx).Where(query, args...).Delete(new(T)).Error
}
