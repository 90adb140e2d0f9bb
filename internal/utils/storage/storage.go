// Package storage stores uploaded recipe images. The local driver keeps files
// under MEDIA_ROOT and serves them from /media/; the s3 driver uploads to an
// AWS bucket instead.
package storage

import (
	"context"

	"foodgram-backend/internal/utils"
)

type Storage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

func NewStorage() (Storage, error) {
	if utils.GetConfig("STORAGE_DRIVER") == "s3" {
		return NewAwsS3()
	}
	return NewLocalStorage(), nil
}
