package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"foodgram-backend/internal/utils"
)

type localStorage struct {
	mediaRoot string
	appURL    string
}

func NewLocalStorage() Storage {
	mediaRoot := utils.GetConfig("MEDIA_ROOT")
	if mediaRoot == "" {
		mediaRoot = "./media"
	}
	return &localStorage{
		mediaRoot: mediaRoot,
		appURL:    strings.TrimRight(utils.GetConfig("APP_URL"), "/"),
	}
}

func (s *localStorage) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	path := filepath.Join(s.mediaRoot, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func (s *localStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.mediaRoot, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *localStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.appURL + "/media/" + key
}
