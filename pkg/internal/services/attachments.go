package services

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// MediaFs holds uploaded images, keys are paths relative to its root.
var MediaFs afero.Fs

var allowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

func InitializeMediaStore() error {
	root := viper.GetString("media.root")
	if len(root) == 0 {
		root = "uploads"
	}

	base := afero.NewOsFs()
	if err := base.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("unable to prepare media root: %v", err)
	}
	MediaFs = afero.NewBasePathFs(base, root)
	log.Info().Str("root", root).Msg("Media store is ready.")
	return nil
}

func CheckImageExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedImageExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return ext, fmt.Errorf("%w: unsupported image type %q", ErrValidation, ext)
}

// SaveMedia stores the content under category with a fresh name and returns the key.
func SaveMedia(category string, content io.Reader, filename string) (string, error) {
	if MediaFs == nil {
		return "", fmt.Errorf("media store is not initialized")
	}

	ext, err := CheckImageExtension(filename)
	if err != nil {
		return "", err
	}

	if err := MediaFs.MkdirAll(category, 0755); err != nil {
		return "", fmt.Errorf("unable to prepare media directory: %v", err)
	}

	key := filepath.ToSlash(filepath.Join(category, uuid.NewString()+ext))
	if err := afero.WriteReader(MediaFs, key, content); err != nil {
		return "", fmt.Errorf("unable to write media: %v", err)
	}
	return key, nil
}

func DeleteMedia(key string) {
	if MediaFs == nil || len(key) == 0 {
		return
	}
	if err := MediaFs.Remove(key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("An error occurred when deleting media...")
	}
}

func GetMediaURL(key string) string {
	if len(key) == 0 {
		return ""
	}
	base := strings.TrimSuffix(viper.GetString("media.base_url"), "/")
	if len(base) == 0 {
		base = "/media"
	}
	return base + "/" + key
}
