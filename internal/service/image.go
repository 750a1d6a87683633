package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/storefront/internal/domain"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageService stores uploaded product images and serves them back.
type ImageService struct {
	files     domain.FileStore
	publicURL string
}

// NewImageService creates a new ImageService. publicURL is the externally
// visible base URL of the server, used to build image links.
func NewImageService(files domain.FileStore, publicURL string) *ImageService {
	return &ImageService{files: files, publicURL: strings.TrimRight(publicURL, "/")}
}

// Upload validates and stores an image and returns its public URL.
func (s *ImageService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("%w: image exceeds 10MB limit", domain.ErrInvalidInput)
	}

	// Detect content type from file bytes (more reliable than multipart header).
	if contentType := http.DetectContentType(data); !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: unsupported image type %s", domain.ErrInvalidInput, contentType)
	}

	key := storageKey(filename)
	if err := s.files.Save(ctx, key, data); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	return s.publicURL + "/images/" + key, nil
}

// Get returns the stored image bytes and their content type.
func (s *ImageService) Get(ctx context.Context, key string) ([]byte, string, error) {
	data, err := s.files.Get(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("get file: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

// storageKey names an upload "product_<uuid><ext>" using the lowercased
// extension of the uploaded file name.
func storageKey(filename string) string {
	return "product_" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
