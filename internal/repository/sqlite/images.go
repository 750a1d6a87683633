package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/storefront/internal/domain"
)

// imageStore keeps uploaded product images in the product_images table,
// keyed by the upload's storage key (product_<uuid><ext>).
type imageStore struct {
	db *sql.DB
}

func (s *imageStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO product_images (image_key, data, size) VALUES (?, ?, ?)",
		key, data, len(data),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: image %s is already stored", domain.ErrInvalidInput, key)
		}
		return fmt.Errorf("save product image %s: %w", key, err)
	}
	return nil
}

func (s *imageStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM product_images WHERE image_key = ?", key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product image %s: %w", key, err)
	}
	return data, nil
}

// Delete is a no-op for unknown keys.
func (s *imageStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM product_images WHERE image_key = ?", key); err != nil {
		return fmt.Errorf("delete product image %s: %w", key, err)
	}
	return nil
}
