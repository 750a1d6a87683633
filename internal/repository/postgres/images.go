package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/storefront/internal/domain"
)

// imageStore keeps uploaded product images as BYTEA rows in product_images.
type imageStore struct {
	pool *pgxpool.Pool
}

func (s *imageStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO product_images (image_key, data, size) VALUES ($1, $2, $3)", key, data, len(data))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: image %s is already stored", domain.ErrInvalidInput, key)
		}
		return fmt.Errorf("save product image %s: %w", key, err)
	}
	return nil
}

func (s *imageStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		"SELECT data FROM product_images WHERE image_key = $1", key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product image %s: %w", key, err)
	}
	return data, nil
}

// Delete is a no-op for unknown keys.
func (s *imageStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM product_images WHERE image_key = $1", key); err != nil {
		return fmt.Errorf("delete product image %s: %w", key, err)
	}
	return nil
}
