package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/storefront/internal/domain"
)

// productRepo implements domain.ProductRepository using SQLite.
type productRepo struct {
	db *sql.DB
}

const productColumns = `id, name, image, category, new_price, old_price, available, created_at`

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	// The next ID is computed in the same statement as the insert.
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (id, name, image, category, new_price, old_price, available, created_at)
		 SELECT COALESCE(MAX(id), 0) + 1, ?, ?, ?, ?, ?, ?, ? FROM products
		 RETURNING id`,
		product.Name, product.Image, product.Category, product.NewPrice, product.OldPrice, product.Available, now,
	).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	product.CreatedAt = now
	return nil
}

func (r *productRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Image, &p.Category, &p.NewPrice, &p.OldPrice, &p.Available, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`DELETE FROM products WHERE id = ? RETURNING `+productColumns, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return p, nil
}

func scanProduct(row *sql.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Image, &p.Category, &p.NewPrice, &p.OldPrice, &p.Available, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
