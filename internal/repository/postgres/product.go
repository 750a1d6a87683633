package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/storefront/internal/domain"
)

type productRepo struct {
	pool *pgxpool.Pool
}

const productColumns = `id, name, image, category, new_price, old_price, available, created_at`

// createAttempts bounds retries when concurrent inserts race for the same
// MAX(id)+1 under READ COMMITTED.
const createAttempts = 10

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	var err error
	for range createAttempts {
		err = r.pool.QueryRow(ctx,
			`INSERT INTO products (id, name, image, category, new_price, old_price, available)
			 SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3, $4, $5, $6 FROM products
			 RETURNING id, created_at`,
			product.Name, product.Image, product.Category, product.NewPrice, product.OldPrice, product.Available,
		).Scan(&product.ID, &product.CreatedAt)
		if err == nil || !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *productRepo) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`DELETE FROM products WHERE id = $1 RETURNING `+productColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Image, &p.Category, &p.NewPrice, &p.OldPrice, &p.Available, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
