package domain

import (
	"context"
	"time"
)

// Product is a catalog entry.
type Product struct {
	ID        int64
	Name      string
	Image     string // Public URL of the product image
	Category  string
	NewPrice  float64
	OldPrice  float64
	Available bool
	CreatedAt time.Time
}

// ProductRepository defines persistence operations for the catalog.
type ProductRepository interface {
	// Create assigns the next product ID (max existing + 1, or 1 when the
	// catalog is empty) and stores the product.
	Create(ctx context.Context, product *Product) error
	// List returns all products in insertion order.
	List(ctx context.Context) ([]Product, error)
	// Delete removes the product with the given ID and returns it.
	Delete(ctx context.Context, id int64) (*Product, error)
}
