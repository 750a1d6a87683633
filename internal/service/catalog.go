package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/storefront/internal/domain"
)

const (
	newCollectionSize = 8
	popularSize       = 4
)

// CatalogService manages the product catalog.
type CatalogService struct {
	products    domain.ProductRepository
	files       domain.FileStore
	imagePrefix string
}

// NewCatalogService creates a new CatalogService. Product images served from
// publicURL are removed from files together with their product.
func NewCatalogService(products domain.ProductRepository, files domain.FileStore, publicURL string) *CatalogService {
	return &CatalogService{
		products:    products,
		files:       files,
		imagePrefix: strings.TrimRight(publicURL, "/") + "/images/",
	}
}

// ProductInput carries the fields a client supplies when adding a product.
type ProductInput struct {
	Name     string
	Image    string
	Category string
	NewPrice float64
	OldPrice float64
}

// AddProduct validates and stores a new, available product.
func (s *CatalogService) AddProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if in.Name == "" || in.Image == "" || in.Category == "" {
		return nil, fmt.Errorf("%w: name, image, and category are required", domain.ErrInvalidInput)
	}

	product := &domain.Product{
		Name:      in.Name,
		Image:     in.Image,
		Category:  in.Category,
		NewPrice:  in.NewPrice,
		OldPrice:  in.OldPrice,
		Available: true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// RemoveProduct deletes the product with the given ID, then its uploaded
// image when this server stores it and no other product uses it. A failed
// image delete is logged and does not fail the removal.
func (s *CatalogService) RemoveProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete product %d: %w", id, err)
	}

	if key, ok := strings.CutPrefix(product.Image, s.imagePrefix); ok && key != "" {
		if err := s.deleteImage(ctx, product.Image, key); err != nil {
			slog.Warn("delete product image", "product_id", id, "key", key, "error", err)
		}
	}
	return product, nil
}

// deleteImage removes the stored file unless another product still shows it.
func (s *CatalogService) deleteImage(ctx context.Context, imageURL, key string) error {
	products, err := s.products.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.Image == imageURL {
			return nil
		}
	}
	return s.files.Delete(ctx, key)
}

// AllProducts returns the whole catalog in insertion order.
func (s *CatalogService) AllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// NewCollections skips the first product and returns up to the next eight.
func (s *CatalogService) NewCollections(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) <= 1 {
		return []domain.Product{}, nil
	}
	return products[1:min(len(products), 1+newCollectionSize)], nil
}

// PopularInWomen returns the first four products.
func (s *CatalogService) PopularInWomen(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return products[:min(len(products), popularSize)], nil
}
