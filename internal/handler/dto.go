package handler

import (
	"time"

	"github.com/msomdec/storefront/internal/domain"
)

// ProductDTO is the JSON representation of a product.
type ProductDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	NewPrice  float64 `json:"new_price"`
	OldPrice  float64 `json:"old_price"`
	Available bool    `json:"available"`
	Date      string  `json:"date"`
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Category:  p.Category,
		NewPrice:  p.NewPrice,
		OldPrice:  p.OldPrice,
		Available: p.Available,
		Date:      p.CreatedAt.Format(time.RFC3339),
	}
}

func toProductDTOs(products []domain.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	return dtos
}
