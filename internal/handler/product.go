package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productResult struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

// HandleAllProducts lists the whole catalog.
// GET /allproducts
func (h *ProductHandler) HandleAllProducts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.catalog.AllProducts)
}

// HandleNewCollections lists the products after the first, up to eight.
// GET /newcollections
func (h *ProductHandler) HandleNewCollections(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.catalog.NewCollections)
}

// HandlePopularInWomen lists the first four products.
// GET /popularinwomen
func (h *ProductHandler) HandlePopularInWomen(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.catalog.PopularInWomen)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]domain.Product, error)) {
	products, err := fetch(r.Context())
	if err != nil {
		slog.Error("list products", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(products))
}

// HandleAddProduct adds a product with the next free ID.
// POST /addproduct
// Request:  {"name":"...","image":"...","category":"...","new_price":50,"old_price":80}
// Response: {"success":true,"name":"..."}
func (h *ProductHandler) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Image    string  `json:"image"`
		Category string  `json:"category"`
		NewPrice float64 `json:"new_price"`
		OldPrice float64 `json:"old_price"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), service.ProductInput{
		Name:     req.Name,
		Image:    req.Image,
		Category: req.Category,
		NewPrice: req.NewPrice,
		OldPrice: req.OldPrice,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "name, image and category are required")
			return
		}
		slog.Error("add product", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add product")
		return
	}

	slog.Info("product added", "id", product.ID, "name", product.Name)
	writeJSON(w, http.StatusOK, productResult{Success: true, Name: product.Name})
}

// HandleRemoveProduct deletes a product by ID. Removing an unknown ID still
// reports success.
// POST /removeproduct
// Request:  {"id":3,"name":"..."}
// Response: {"success":true,"name":"..."}
func (h *ProductHandler) HandleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   *flexInt `json:"id"`
		Name string   `json:"name"`
	}
	if err := readJSON(r, &req); err != nil || req.ID == nil {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	name := req.Name
	removed, err := h.catalog.RemoveProduct(r.Context(), int64(*req.ID))
	switch {
	case err == nil:
		slog.Info("product removed", "id", removed.ID)
		if name == "" {
			name = removed.Name
		}
	case errors.Is(err, domain.ErrNotFound):
	default:
		slog.Error("remove product", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to remove product")
		return
	}

	writeJSON(w, http.StatusOK, productResult{Success: true, Name: name})
}
