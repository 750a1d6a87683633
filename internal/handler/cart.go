package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
)

// CartHandler handles cart requests. All routes sit behind RequireAuth.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// HandleAddToCart increments one cart slot.
// POST /addtocart
// Request:  {"itemId":5}
// Response: Added
func (h *CartHandler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.carts.AddToCart, "Added")
}

// HandleRemoveFromCart decrements one cart slot, never below zero.
// POST /removefromcart
// Request:  {"itemId":5}
// Response: Removed
func (h *CartHandler) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.carts.RemoveFromCart, "Removed")
}

// HandleGetCart returns the full slot-to-quantity mapping.
// POST /getcart
// Response: {"0":0,"1":2,...}
func (h *CartHandler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"errors": "Please authenticate using a valid token"})
		return
	}

	cart, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		slog.Error("get cart", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int) error, done string) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"errors": "Please authenticate using a valid token"})
		return
	}

	var req struct {
		ItemID *flexInt `json:"itemId"`
	}
	if err := readJSON(r, &req); err != nil || req.ItemID == nil {
		writeError(w, http.StatusBadRequest, "itemId is required")
		return
	}

	if err := op(r.Context(), userID, int(*req.ItemID)); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "Invalid itemId")
			return
		}
		slog.Error("update cart", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	writeText(w, http.StatusOK, done)
}
