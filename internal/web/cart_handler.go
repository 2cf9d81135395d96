package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fjod/evermarket/internal/cart"
	"github.com/fjod/evermarket/internal/checkout"
)

type CartHandler struct {
	carts     *cart.Service
	checkouts *checkout.Service
}

func NewCartHandler(carts *cart.Service, checkouts *checkout.Service) *CartHandler {
	return &CartHandler{carts: carts, checkouts: checkouts}
}

type AddItemRequestDTO struct {
	ProductID int64           `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	c, err := h.carts.AddItem(r.Context(), user, req.ProductID, parseQuantity(req.Quantity))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c.Entries())
}

func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, err := h.carts.ViewCart(r.Context(), user)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(r.Context(), user, productID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	receipt, err := h.checkouts.Checkout(r.Context(), user)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

// parseQuantity mirrors the permissive form handling: anything that is
// not a positive integer becomes 1.
func parseQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return cart.ClampQuantity(n)
	}

	// Quantity may arrive as a string ("3"); bad strings default to 1.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return cart.ClampQuantity(n)
		}
	}
	return 1
}
