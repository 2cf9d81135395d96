package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/fjod/evermarket/internal/cart"
	"github.com/fjod/evermarket/internal/catalog"
	"github.com/fjod/evermarket/internal/checkout"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError maps domain errors onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, err error) {
	var stockErr *checkout.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error: stockErr.Error(),
			Code:  "insufficient_stock",
			Details: map[string]any{
				"product_id": stockErr.ProductID,
				"available":  stockErr.Available,
				"requested":  stockErr.Requested,
			},
		})
		return
	}

	var missingErr *checkout.ProductNotFoundError
	if errors.As(err, &missingErr) {
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   missingErr.Error(),
			Code:    "product_not_found",
			Details: map[string]any{"product_id": missingErr.ProductID},
		})
		return
	}

	switch {
	case errors.Is(err, auth.ErrPermissionDenied), errors.Is(err, catalog.ErrNotOwner):
		respondError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrStoreNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrConflict):
		respondError(w, http.StatusConflict, "conflict_retry", err.Error())
	case errors.Is(err, auth.ErrUserExists):
		respondError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		respondError(w, http.StatusBadRequest, "invalid_token", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
