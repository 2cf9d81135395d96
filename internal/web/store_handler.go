package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fjod/evermarket/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type StoreHandler struct {
	service *catalog.Service
}

func NewStoreHandler(service *catalog.Service) *StoreHandler {
	return &StoreHandler{service: service}
}

type StoreRequestDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req StoreRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	store, err := h.service.CreateStore(r.Context(), user, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, store)
}

func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	stores, err := h.service.ListStores(r.Context(), user)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if stores == nil {
		stores = []*catalog.Store{}
	}
	respondJSON(w, http.StatusOK, stores)
}

func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	storeID, ok := pathID(w, r, "store_id")
	if !ok {
		return
	}

	var req StoreRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store, err := h.service.UpdateStore(r.Context(), user, storeID, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, store)
}

func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	storeID, ok := pathID(w, r, "store_id")
	if !ok {
		return
	}

	if err := h.service.DeleteStore(r.Context(), user, storeID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a positive int64 URL parameter, responding 400 itself
// on bad input.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
