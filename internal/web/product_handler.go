package web

import (
	"encoding/json"
	"net/http"

	"github.com/fjod/evermarket/internal/catalog"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	service *catalog.Service
}

func NewProductHandler(service *catalog.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

type ProductRequestDTO struct {
	StoreID     int64  `json:"store_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	req, price, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), user, req.StoreID, req.Name, req.Description, price, req.Stock)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

type ProductDetailDTO struct {
	*catalog.Product
	Reviews []*catalog.Review `json:"reviews"`
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	reviews, err := h.service.ListReviews(r.Context(), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*catalog.Review{}
	}
	respondJSON(w, http.StatusOK, ProductDetailDTO{Product: product, Reviews: reviews})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	req, price, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), user, productID, req.Name, req.Description, price, req.Stock)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), user, productID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ReviewRequestDTO struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	productID, ok := pathID(w, r, "product_id")
	if !ok {
		return
	}

	var req ReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	review, err := h.service.AddReview(r.Context(), user, productID, req.Rating, req.Comment)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (ProductRequestDTO, decimal.Decimal, bool) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return req, decimal.Zero, false
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return req, decimal.Zero, false
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be a non-negative decimal string")
		return req, decimal.Zero, false
	}
	if req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock cannot be negative")
		return req, decimal.Zero, false
	}
	return req, price, true
}
