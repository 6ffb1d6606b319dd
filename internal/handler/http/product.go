package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/repository"
	"github.com/sophialaurans/stockly-go/internal/service"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
	"github.com/sophialaurans/stockly-go/pkg/httputil"
	"github.com/sophialaurans/stockly-go/pkg/pagination"
	"github.com/sophialaurans/stockly-go/pkg/validator"
)

// ProductHandler handles HTTP requests for product catalog endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=500"`
	Size        string `json:"size" validate:"max=50"`
	Color       string `json:"color" validate:"max=50"`
	UnitPrice   int64  `json:"unit_price" validate:"gte=0"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	MinQuantity int    `json:"min_quantity" validate:"gte=0"`
}

// UpdateProductRequest is the JSON request body for a partial product update.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=500"`
	Size        *string `json:"size" validate:"omitempty,max=50"`
	Color       *string `json:"color" validate:"omitempty,max=50"`
	UnitPrice   *int64  `json:"unit_price" validate:"omitempty,gte=0"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gte=0"`
	MinQuantity *int    `json:"min_quantity" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}

// GetProduct handles GET /api/v1/products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	filter := repository.ProductFilter{
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Page:       params.Page,
		PerPage:    params.PerPage,
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse[domain.Product](products, total, params.Page, params.PerPage),
	})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Size:        req.Size,
		Color:       req.Color,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PATCH /api/v1/products/{productId}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), productID, service.UpdateProductInput{
		Name:        req.Name,
		Size:        req.Size,
		Color:       req.Color,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		IsActive:    req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{productId}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}
