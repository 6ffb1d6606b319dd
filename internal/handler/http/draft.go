package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/service"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
	"github.com/sophialaurans/stockly-go/pkg/httputil"
	"github.com/sophialaurans/stockly-go/pkg/middleware"
	"github.com/sophialaurans/stockly-go/pkg/validator"
)

// DraftHandler handles HTTP requests for order draft endpoints.
type DraftHandler struct {
	service *service.DraftService
	logger  *slog.Logger
}

// NewDraftHandler creates a new draft HTTP handler.
func NewDraftHandler(svc *service.DraftService, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the draft.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for updating a line item quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// SetClientRequest is the JSON request body for selecting the draft's client.
type SetClientRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}

// SubmitRequest is the JSON request body for submitting the draft.
type SubmitRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// --- View DTOs ---

// LineItemView is a line item with its derived line total.
type LineItemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// DraftView is the draft shape returned to clients, with derived totals included.
type DraftView struct {
	ID         string         `json:"id"`
	ClientID   string         `json:"client_id,omitempty"`
	Items      []LineItemView `json:"items"`
	ItemCount  int            `json:"item_count"`
	TotalPrice int64          `json:"total_price"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

func newDraftView(d *domain.OrderDraft) DraftView {
	items := make([]LineItemView, len(d.Items))
	for i := range d.Items {
		item := &d.Items[i]
		items[i] = LineItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		}
	}
	return DraftView{
		ID:         d.ID,
		ClientID:   d.ClientID,
		Items:      items,
		ItemCount:  d.ItemCount(),
		TotalPrice: d.TotalPrice(),
		UpdatedAt:  d.UpdatedAt,
		ExpiresAt:  d.ExpiresAt,
	}
}

// --- Handlers ---

// GetDraft handles GET /api/v1/draft
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	draft, err := h.service.GetDraft(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newDraftView(draft)})
}

// AddItem handles POST /api/v1/draft/items
func (h *DraftHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.service.AddItem(r.Context(), userID, service.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newDraftView(draft)})
}

// UpdateItemQuantity handles PUT /api/v1/draft/items/{productId}
func (h *DraftHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.service.UpdateItemQuantity(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newDraftView(draft)})
}

// RemoveItem handles DELETE /api/v1/draft/items/{productId}
func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	draft, err := h.service.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newDraftView(draft)})
}

// SetClient handles PUT /api/v1/draft/client
func (h *DraftHandler) SetClient(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req SetClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.service.SetClient(r.Context(), userID, req.ClientID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newDraftView(draft)})
}

// ClearDraft handles DELETE /api/v1/draft
func (h *DraftHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.ClearDraft(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// Submit handles POST /api/v1/draft/submit
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req SubmitRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
			return
		}
		if err := validator.Validate(req); err != nil {
			httputil.WriteValidationError(w, err)
			return
		}
	}

	order, err := h.service.Submit(r.Context(), userID, req.Notes)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}
