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

// ClientHandler handles HTTP requests for client directory endpoints.
type ClientHandler struct {
	service *service.ClientService
	logger  *slog.Logger
}

// NewClientHandler creates a new client HTTP handler.
func NewClientHandler(svc *service.ClientService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateClientRequest is the JSON request body for creating a client.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=500"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=1000"`
}

// UpdateClientRequest is the JSON request body for a partial client update.
type UpdateClientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=500"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=1000"`
}

// GetClient handles GET /api/v1/clients/{clientId}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	client, err := h.service.GetClient(r.Context(), clientID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: client})
}

// ListClients handles GET /api/v1/clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	clients, total, err := h.service.ListClients(r.Context(), repository.ClientFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse[domain.Client](clients, total, params.Page, params.PerPage),
	})
}

// CreateClient handles POST /api/v1/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	client, err := h.service.CreateClient(r.Context(), service.CreateClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: client})
}

// UpdateClient handles PATCH /api/v1/clients/{clientId}
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	client, err := h.service.UpdateClient(r.Context(), clientID, service.UpdateClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: client})
}
