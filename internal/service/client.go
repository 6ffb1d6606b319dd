package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/repository"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

// CreateClientInput holds the parameters for creating a client.
type CreateClientInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateClientInput holds the parameters for updating a client. Nil fields are
// left unchanged.
type UpdateClientInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ClientService implements the business logic for the client directory.
type ClientService struct {
	repo   repository.ClientRepository
	logger *slog.Logger
}

// NewClientService creates a new client service.
func NewClientService(repo repository.ClientRepository, logger *slog.Logger) *ClientService {
	return &ClientService{
		repo:   repo,
		logger: logger,
	}
}

// GetClient retrieves a client by id.
func (s *ClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("client id is required")
	}

	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}

	return client, nil
}

// ListClients returns clients matching the filter.
func (s *ClientService) ListClients(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, int, error) {
	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}

	return clients, total, nil
}

// CreateClient adds a new client to the directory.
func (s *ClientService) CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("client name is required")
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.logger.InfoContext(ctx, "client created",
		slog.String("client_id", client.ID),
		slog.String("name", client.Name),
	)

	return client, nil
}

// UpdateClient applies a partial update to a client.
func (s *ClientService) UpdateClient(ctx context.Context, id string, input UpdateClientInput) (*domain.Client, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("client id is required")
	}

	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("client name must not be empty")
		}
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Address != nil {
		client.Address = *input.Address
	}

	client.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}

	s.logger.InfoContext(ctx, "client updated",
		slog.String("client_id", client.ID),
	)

	return client, nil
}
