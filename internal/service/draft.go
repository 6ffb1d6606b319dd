package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/event"
	"github.com/sophialaurans/stockly-go/internal/repository"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

// Draft operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single line item.
	MaxQuantityPerItem = 1000
	// MaxItemsPerDraft is the maximum number of distinct line items in a draft.
	MaxItemsPerDraft = 100
)

// AddItemInput holds the parameters for adding an item to a draft.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityInput holds the parameters for updating a line item quantity.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// OrderCreator persists a submitted draft as an order. Implemented by OrderService.
type OrderCreator interface {
	CreateFromDraft(ctx context.Context, userID string, draft *domain.OrderDraft, notes string) (*domain.Order, error)
}

// DraftService implements the business logic for order draft composition.
// Each user has at most one draft at a time, keyed by user id.
type DraftService struct {
	repo     repository.DraftRepository
	catalog  repository.Catalog
	clients  repository.ClientRepository
	orders   OrderCreator
	producer *event.Producer
	logger   *slog.Logger
	draftTTL time.Duration
}

// NewDraftService creates a new draft service.
func NewDraftService(
	repo repository.DraftRepository,
	catalog repository.Catalog,
	clients repository.ClientRepository,
	orders OrderCreator,
	producer *event.Producer,
	logger *slog.Logger,
	draftTTL time.Duration,
) *DraftService {
	return &DraftService{
		repo:     repo,
		catalog:  catalog,
		clients:  clients,
		orders:   orders,
		producer: producer,
		logger:   logger,
		draftTTL: draftTTL,
	}
}

// GetDraft retrieves the draft for a user. If no draft exists, returns an empty one.
func (s *DraftService) GetDraft(ctx context.Context, userID string) (*domain.OrderDraft, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	draft, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyDraft(userID), nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	return draft, nil
}

// AddItem adds a product to the user's draft. The quantity must already be
// chosen when the call is made. If the product is already present the
// quantities are merged into a single line item.
// Uses optimistic locking to prevent races on concurrent draft modifications.
func (s *DraftService) AddItem(ctx context.Context, userID string, input AddItemInput) (*domain.OrderDraft, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" || input.Quantity <= 0 {
		return nil, apperrors.Validation("missing selection")
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.Validation(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	product, err := s.catalog.Lookup(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Validation("unknown product")
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	draft, err := s.getOrCreateDraft(ctx, userID)
	if err != nil {
		return nil, err
	}

	expectedVersion := draft.Version

	if i := draft.FindItemIndex(input.ProductID); i >= 0 {
		newQty := draft.Items[i].Quantity + input.Quantity
		if newQty > MaxQuantityPerItem {
			return nil, apperrors.Validation(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
		}
		draft.Items[i].Quantity = newQty
		// Refresh the catalog snapshot in case the product changed.
		draft.Items[i].Name = product.Name
		draft.Items[i].Size = product.Size
		draft.Items[i].UnitPrice = product.UnitPrice
	} else {
		if len(draft.Items) >= MaxItemsPerDraft {
			return nil, apperrors.Validation(fmt.Sprintf("draft must not contain more than %d items", MaxItemsPerDraft))
		}
		draft.Items = append(draft.Items, domain.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      product.Size,
			UnitPrice: product.UnitPrice,
			Quantity:  input.Quantity,
		})
	}

	if err := s.saveDraft(ctx, draft, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to draft",
		slog.String("user_id", userID),
		slog.String("product_id", input.ProductID),
		slog.Int("quantity", input.Quantity),
	)

	return draft, nil
}

// UpdateItemQuantity replaces the quantity of a line item. A quantity of 0
// removes the item.
func (s *DraftService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.OrderDraft, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.Validation("missing selection")
	}
	if quantity < 0 {
		return nil, apperrors.Validation("quantity must not be negative")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.Validation(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	draft, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get draft for update: %w", err)
	}

	expectedVersion := draft.Version

	i := draft.FindItemIndex(productID)
	if i < 0 {
		return nil, apperrors.NotFound("draft item", productID)
	}

	if quantity == 0 {
		draft.Items = append(draft.Items[:i], draft.Items[i+1:]...)
	} else {
		draft.Items[i].Quantity = quantity
	}

	if err := s.saveDraft(ctx, draft, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "draft item quantity updated",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return draft, nil
}

// RemoveItem removes a line item from the draft. Removing a product that is
// not in the draft leaves the draft unchanged.
func (s *DraftService) RemoveItem(ctx context.Context, userID, productID string) (*domain.OrderDraft, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.Validation("missing selection")
	}

	draft, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyDraft(userID), nil
		}
		return nil, fmt.Errorf("get draft for remove: %w", err)
	}

	i := draft.FindItemIndex(productID)
	if i < 0 {
		return draft, nil
	}

	expectedVersion := draft.Version
	draft.Items = append(draft.Items[:i], draft.Items[i+1:]...)

	if err := s.saveDraft(ctx, draft, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item removed from draft",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return draft, nil
}

// SetClient associates the draft with a client. The client must exist in the
// directory.
func (s *DraftService) SetClient(ctx context.Context, userID, clientID string) (*domain.OrderDraft, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if clientID == "" {
		return nil, apperrors.Validation("no client selected")
	}

	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Validation("unknown client")
		}
		return nil, fmt.Errorf("lookup client: %w", err)
	}

	draft, err := s.getOrCreateDraft(ctx, userID)
	if err != nil {
		return nil, err
	}

	expectedVersion := draft.Version
	draft.ClientID = clientID

	if err := s.saveDraft(ctx, draft, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "draft client set",
		slog.String("user_id", userID),
		slog.String("client_id", clientID),
	)

	return draft, nil
}

// ClearDraft discards the user's draft entirely.
func (s *DraftService) ClearDraft(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	draft, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get draft for clear: %w", err)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}

	if err := s.producer.PublishDraftCleared(ctx, draft.ID, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish draft.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "draft cleared",
		slog.String("user_id", userID),
	)

	return nil
}

// Submit turns the draft into an order. The draft must have a client selected
// and at least one line item. On success the draft is discarded.
func (s *DraftService) Submit(ctx context.Context, userID, notes string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	draft, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Validation("empty order")
		}
		return nil, fmt.Errorf("get draft for submit: %w", err)
	}

	order, err := s.orders.CreateFromDraft(ctx, userID, draft, notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		// The order is already persisted. A stale draft only lingers until
		// its TTL expires, so log and move on.
		s.logger.ErrorContext(ctx, "failed to delete draft after submission",
			slog.String("user_id", userID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "draft submitted",
		slog.String("user_id", userID),
		slog.String("order_id", order.ID),
		slog.Int("item_count", len(order.Items)),
	)

	return order, nil
}

// saveDraft persists the draft with an optimistic version check and publishes
// the draft.updated event. Event publish failures are logged, not returned.
func (s *DraftService) saveDraft(ctx context.Context, draft *domain.OrderDraft, expectedVersion int) error {
	now := time.Now().UTC()
	draft.UpdatedAt = now
	draft.ExpiresAt = now.Add(s.draftTTL)

	ok, err := s.repo.SaveIfVersion(ctx, draft, expectedVersion)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	if !ok {
		return apperrors.Conflict("draft was modified concurrently, please retry")
	}

	if err := s.producer.PublishDraftUpdated(ctx, draft); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish draft.updated event",
			slog.String("user_id", draft.UserID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// getOrCreateDraft retrieves the draft for a user, creating an empty one if it
// does not exist.
func (s *DraftService) getOrCreateDraft(ctx context.Context, userID string) (*domain.OrderDraft, error) {
	draft, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyDraft(userID), nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return draft, nil
}

// newEmptyDraft creates a new empty draft for the given user.
func (s *DraftService) newEmptyDraft(userID string) *domain.OrderDraft {
	now := time.Now().UTC()
	return &domain.OrderDraft{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []domain.LineItem{},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.draftTTL),
	}
}
