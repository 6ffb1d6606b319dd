package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/event"
	"github.com/sophialaurans/stockly-go/internal/repository"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

// OrderRelay forwards submitted orders to an external fulfillment system.
type OrderRelay interface {
	RelayOrder(ctx context.Context, payload *domain.SubmissionPayload) error
}

// ListOrdersInput holds the filter parameters for listing orders.
type ListOrdersInput struct {
	ClientID string
	Status   string
	Page     int
	PerPage  int
}

// UpdateStatusInput holds the parameters for an order status change.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// OrderService implements the business logic for submitted orders.
type OrderService struct {
	repo     repository.OrderRepository
	producer *event.Producer
	relay    OrderRelay
	logger   *slog.Logger
}

// NewOrderService creates a new order service. relay may be nil when no
// upstream fulfillment endpoint is configured.
func NewOrderService(repo repository.OrderRepository, producer *event.Producer, relay OrderRelay, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		producer: producer,
		relay:    relay,
		logger:   logger,
	}
}

// CreateFromDraft snapshots a draft and persists it as a pending order. The
// total is recomputed from the line items rather than trusted from the caller.
func (s *OrderService) CreateFromDraft(ctx context.Context, userID string, draft *domain.OrderDraft, notes string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	payload, err := draft.Snapshot()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	orderID := uuid.New().String()

	items := make([]domain.OrderItem, len(draft.Items))
	var total int64
	for i := range draft.Items {
		line := &draft.Items[i]
		items[i] = domain.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
		total += line.LineTotal()
	}

	order := &domain.Order{
		ID:         orderID,
		ClientID:   draft.ClientID,
		UserID:     userID,
		Status:     domain.OrderStatusPending,
		Items:      items,
		TotalPrice: total,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderSubmitted(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	// Best effort. The order is already persisted, so an upstream outage
	// must not fail the submission.
	if s.relay != nil {
		if err := s.relay.RelayOrder(ctx, payload); err != nil {
			s.logger.ErrorContext(ctx, "failed to relay order upstream",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("client_id", order.ClientID),
		slog.String("user_id", userID),
		slog.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// GetOrder retrieves an order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

// ListOrders returns orders matching the given filter.
func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) ([]domain.Order, int, error) {
	if input.Status != "" && !domain.IsValidStatus(input.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", input.Status))
	}

	filter := repository.OrderFilter{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	if input.ClientID != "" {
		filter.ClientID = &input.ClientID
	}
	if input.Status != "" {
		filter.Status = &input.Status
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// UpdateOrderStatus transitions an order to a new status. Only the transitions
// allowed by the order lifecycle are accepted.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, input UpdateStatusInput) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	if !domain.IsValidStatus(input.Status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", input.Status))
	}
	if input.Status == domain.OrderStatusCanceled && input.Reason == "" {
		return nil, apperrors.InvalidInput("cancel reason is required")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	if !order.CanTransitionTo(input.Status) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot transition order from %s to %s", order.Status, input.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, input.Status, input.Reason); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	oldStatus := order.Status
	order.Status = input.Status
	order.CanceledReason = input.Reason
	order.UpdatedAt = time.Now().UTC()

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, input.Status, input.Reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", input.Status),
	)

	return order, nil
}
