package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sophialaurans/stockly-go/internal/domain"
	pkgkafka "github.com/sophialaurans/stockly-go/pkg/kafka"
)

// Kafka topic constants for stockly domain events.
const (
	TopicDraftUpdated       = "stockly.draft.updated"
	TopicDraftCleared       = "stockly.draft.cleared"
	TopicOrderSubmitted     = "stockly.order.submitted"
	TopicOrderStatusChanged = "stockly.order.status_changed"
)

// Aggregate type constants.
const (
	AggregateTypeDraft = "draft"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from this service.
const SourceStockly = "stockly"

// DraftUpdatedData is the payload for a draft.updated event.
type DraftUpdatedData struct {
	DraftID    string `json:"draft_id"`
	UserID     string `json:"user_id"`
	ClientID   string `json:"client_id,omitempty"`
	ItemCount  int    `json:"item_count"`
	TotalPrice int64  `json:"total_price"`
}

// DraftClearedData is the payload for a draft.cleared event.
type DraftClearedData struct {
	DraftID string `json:"draft_id"`
	UserID  string `json:"user_id"`
}

// OrderSubmittedData is the payload for an order.submitted event (full order snapshot).
type OrderSubmittedData struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"client_id"`
	UserID     string          `json:"user_id"`
	Status     string          `json:"status"`
	Items      []OrderItemData `json:"items"`
	TotalPrice int64           `json:"total_price"`
	Notes      string          `json:"notes,omitempty"`
}

// OrderItemData is the event payload for an order item.
type OrderItemData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Reason    string `json:"reason,omitempty"`
}

// Producer publishes stockly domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishDraftUpdated publishes a draft.updated event after any draft mutation.
func (p *Producer) PublishDraftUpdated(ctx context.Context, draft *domain.OrderDraft) error {
	data := DraftUpdatedData{
		DraftID:    draft.ID,
		UserID:     draft.UserID,
		ClientID:   draft.ClientID,
		ItemCount:  draft.ItemCount(),
		TotalPrice: draft.TotalPrice(),
	}

	event, err := pkgkafka.NewEvent(TopicDraftUpdated, draft.ID, AggregateTypeDraft, SourceStockly, data)
	if err != nil {
		return fmt.Errorf("create draft.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicDraftUpdated, event); err != nil {
		return fmt.Errorf("publish draft.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published draft.updated event",
		slog.String("draft_id", draft.ID),
		slog.String("user_id", draft.UserID),
		slog.Int("item_count", data.ItemCount),
	)

	return nil
}

// PublishDraftCleared publishes a draft.cleared event.
func (p *Producer) PublishDraftCleared(ctx context.Context, draftID, userID string) error {
	data := DraftClearedData{
		DraftID: draftID,
		UserID:  userID,
	}

	event, err := pkgkafka.NewEvent(TopicDraftCleared, draftID, AggregateTypeDraft, SourceStockly, data)
	if err != nil {
		return fmt.Errorf("create draft.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicDraftCleared, event); err != nil {
		return fmt.Errorf("publish draft.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published draft.cleared event",
		slog.String("draft_id", draftID),
	)

	return nil
}

// PublishOrderSubmitted publishes an order.submitted event with the full order snapshot.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Size:      item.Size,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	data := OrderSubmittedData{
		ID:         order.ID,
		ClientID:   order.ClientID,
		UserID:     order.UserID,
		Status:     order.Status,
		Items:      items,
		TotalPrice: order.TotalPrice,
		Notes:      order.Notes,
	}

	event, err := pkgkafka.NewEvent(TopicOrderSubmitted, order.ID, AggregateTypeOrder, SourceStockly, data)
	if err != nil {
		return fmt.Errorf("create order.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderSubmitted, event); err != nil {
		return fmt.Errorf("publish order.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.submitted event",
		slog.String("order_id", order.ID),
		slog.String("client_id", order.ClientID),
	)

	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus, reason string) error {
	data := OrderStatusChangedData{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Reason:    reason,
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, orderID, AggregateTypeOrder, SourceStockly, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.status_changed event",
		slog.String("order_id", orderID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return nil
}
