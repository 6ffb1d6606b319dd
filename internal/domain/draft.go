package domain

import (
	"time"

	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

// LineItem is one product entry within an order draft. Name, size, and unit
// price are copied from the catalog at add-time and are not live-linked: a
// catalog price change mid-session does not touch items already in the draft.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the derived total for this line (unit price times
// quantity). It is always computed from its inputs, never stored.
func (i *LineItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// OrderDraft is an order being composed. Items are unique by product id;
// adding a product that is already present merges quantities instead of
// appending a duplicate entry.
type OrderDraft struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ClientID  string     `json:"client_id,omitempty"`
	Items     []LineItem `json:"items"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// TotalPrice recomputes the draft total wholesale as the sum of all line
// totals. There is no incremental patching anywhere, so the total can never
// drift from the items.
func (d *OrderDraft) TotalPrice() int64 {
	var total int64
	for i := range d.Items {
		total += d.Items[i].LineTotal()
	}
	return total
}

// ItemCount returns the total quantity across all line items.
func (d *OrderDraft) ItemCount() int {
	var count int
	for i := range d.Items {
		count += d.Items[i].Quantity
	}
	return count
}

// FindItemIndex returns the index of the line item with the given product id,
// or -1 if the product is not in the draft.
func (d *OrderDraft) FindItemIndex(productID string) int {
	for i := range d.Items {
		if d.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// SubmissionItem is the line-item shape sent to order submission.
type SubmissionItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// SubmissionPayload is the snapshot of a draft handed to order submission.
// Status is always "pending" at creation; later transitions happen through the
// order status update operation, never through the draft.
type SubmissionPayload struct {
	ClientID   string           `json:"client_id"`
	Items      []SubmissionItem `json:"items"`
	TotalPrice int64            `json:"total_price"`
	Status     string           `json:"status"`
}

// Snapshot builds the submission payload for the draft. It fails when no
// client has been selected or the draft holds no items; the draft itself is
// never mutated.
func (d *OrderDraft) Snapshot() (*SubmissionPayload, error) {
	if d.ClientID == "" {
		return nil, apperrors.Validation("no client selected")
	}
	if len(d.Items) == 0 {
		return nil, apperrors.Validation("empty order")
	}

	items := make([]SubmissionItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = SubmissionItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return &SubmissionPayload{
		ClientID:   d.ClientID,
		Items:      items,
		TotalPrice: d.TotalPrice(),
		Status:     OrderStatusPending,
	}, nil
}
