package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

func newDraft(items ...LineItem) *OrderDraft {
	now := time.Now().UTC()
	return &OrderDraft{
		ID:        "draft-1",
		UserID:    "user-1",
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestLineItem_LineTotal(t *testing.T) {
	item := LineItem{ProductID: "p1", UnitPrice: 2000, Quantity: 3}
	assert.Equal(t, int64(6000), item.LineTotal())
}

func TestOrderDraft_TotalPrice_EqualsSumOfLineTotals(t *testing.T) {
	d := newDraft(
		LineItem{ProductID: "p1", UnitPrice: 2000, Quantity: 2},
		LineItem{ProductID: "p2", UnitPrice: 1000, Quantity: 1},
		LineItem{ProductID: "p3", UnitPrice: 550, Quantity: 4},
	)

	var want int64
	for i := range d.Items {
		want += d.Items[i].LineTotal()
	}
	assert.Equal(t, want, d.TotalPrice())
}

func TestOrderDraft_TotalPrice_Empty(t *testing.T) {
	d := newDraft()
	assert.Equal(t, int64(0), d.TotalPrice())
}

func TestOrderDraft_ItemCount(t *testing.T) {
	d := newDraft(
		LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 2},
		LineItem{ProductID: "p2", UnitPrice: 100, Quantity: 3},
	)
	assert.Equal(t, 5, d.ItemCount())
}

func TestOrderDraft_FindItemIndex(t *testing.T) {
	d := newDraft(
		LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1},
		LineItem{ProductID: "p2", UnitPrice: 100, Quantity: 1},
	)

	assert.Equal(t, 0, d.FindItemIndex("p1"))
	assert.Equal(t, 1, d.FindItemIndex("p2"))
	assert.Equal(t, -1, d.FindItemIndex("p3"))
}

func TestOrderDraft_Snapshot(t *testing.T) {
	d := newDraft(
		LineItem{ProductID: "p1", Name: "Shirt", UnitPrice: 2000, Quantity: 3},
	)
	d.ClientID = "c1"

	payload, err := d.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "c1", payload.ClientID)
	assert.Equal(t, OrderStatusPending, payload.Status)
	assert.Equal(t, int64(6000), payload.TotalPrice)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, SubmissionItem{ProductID: "p1", Quantity: 3, UnitPrice: 2000}, payload.Items[0])
}

func TestOrderDraft_Snapshot_NoClientSelected(t *testing.T) {
	d := newDraft(LineItem{ProductID: "p1", UnitPrice: 2000, Quantity: 1})

	payload, err := d.Snapshot()
	assert.Nil(t, payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "no client selected")
}

func TestOrderDraft_Snapshot_EmptyOrder(t *testing.T) {
	d := newDraft()
	d.ClientID = "c1"

	payload, err := d.Snapshot()
	assert.Nil(t, payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty order")
}

func TestOrderDraft_Snapshot_DoesNotMutateDraft(t *testing.T) {
	d := newDraft(LineItem{ProductID: "p1", UnitPrice: 500, Quantity: 2})
	d.ClientID = "c1"

	before := *d
	beforeItems := append([]LineItem(nil), d.Items...)

	_, err := d.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, before.ClientID, d.ClientID)
	assert.Equal(t, beforeItems, d.Items)
}

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCanceled, true},
		{OrderStatusShipped, OrderStatusCompleted, true},
		{OrderStatusShipped, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusShipped, false},
		{OrderStatusCanceled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.from}
		assert.Equal(t, tt.want, o.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses() {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("delivered"))
	assert.False(t, IsValidStatus(""))
}
