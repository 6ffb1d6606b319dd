package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/repository"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

func newOrderTestFixture(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:         "ord-1234",
		ClientID:   "cli-5678",
		UserID:     "usr-9abc",
		Status:     domain.OrderStatusPending,
		TotalPrice: 4500,
		Items: []domain.OrderItem{
			{
				ID:        "oi-1",
				OrderID:   "ord-1234",
				ProductID: "prod-1",
				Name:      "Cotton Tee",
				Size:      "M",
				UnitPrice: 1500,
				Quantity:  3,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.ClientID, o.UserID, o.Status, o.TotalPrice,
			o.Notes, o.CanceledReason, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(
			o.Items[0].ID, o.Items[0].OrderID, o.Items[0].ProductID,
			o.Items[0].Name, o.Items[0].Size, o.Items[0].UnitPrice, o.Items[0].Quantity,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ItemInsertFails(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.ClientID, o.UserID, o.Status, o.TotalPrice,
			o.Notes, o.CanceledReason, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(
			o.Items[0].ID, o.Items[0].OrderID, o.Items[0].ProductID,
			o.Items[0].Name, o.Items[0].Size, o.Items[0].UnitPrice, o.Items[0].Quantity,
		).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()
	itemsJSON := []byte(`[{"id":"oi-1","order_id":"ord-1234","product_id":"prod-1","name":"Cotton Tee","size":"M","unit_price":1500,"quantity":3}]`)

	rows := pgxmock.NewRows([]string{
		"id", "client_id", "user_id", "status", "total_price",
		"notes", "canceled_reason", "created_at", "updated_at", "items",
	}).AddRow(
		o.ID, o.ClientID, o.UserID, o.Status, o.TotalPrice,
		o.Notes, o.CanceledReason, o.CreatedAt, o.UpdatedAt, itemsJSON,
	)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs(o.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.ClientID, got.ClientID)
	assert.Equal(t, o.TotalPrice, got.TotalPrice)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)
	assert.Equal(t, int64(1500), got.Items[0].UnitPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NoItems(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()
	o.Items = nil

	rows := pgxmock.NewRows([]string{
		"id", "client_id", "user_id", "status", "total_price",
		"notes", "canceled_reason", "created_at", "updated_at", "items",
	}).AddRow(
		o.ID, o.ClientID, o.UserID, o.Status, o.TotalPrice,
		o.Notes, o.CanceledReason, o.CreatedAt, o.UpdatedAt, []byte(`[]`),
	)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs(o.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestOrderRepository_List_WithFilters(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	o := sampleOrder()
	clientID := o.ClientID
	status := domain.OrderStatusPending

	orderRows := pgxmock.NewRows([]string{
		"id", "client_id", "user_id", "status", "total_price",
		"notes", "canceled_reason", "created_at", "updated_at", "total_count",
	}).AddRow(
		o.ID, o.ClientID, o.UserID, o.Status, o.TotalPrice,
		o.Notes, o.CanceledReason, o.CreatedAt, o.UpdatedAt, 1,
	)

	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(clientID, status, 20, 0).
		WillReturnRows(orderRows)

	itemRows := pgxmock.NewRows([]string{
		"id", "order_id", "product_id", "name", "size", "unit_price", "quantity",
	}).AddRow(
		o.Items[0].ID, o.Items[0].OrderID, o.Items[0].ProductID,
		o.Items[0].Name, o.Items[0].Size, o.Items[0].UnitPrice, o.Items[0].Quantity,
	)

	mock.ExpectQuery("SELECT .+ FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(itemRows)

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		ClientID: &clientID,
		Status:   &status,
		Page:     1,
		PerPage:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "prod-1", orders[0].Items[0].ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Empty(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "client_id", "user_id", "status", "total_price",
		"notes", "canceled_reason", "created_at", "updated_at", "total_count",
	})

	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(20, 0).
		WillReturnRows(rows)

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestOrderRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders").
		WithArgs("ord-1234", domain.OrderStatusShipped, "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "ord-1234", domain.OrderStatusShipped, "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newOrderTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders").
		WithArgs("missing-id", domain.OrderStatusCanceled, "out of stock").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "missing-id", domain.OrderStatusCanceled, "out of stock")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
