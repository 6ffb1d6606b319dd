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

func newProductTestFixture(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		ID:          "prod-1234",
		Name:        "Cotton Tee",
		Size:        "M",
		Color:       "navy",
		UnitPrice:   1500,
		Quantity:    40,
		MinQuantity: 5,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productColumns() []string {
	return []string{
		"id", "name", "size", "color", "unit_price",
		"quantity", "min_quantity", "is_active", "created_at", "updated_at",
	}
}

func productRow(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productColumns()).AddRow(
		p.ID, p.Name, p.Size, p.Color, p.UnitPrice,
		p.Quantity, p.MinQuantity, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
}

// ---------------------------------------------------------------------------
// GetByID / Lookup
// ---------------------------------------------------------------------------

func TestProductRepository_GetByID_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.UnitPrice, got.UnitPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Lookup_Active(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	got, err := repo.Lookup(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Lookup_InactiveTreatedAsMissing(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()
	p.IsActive = false

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	got, err := repo.Lookup(context.Background(), p.ID)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestProductRepository_List_ActiveOnly(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	rows := pgxmock.NewRows(append(productColumns(), "total_count")).AddRow(
		p.ID, p.Name, p.Size, p.Color, p.UnitPrice,
		p.Quantity, p.MinQuantity, p.IsActive, p.CreatedAt, p.UpdatedAt, 1,
	)

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		ActiveOnly: true,
		Page:       1,
		PerPage:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Create / Update / Delete
// ---------------------------------------------------------------------------

func TestProductRepository_Create_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Size, p.Color, p.UnitPrice,
			p.Quantity, p.MinQuantity, p.IsActive, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.ID, p.Name, p.Size, p.Color, p.UnitPrice,
			p.Quantity, p.MinQuantity, p.IsActive,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_MarksInactive(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE products SET is_active = false").
		WithArgs("prod-1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Delete(context.Background(), "prod-1234")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
