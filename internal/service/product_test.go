package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/repository"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Lookup(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateProduct_Defaults(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:      "Cotton Tee",
		Size:      "M",
		UnitPrice: 1500,
		Quantity:  40,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.True(t, product.IsActive)
	repo.AssertExpectations(t)
}

func TestCreateProduct_MissingName(t *testing.T) {
	svc := NewProductService(new(mockProductRepository), newTestLogger())

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{UnitPrice: 100})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestLogger())
	ctx := context.Background()

	existing := &domain.Product{
		ID:        "prod-1",
		Name:      "Cotton Tee",
		Size:      "M",
		UnitPrice: 1500,
		Quantity:  40,
		IsActive:  true,
	}
	repo.On("GetByID", ctx, "prod-1").Return(existing, nil)
	repo.On("Update", ctx, existing).Return(nil)

	newPrice := int64(1800)
	product, err := svc.UpdateProduct(ctx, "prod-1", UpdateProductInput{UnitPrice: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, int64(1800), product.UnitPrice)
	// Untouched fields keep their values.
	assert.Equal(t, "Cotton Tee", product.Name)
	assert.Equal(t, 40, product.Quantity)
}

func TestUpdateProduct_NegativePriceRejected(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "prod-1").Return(&domain.Product{ID: "prod-1", Name: "Tee"}, nil)

	bad := int64(-1)
	product, err := svc.UpdateProduct(ctx, "prod-1", UpdateProductInput{UnitPrice: &bad})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
