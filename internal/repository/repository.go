package repository

import (
	"context"

	"github.com/sophialaurans/stockly-go/internal/domain"
)

// DraftRepository defines the interface for draft session persistence.
// A draft is keyed by the user who is composing it.
type DraftRepository interface {
	// Get retrieves the draft owned by the given user.
	Get(ctx context.Context, userID string) (*domain.OrderDraft, error)

	// SaveIfVersion persists the draft only if the stored version still equals
	// expectedVersion, incrementing the draft version on success. Returns false
	// without error when the version check fails.
	SaveIfVersion(ctx context.Context, draft *domain.OrderDraft, expectedVersion int) (bool, error)

	// Delete removes the draft owned by the given user.
	Delete(ctx context.Context, userID string) error
}

// Catalog resolves product identifiers to their catalog attributes. The draft
// service snapshots name, size, and unit price from the resolved product at
// add-time.
type Catalog interface {
	Lookup(ctx context.Context, productID string) (*domain.Product, error)
}

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	ActiveOnly bool
	Page       int
	PerPage    int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	Catalog

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *domain.Product) error

	// Update overwrites an existing product's mutable fields.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}

// ClientFilter defines filter criteria for listing clients.
type ClientFilter struct {
	Page    int
	PerPage int
}

// ClientRepository defines the interface for client directory operations.
type ClientRepository interface {
	// GetByID retrieves a client by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Client, error)

	// List returns clients along with the total count.
	List(ctx context.Context, filter ClientFilter) ([]domain.Client, int, error)

	// Create inserts a new client.
	Create(ctx context.Context, c *domain.Client) error

	// Update overwrites an existing client's mutable fields.
	Update(ctx context.Context, c *domain.Client) error
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	ClientID *string
	Status   *string
	Page     int
	PerPage  int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order and its items into the store atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the given filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes the status of an order and optionally sets a cancel reason.
	UpdateStatus(ctx context.Context, id string, status string, reason string) error
}

// UserRepository defines the interface for account persistence operations.
type UserRepository interface {
	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, u *domain.User) error
}
