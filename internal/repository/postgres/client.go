package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sophialaurans/stockly-go/internal/domain"
	"github.com/sophialaurans/stockly-go/internal/repository"
	"github.com/sophialaurans/stockly-go/pkg/database"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

// ClientRepository implements repository.ClientRepository using PostgreSQL.
type ClientRepository struct {
	pool database.DBTX
}

// NewClientRepository creates a new PostgreSQL-backed client repository.
func NewClientRepository(pool database.DBTX) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM clients
		WHERE id = $1`

	var c domain.Client
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("client", id)
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}

	return &c, nil
}

// List returns clients ordered by name with the total count.
func (r *ClientRepository) List(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, int, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM clients
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var totalCount int
	clients := make([]domain.Client, 0)

	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.Address,
			&c.CreatedAt,
			&c.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan client row: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate client rows: %w", err)
	}

	return clients, totalCount, nil
}

// Create inserts a new client.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Address,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}

	return nil
}

// Update modifies an existing client.
func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, address = $5, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Address)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("client", c.ID)
	}

	return nil
}
