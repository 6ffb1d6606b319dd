package domain

import "time"

// Product represents an item in the inventory catalog. UnitPrice is in cents.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        string    `json:"size,omitempty"`
	Color       string    `json:"color,omitempty"`
	UnitPrice   int64     `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStock reports whether the on-hand quantity has fallen to or below the
// configured alert threshold.
func (p *Product) LowStock() bool {
	return p.MinQuantity > 0 && p.Quantity <= p.MinQuantity
}
