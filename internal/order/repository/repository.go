package repository

import (
	"context"

	"github.com/meryemgkrt/food-ordering/internal/order/domain"
)

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	UserID  *string
	Status  *domain.Status
	Page    int
	PerPage int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order into the store.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the given filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatusIfVersion sets the order's status only if the stored row
	// still has the expected version, bumping the version on success. It
	// returns false when the row exists but the version no longer matches.
	UpdateStatusIfVersion(ctx context.Context, id string, status domain.Status, expectedVersion int) (bool, error)
}
