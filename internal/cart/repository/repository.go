package repository

import (
	"context"

	"github.com/meryemgkrt/food-ordering/internal/cart/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its user ID.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists a cart to the store, overwriting any existing cart for the user.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion persists the cart only if the stored cart still has the
	// expected version. On success the cart's version is bumped and true is
	// returned; false means the cart was modified concurrently.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes a cart from the store by the user ID.
	Delete(ctx context.Context, userID string) error
}
