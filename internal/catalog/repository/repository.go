package repository

import (
	"context"

	"github.com/meryemgkrt/food-ordering/internal/catalog/domain"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *string
	Search     *string
	Page       int
	PerPage    int
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
	Delete(ctx context.Context, id string) error
}
