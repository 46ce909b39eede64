package repository

import (
	"context"

	"github.com/meryemgkrt/food-ordering/internal/media/domain"
)

// MediaRepository defines persistence operations for media records.
type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	GetByID(ctx context.Context, id string) (*domain.Media, error)
	Delete(ctx context.Context, id string) error
}
