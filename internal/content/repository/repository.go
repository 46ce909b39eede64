package repository

import (
	"context"

	"github.com/meryemgkrt/food-ordering/internal/content/domain"
)

// FooterRepository defines persistence operations for the footer singleton.
type FooterRepository interface {
	Get(ctx context.Context) (*domain.Footer, error)
	Save(ctx context.Context, footer *domain.Footer) error
}
