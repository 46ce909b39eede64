package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meryemgkrt/food-ordering/internal/catalog/domain"
	"github.com/meryemgkrt/food-ordering/internal/catalog/event"
	"github.com/meryemgkrt/food-ordering/internal/catalog/repository"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// CategoryService implements the business logic for category operations.
type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		producer:   producer,
		logger:     logger,
	}
}

// CreateCategory creates a new category with the given title.
func (s *CategoryService) CreateCategory(ctx context.Context, title string) (*domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.InvalidInput("category title is required")
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := s.producer.PublishCategoryCreated(ctx, category); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.created event",
			slog.String("category_id", category.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("title", category.Title),
	)

	return category, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category. Deletion is refused while products still
// reference the category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get category for delete: %w", err)
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count products in category: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict(fmt.Sprintf("category still has %d products", count))
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if err := s.producer.PublishCategoryDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.deleted event",
			slog.String("category_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "category deleted",
		slog.String("category_id", id),
	)

	return nil
}
