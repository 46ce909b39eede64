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

// ProductService implements the business logic for product operations.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		producer:   producer,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Title       string
	Description string
	Prices      []int64
	CategoryID  *string
	Image       string
	Extras      []domain.ExtraOption
}

// UpdateProductInput holds the parameters for partially updating a product.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Prices      []int64
	CategoryID  *string
	Image       *string
	Extras      []domain.ExtraOption
}

// CreateProduct creates a new product with the given input.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validatePrices(input.Prices); err != nil {
		return nil, err
	}
	if err := validateExtras(input.Extras); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("verify product category: %w", err)
		}
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Prices:      input.Prices,
		CategoryID:  input.CategoryID,
		Image:       input.Image,
		Extras:      input.Extras,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("title", product.Title),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns a filtered, paginated list of products.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// SearchProducts returns products whose title or description matches the query.
func (s *ProductService) SearchProducts(ctx context.Context, query string, page, perPage int) ([]domain.Product, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, apperrors.InvalidInput("search query is required")
	}

	return s.ListProducts(ctx, repository.ProductFilter{
		Search:  &query,
		Page:    page,
		PerPage: perPage,
	})
}

// UpdateProduct applies partial updates to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
		product.Title = strings.TrimSpace(*input.Title)
	}

	if input.Description != nil {
		product.Description = *input.Description
	}

	if input.Prices != nil {
		if err := validatePrices(input.Prices); err != nil {
			return nil, err
		}
		product.Prices = input.Prices
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("verify product category: %w", err)
		}
		product.CategoryID = input.CategoryID
	}

	if input.Image != nil {
		product.Image = *input.Image
	}

	if input.Extras != nil {
		if err := validateExtras(input.Extras); err != nil {
			return nil, err
		}
		product.Extras = input.Extras
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.InvalidInput("product title is required")
	}
	return nil
}

func validatePrices(prices []int64) error {
	if len(prices) == 0 {
		return apperrors.InvalidInput("at least one price is required")
	}
	if len(prices) > domain.MaxSizes {
		return apperrors.InvalidInput(fmt.Sprintf("at most %d size prices are supported", domain.MaxSizes))
	}
	for _, price := range prices {
		if price < 0 {
			return apperrors.InvalidInput("prices must not be negative")
		}
	}
	return nil
}

func validateExtras(extras []domain.ExtraOption) error {
	for _, e := range extras {
		if strings.TrimSpace(e.Text) == "" {
			return apperrors.InvalidInput("extra option text is required")
		}
		if e.Price < 0 {
			return apperrors.InvalidInput("extra option price must not be negative")
		}
	}
	return nil
}
