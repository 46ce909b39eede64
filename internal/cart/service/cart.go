package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/meryemgkrt/food-ordering/internal/cart/domain"
	"github.com/meryemgkrt/food-ordering/internal/cart/event"
	"github.com/meryemgkrt/food-ordering/internal/cart/repository"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single line item.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct line items allowed in a cart.
	MaxItemsPerCart = 50
	// MaxPriceCents is the maximum unit price in cents (100,000.00) allowed per item.
	MaxPriceCents = 100_000_00
	// MaxExtrasPerItem is the maximum number of add-ons allowed on a single line item.
	MaxExtrasPerItem = 20
)

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	ProductID string                `json:"product_id" validate:"required"`
	Title     string                `json:"title" validate:"required,min=1,max=500"`
	ImageURL  string                `json:"image_url"`
	UnitPrice int64                 `json:"unit_price" validate:"gte=0"`
	Quantity  int                   `json:"quantity" validate:"required,gte=1"`
	Size      *domain.SizeSelection `json:"size"`
	Extras    []domain.Extra        `json:"extras"`
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
	cartTTL  time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger, cartTTL time.Duration) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the cart for a user. If no cart exists, returns an empty cart.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a line item to the user's cart. An item with the same product,
// size, and extras merges into the existing entry by increasing its quantity;
// anything else becomes a new entry. Uses optimistic locking to prevent lost
// updates on concurrent cart modifications.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddItemInput) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}
	if input.UnitPrice < 0 {
		return nil, apperrors.InvalidInput("unit price must not be negative")
	}
	if input.UnitPrice > MaxPriceCents {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unit price must not exceed %d cents", MaxPriceCents))
	}
	if len(input.Extras) > MaxExtrasPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("item must not have more than %d extras", MaxExtrasPerItem))
	}
	for _, extra := range input.Extras {
		if extra.Price < 0 {
			return nil, apperrors.InvalidInput("extra price must not be negative")
		}
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	expectedVersion := cart.Version

	candidate := domain.LineItem{
		ProductID: input.ProductID,
		Title:     input.Title,
		ImageURL:  input.ImageURL,
		UnitPrice: input.UnitPrice,
		Quantity:  input.Quantity,
		Size:      input.Size,
		Extras:    input.Extras,
	}

	if idx := cart.FindMatchingIndex(&candidate); idx >= 0 {
		if cart.Items[idx].Quantity+input.Quantity > MaxQuantityPerItem {
			return nil, apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
		}
	} else if len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}

	cart.AddItem(candidate)

	if err := s.saveAndPublish(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("product_id", input.ProductID),
		slog.Int("quantity", input.Quantity),
	)

	return cart, nil
}

// IncreaseQuantity adds one unit to the line item at the given position.
func (s *CartService) IncreaseQuantity(ctx context.Context, userID string, index int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for increase: %w", err)
	}

	expectedVersion := cart.Version

	if index < 0 || index >= len(cart.Items) {
		return nil, apperrors.NotFound("cart item", strconv.Itoa(index))
	}
	if cart.Items[index].Quantity >= MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart.IncreaseQuantity(index)

	if err := s.saveAndPublish(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart item quantity increased",
		slog.String("user_id", userID),
		slog.Int("index", index),
	)

	return cart, nil
}

// DecreaseQuantity removes one unit from the line item at the given position.
// Quantity never drops below 1; a decrease at quantity 1 leaves the cart
// unchanged and skips the store round-trip.
func (s *CartService) DecreaseQuantity(ctx context.Context, userID string, index int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for decrease: %w", err)
	}

	expectedVersion := cart.Version

	if index < 0 || index >= len(cart.Items) {
		return nil, apperrors.NotFound("cart item", strconv.Itoa(index))
	}

	if cart.Items[index].Quantity <= 1 {
		return cart, nil
	}

	cart.DecreaseQuantity(index)

	if err := s.saveAndPublish(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart item quantity decreased",
		slog.String("user_id", userID),
		slog.Int("index", index),
	)

	return cart, nil
}

// RemoveItem removes the line item at the given position. An out-of-range
// index is a no-op: the cart is returned unchanged without a store write.
func (s *CartService) RemoveItem(ctx context.Context, userID string, index int) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for remove: %w", err)
	}

	expectedVersion := cart.Version

	if !cart.RemoveItem(index) {
		return cart, nil
	}

	if err := s.saveAndPublish(ctx, cart, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("user_id", userID),
		slog.Int("index", index),
	)

	return cart, nil
}

// ClearCart removes all items from the user's cart. Used by checkout and by
// the explicit reset action.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("user_id", userID),
	)

	return nil
}

// saveAndPublish commits the cart with a version check and emits the updated event.
func (s *CartService) saveAndPublish(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return apperrors.Conflict("cart was modified concurrently, please retry")
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// getOrCreateCart retrieves the cart for a user, creating an empty one if it does not exist.
func (s *CartService) getOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// newEmptyCart creates a new empty cart for the given user.
func (s *CartService) newEmptyCart(userID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []domain.LineItem{},
		Currency:  "USD",
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
