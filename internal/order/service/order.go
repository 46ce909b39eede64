package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/meryemgkrt/food-ordering/internal/cart/domain"
	"github.com/meryemgkrt/food-ordering/internal/order/domain"
	"github.com/meryemgkrt/food-ordering/internal/order/event"
	"github.com/meryemgkrt/food-ordering/internal/order/repository"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// RoleAdmin is the role allowed to list all orders and advance status.
const RoleAdmin = "admin"

// CartReader is the slice of the cart service the order module depends on:
// reading the cart snapshot at checkout and clearing it after a successful
// order submission.
type CartReader interface {
	GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// CheckoutInput holds the parameters for placing an order.
type CheckoutInput struct {
	CustomerName string         `json:"customer_name" validate:"required,min=1,max=200"`
	Address      domain.Address `json:"address" validate:"required"`
	Notes        string         `json:"notes" validate:"max=1000"`
}

// OrderService implements the business logic for order operations.
type OrderService struct {
	repo     repository.OrderRepository
	carts    CartReader
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, carts CartReader, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		carts:    carts,
		producer: producer,
		logger:   logger,
	}
}

// Checkout places an order from the user's current cart snapshot. The cart is
// cleared only after the order is durably created; a failed clear is logged
// but does not fail the checkout.
func (s *OrderService) Checkout(ctx context.Context, userID string, input CheckoutInput) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.CustomerName == "" {
		return nil, apperrors.InvalidInput("customer name is required")
	}
	if input.Address.AddressLine == "" {
		return nil, apperrors.InvalidInput("address line is required")
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart for checkout: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:           uuid.New().String(),
		UserID:       userID,
		CustomerName: input.CustomerName,
		Address:      input.Address,
		Status:       domain.StatusPayment,
		Items:        snapshotItems(cart.Items),
		TotalAmount:  cart.TotalPrice,
		Currency:     cart.Currency,
		Notes:        input.Notes,
		Version:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("user_id", userID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order. Customers may only read their own orders;
// admins may read any.
func (s *OrderService) GetOrder(ctx context.Context, orderID, requesterID, requesterRole string) (*domain.Order, error) {
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if requesterRole != RoleAdmin && order.UserID != requesterID {
		return nil, apperrors.Forbidden("order belongs to another user")
	}

	return order, nil
}

// ListOrders returns a page of orders, optionally filtered by status. Admin only.
func (s *OrderService) ListOrders(ctx context.Context, status *domain.Status, page, perPage int) ([]domain.Order, int, error) {
	if status != nil && !status.Valid() {
		return nil, 0, apperrors.InvalidInput("invalid status filter")
	}

	orders, total, err := s.repo.List(ctx, repository.OrderFilter{
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// ListUserOrders returns a page of the given user's own orders.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, page, perPage int) ([]domain.Order, int, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("user id is required")
	}

	orders, total, err := s.repo.List(ctx, repository.OrderFilter{
		UserID:  &userID,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list user orders: %w", err)
	}

	return orders, total, nil
}

// AdvanceStatus moves the order to the next fulfillment stage. Advancing a
// delivered order is refused rather than silently accepted, and the write is
// version-checked so concurrent admins cannot double-advance an order.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order for advance: %w", err)
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, apperrors.Conflict("order is already delivered")
	}

	updated, err := s.repo.UpdateStatusIfVersion(ctx, orderID, next, order.Version)
	if err != nil {
		return nil, fmt.Errorf("advance order status: %w", err)
	}
	if !updated {
		return nil, apperrors.Conflict("order was modified concurrently, please retry")
	}

	from := order.Status
	order.Status = next
	order.Version++
	order.UpdatedAt = time.Now().UTC()

	if err := s.producer.PublishStatusChanged(ctx, order, from); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status advanced",
		slog.String("order_id", orderID),
		slog.String("from", from.String()),
		slog.String("to", next.String()),
	)

	return order, nil
}

// snapshotItems converts cart line items into immutable order items.
func snapshotItems(items []cartdomain.LineItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	for i, item := range items {
		sizeName := ""
		if item.Size != nil {
			sizeName = item.Size.Name
		}

		var extras []domain.Extra
		if len(item.Extras) > 0 {
			extras = make([]domain.Extra, len(item.Extras))
			for k, e := range item.Extras {
				extras[k] = domain.Extra{Name: e.Name, Price: e.Price}
			}
		}

		out[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Size:      sizeName,
			Extras:    extras,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}
	return out
}
