package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/meryemgkrt/food-ordering/internal/cart/domain"
	"github.com/meryemgkrt/food-ordering/internal/order/domain"
	"github.com/meryemgkrt/food-ordering/internal/order/event"
	"github.com/meryemgkrt/food-ordering/internal/order/repository"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
)

// --- Mock Repository ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatusIfVersion(ctx context.Context, id string, status domain.Status, expectedVersion int) (bool, error) {
	args := m.Called(ctx, id, status, expectedVersion)
	return args.Bool(0), args.Error(1)
}

// --- Mock CartReader ---

type mockCartReader struct {
	mock.Mock
}

func (m *mockCartReader) GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartdomain.Cart), args.Error(1)
}

func (m *mockCartReader) ClearCart(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(repo *mockOrderRepository, carts *mockCartReader) *OrderService {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	return NewOrderService(repo, carts, producer, logger)
}

func filledCart(userID string) *cartdomain.Cart {
	cart := &cartdomain.Cart{
		ID:       "cart-123",
		UserID:   userID,
		Items:    []cartdomain.LineItem{},
		Currency: "USD",
		Version:  1,
	}
	cart.AddItem(cartdomain.LineItem{
		ProductID: "prod-pizza",
		Title:     "Margherita",
		UnitPrice: 1200,
		Quantity:  3,
		Size:      &cartdomain.SizeSelection{Index: 2, Name: "Large"},
		Extras:    []cartdomain.Extra{{Name: "Cheese", Price: 200}},
	})
	return cart
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		CustomerName: "Ada Lovelace",
		Address: domain.Address{
			AddressLine: "123 Main St",
			City:        "Istanbul",
		},
	}
}

func sampleOrder(status domain.Status, version int) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:           "order-001",
		UserID:       "user-1",
		CustomerName: "Ada Lovelace",
		Address:      domain.Address{AddressLine: "123 Main St", City: "Istanbul"},
		Status:       status,
		Items: []domain.OrderItem{
			{ProductID: "prod-pizza", Title: "Margherita", Size: "Large", UnitPrice: 1200, Quantity: 3, LineTotal: 3600},
		},
		TotalAmount: 3600,
		Currency:    "USD",
		Version:     version,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// --- Checkout ---

func TestCheckout_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	carts.On("GetCart", ctx, "user-1").Return(filledCart("user-1"), nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("ClearCart", ctx, "user-1").Return(nil)

	order, err := svc.Checkout(ctx, "user-1", checkoutInput())

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.StatusPayment, order.Status)
	assert.Equal(t, 0, order.Version)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Large", order.Items[0].Size)
	assert.Equal(t, int64(3600), order.Items[0].LineTotal)
	assert.Equal(t, int64(3600), order.TotalAmount)
	assert.Equal(t, order.SumItems(), order.TotalAmount)

	repo.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	carts.On("GetCart", ctx, "user-1").Return(&cartdomain.Cart{
		UserID: "user-1",
		Items:  []cartdomain.LineItem{},
	}, nil)

	order, err := svc.Checkout(ctx, "user-1", checkoutInput())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create")
}

func TestCheckout_MissingCustomerName(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)

	input := checkoutInput()
	input.CustomerName = ""

	order, err := svc.Checkout(context.Background(), "user-1", input)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	carts.AssertNotCalled(t, "GetCart")
}

func TestCheckout_CartClearFailureDoesNotFailCheckout(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	carts.On("GetCart", ctx, "user-1").Return(filledCart("user-1"), nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("ClearCart", ctx, "user-1").Return(assert.AnError)

	order, err := svc.Checkout(ctx, "user-1", checkoutInput())

	require.NoError(t, err)
	assert.NotNil(t, order)
}

// --- GetOrder ---

func TestGetOrder_OwnerAllowed(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	expected := sampleOrder(domain.StatusPreparing, 1)
	repo.On("GetByID", ctx, "order-001").Return(expected, nil)

	order, err := svc.GetOrder(ctx, "order-001", "user-1", "customer")

	require.NoError(t, err)
	assert.Equal(t, expected, order)
}

func TestGetOrder_OtherUserForbidden(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	repo.On("GetByID", ctx, "order-001").Return(sampleOrder(domain.StatusPreparing, 1), nil)

	order, err := svc.GetOrder(ctx, "order-001", "user-2", "customer")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetOrder_AdminAllowed(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	expected := sampleOrder(domain.StatusPreparing, 1)
	repo.On("GetByID", ctx, "order-001").Return(expected, nil)

	order, err := svc.GetOrder(ctx, "order-001", "admin-user", RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, expected, order)
}

// --- AdvanceStatus ---

func TestAdvanceStatus_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	repo.On("GetByID", ctx, "order-001").Return(sampleOrder(domain.StatusPayment, 0), nil)
	repo.On("UpdateStatusIfVersion", ctx, "order-001", domain.StatusPreparing, 0).Return(true, nil)

	order, err := svc.AdvanceStatus(ctx, "order-001")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, order.Status)
	assert.Equal(t, 1, order.Version)

	repo.AssertExpectations(t)
}

func TestAdvanceStatus_Monotonic(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	stages := []struct {
		current domain.Status
		next    domain.Status
		version int
	}{
		{domain.StatusPayment, domain.StatusPreparing, 0},
		{domain.StatusPreparing, domain.StatusOnTheWay, 1},
		{domain.StatusOnTheWay, domain.StatusDelivered, 2},
	}

	for _, stage := range stages {
		repo.On("GetByID", ctx, "order-001").Return(sampleOrder(stage.current, stage.version), nil).Once()
		repo.On("UpdateStatusIfVersion", ctx, "order-001", stage.next, stage.version).Return(true, nil).Once()

		order, err := svc.AdvanceStatus(ctx, "order-001")
		require.NoError(t, err)
		assert.Equal(t, stage.next, order.Status)
		assert.Greater(t, int(order.Status), int(stage.current))
	}

	repo.AssertExpectations(t)
}

func TestAdvanceStatus_TerminalRefusedWithoutWrite(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	repo.On("GetByID", ctx, "order-001").Return(sampleOrder(domain.StatusDelivered, 3), nil)

	order, err := svc.AdvanceStatus(ctx, "order-001")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "UpdateStatusIfVersion")
}

func TestAdvanceStatus_VersionConflict(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	repo.On("GetByID", ctx, "order-001").Return(sampleOrder(domain.StatusPayment, 0), nil)
	repo.On("UpdateStatusIfVersion", ctx, "order-001", domain.StatusPreparing, 0).Return(false, nil)

	order, err := svc.AdvanceStatus(ctx, "order-001")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAdvanceStatus_OrderNotFound(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("order", "missing"))

	order, err := svc.AdvanceStatus(ctx, "missing")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- List ---

func TestListOrders_InvalidStatusFilter(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)

	bad := domain.Status(9)
	orders, total, err := svc.ListOrders(context.Background(), &bad, 1, 20)

	assert.Nil(t, orders)
	assert.Zero(t, total)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListUserOrders_PassesUserFilter(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartReader)
	svc := newTestService(repo, carts)
	ctx := context.Background()

	repo.On("List", ctx, mock.MatchedBy(func(f repository.OrderFilter) bool {
		return f.UserID != nil && *f.UserID == "user-1" && f.Page == 2 && f.PerPage == 10
	})).Return([]domain.Order{*sampleOrder(domain.StatusPayment, 0)}, 11, nil)

	orders, total, err := svc.ListUserOrders(ctx, "user-1", 2, 10)

	require.NoError(t, err)
	assert.Equal(t, 11, total)
	assert.Len(t, orders, 1)
}
