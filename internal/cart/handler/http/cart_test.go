package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meryemgkrt/food-ordering/internal/cart/domain"
	"github.com/meryemgkrt/food-ordering/internal/cart/event"
	"github.com/meryemgkrt/food-ordering/internal/cart/service"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
	"github.com/meryemgkrt/food-ordering/pkg/httputil"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
)

// ============================================================================
// Mock CartRepository
// ============================================================================

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	args := m.Called(ctx, cart, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *mockCartRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// ============================================================================
// Test helpers
// ============================================================================

const testUserID = "user-1"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCartHandler(repo *mockCartRepository) *CartHandler {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	svc := service.NewCartService(repo, producer, logger, 24*time.Hour)
	return NewCartHandler(svc, logger)
}

// injectUser simulates the Auth middleware by placing a fixed user in the
// request context.
func injectUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithUser(r.Context(), testUserID, "customer")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(injectUser)
		handler.Routes(r)
	})
	return r
}

func cartWithPizza(qty int) *domain.Cart {
	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:        "cart-123",
		UserID:    testUserID,
		Items:     []domain.LineItem{},
		Currency:  "USD",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	cart.AddItem(domain.LineItem{
		ProductID: "prod-pizza",
		Title:     "Margherita",
		UnitPrice: 1200,
		Quantity:  qty,
		Size:      &domain.SizeSelection{Index: 2, Name: "Large"},
	})
	return cart
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ============================================================================
// GET /api/v1/cart
// ============================================================================

func TestGetCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testUserID).Return(cartWithPizza(2), nil)
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

func TestGetCart_NoCartReturnsEmpty(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testUserID).Return(nil, apperrors.NotFound("cart", testUserID))
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
	assert.Equal(t, 0, resp.Data.TotalQuantity)
}

// ============================================================================
// POST /api/v1/cart/items
// ============================================================================

func TestAddItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testUserID).Return(cartWithPizza(1), nil)
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 1).Return(true, nil)
	router := setupCartRouter(testCartHandler(repo))

	body, _ := json.Marshal(AddItemRequest{
		ProductID: "prod-pizza",
		Title:     "Margherita",
		UnitPrice: 1200,
		Quantity:  2,
		Size:      &domain.SizeSelection{Index: 2, Name: "Large"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 3, resp.Data.Items[0].Quantity)
	assert.Equal(t, int64(3600), resp.Data.TotalPrice)

	repo.AssertExpectations(t)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Get")
}

func TestAddItem_ZeroQuantityRejected(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	body, _ := json.Marshal(AddItemRequest{
		ProductID: "prod-pizza",
		Title:     "Margherita",
		UnitPrice: 1200,
		Quantity:  0,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "SaveIfVersion")
}

func TestAddItem_VersionConflict_Returns409(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testUserID).Return(cartWithPizza(1), nil)
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 1).Return(false, nil)
	router := setupCartRouter(testCartHandler(repo))

	body, _ := json.Marshal(AddItemRequest{
		ProductID: "prod-burger",
		Title:     "Cheeseburger",
		UnitPrice: 900,
		Quantity:  1,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

// ============================================================================
// POST /api/v1/cart/items/{index}/increase|decrease
// ============================================================================

func TestIncreaseQuantity_Success(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testUserID).Return(cartWithPizza(1), nil)
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 1).Return(true, nil)
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/0/increase", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Items[0].Quantity)
}

func TestIncreaseQuantity_BadIndex(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/abc/increase", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Get")
}

func TestDecreaseQuantity_FloorAtOne(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testUserID).Return(cartWithPizza(1), nil)
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/0/decrease", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Items[0].Quantity)
	repo.AssertNotCalled(t, "SaveIfVersion")
}

// ============================================================================
// DELETE /api/v1/cart/items/{index}
// ============================================================================

func TestRemoveItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testUserID).Return(cartWithPizza(2), nil)
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 1).Return(true, nil)
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
	assert.Equal(t, int64(0), resp.Data.TotalPrice)
}

func TestRemoveItem_OutOfRangeIsNoOp(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testUserID).Return(cartWithPizza(2), nil)
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 1)
	repo.AssertNotCalled(t, "SaveIfVersion")
}

// ============================================================================
// DELETE /api/v1/cart
// ============================================================================

func TestClearCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Delete", mock.Anything, testUserID).Return(nil)
	router := setupCartRouter(testCartHandler(repo))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
