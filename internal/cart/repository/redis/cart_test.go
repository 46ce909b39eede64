package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meryemgkrt/food-ordering/internal/cart/domain"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

func setupTestRedis(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewCartRepository(client, 24*time.Hour)
	return repo, mr
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Cart{
		ID:     "cart-001",
		UserID: "user-001",
		Items: []domain.LineItem{
			{
				ProductID: "prod-pizza",
				Title:     "Margherita",
				ImageURL:  "https://img.example.com/margherita.jpg",
				UnitPrice: 1200,
				Quantity:  2,
				Size:      &domain.SizeSelection{Index: 2, Name: "Large"},
				Extras:    []domain.Extra{{Name: "Cheese", Price: 200}},
				LineTotal: 2400,
			},
		},
		TotalQuantity: 2,
		TotalPrice:    2400,
		Currency:      "USD",
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
		ExpiresAt:     now.Add(24 * time.Hour),
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestCartRepository_Get_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)

	// Set data directly in miniredis.
	require.NoError(t, mr.Set("cart:"+cart.UserID, string(data)))

	got, err := repo.Get(context.Background(), cart.UserID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, cart.UserID, got.UserID)
	assert.Equal(t, cart.Version, got.Version)
	assert.Equal(t, 2, got.TotalQuantity)
	assert.Equal(t, int64(2400), got.TotalPrice)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod-pizza", got.Items[0].ProductID)
	require.NotNil(t, got.Items[0].Size)
	assert.Equal(t, "Large", got.Items[0].Size.Name)
	require.Len(t, got.Items[0].Extras, 1)
	assert.Equal(t, "Cheese", got.Items[0].Extras[0].Name)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	got, err := repo.Get(context.Background(), "nonexistent-user")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Get_InvalidJSON(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("cart:user-bad", "{{not-valid-json"))

	got, err := repo.Get(context.Background(), "user-bad")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal cart")
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestCartRepository_Save_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)

	assert.True(t, mr.Exists("cart:"+cart.UserID))

	raw, err := mr.Get("cart:" + cart.UserID)
	require.NoError(t, err)

	var stored domain.Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, cart.ID, stored.ID)
	assert.Equal(t, cart.Version, stored.Version)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "prod-pizza", stored.Items[0].ProductID)
}

func TestCartRepository_Save_TTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)

	ttl := mr.TTL("cart:" + cart.UserID)
	assert.True(t, ttl > 23*time.Hour, "expected TTL > 23h, got %v", ttl)
	assert.True(t, ttl <= 24*time.Hour, "expected TTL <= 24h, got %v", ttl)
}

// ---------------------------------------------------------------------------
// SaveIfVersion
// ---------------------------------------------------------------------------

func TestCartRepository_SaveIfVersion_Success(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 1

	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)

	cart.AddItem(domain.LineItem{
		ProductID: "prod-burger",
		Title:     "Cheeseburger",
		UnitPrice: 900,
		Quantity:  1,
	})

	ok, err := repo.SaveIfVersion(context.Background(), cart, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.Get(context.Background(), cart.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Len(t, got.Items, 2)
}

func TestCartRepository_SaveIfVersion_VersionMismatch(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 1

	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)

	ok, err := repo.SaveIfVersion(context.Background(), cart, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(context.Background(), cart.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestCartRepository_SaveIfVersion_NewCart(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0

	ok, err := repo.SaveIfVersion(context.Background(), cart, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.Get(context.Background(), cart.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestCartRepository_SaveIfVersion_NewCartVersionMismatch(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()

	ok, err := repo.SaveIfVersion(context.Background(), cart, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Get(context.Background(), cart.UserID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestCartRepository_Delete_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)
	assert.True(t, mr.Exists("cart:"+cart.UserID))

	err = repo.Delete(context.Background(), cart.UserID)
	require.NoError(t, err)

	assert.False(t, mr.Exists("cart:"+cart.UserID))
}

func TestCartRepository_Delete_NonExistent(t *testing.T) {
	repo, _ := setupTestRedis(t)

	err := repo.Delete(context.Background(), "nonexistent-user")
	assert.NoError(t, err)
}
