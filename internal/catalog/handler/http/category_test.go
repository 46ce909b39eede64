package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meryemgkrt/food-ordering/internal/catalog/domain"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

func sampleCategory() *domain.Category {
	now := time.Now().UTC()
	return &domain.Category{
		ID:        uuid.New().String(),
		Title:     "Pizza",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestListCategories_Success(t *testing.T) {
	categories := new(mockCategoryRepository)
	router := setupCatalogRouter(new(mockProductRepository), categories, "customer")

	categories.On("ListAll", mock.Anything).Return([]domain.Category{*sampleCategory()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestCreateCategory_AdminSuccess(t *testing.T) {
	categories := new(mockCategoryRepository)
	router := setupCatalogRouter(new(mockProductRepository), categories, RoleAdmin)

	categories.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)

	body, _ := json.Marshal(CreateCategoryRequest{Title: "Pizza"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateCategory_NonAdminForbidden(t *testing.T) {
	categories := new(mockCategoryRepository)
	router := setupCatalogRouter(new(mockProductRepository), categories, "customer")

	body, _ := json.Marshal(CreateCategoryRequest{Title: "Pizza"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	categories.AssertNotCalled(t, "Create")
}

func TestCreateCategory_DuplicateTitle(t *testing.T) {
	categories := new(mockCategoryRepository)
	router := setupCatalogRouter(new(mockProductRepository), categories, RoleAdmin)

	categories.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).
		Return(apperrors.AlreadyExists("category", "title", "Pizza"))

	body, _ := json.Marshal(CreateCategoryRequest{Title: "Pizza"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteCategory_StillHasProducts(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	router := setupCatalogRouter(products, categories, RoleAdmin)

	c := sampleCategory()
	categories.On("GetByID", mock.Anything, c.ID).Return(c, nil)
	products.On("CountByCategory", mock.Anything, c.ID).Return(2, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+c.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	categories.AssertNotCalled(t, "Delete")
}

func TestDeleteCategory_AdminSuccess(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	router := setupCatalogRouter(products, categories, RoleAdmin)

	c := sampleCategory()
	categories.On("GetByID", mock.Anything, c.ID).Return(c, nil)
	products.On("CountByCategory", mock.Anything, c.ID).Return(0, nil)
	categories.On("Delete", mock.Anything, c.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+c.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
