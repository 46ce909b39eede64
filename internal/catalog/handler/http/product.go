package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meryemgkrt/food-ordering/internal/catalog/domain"
	"github.com/meryemgkrt/food-ordering/internal/catalog/repository"
	"github.com/meryemgkrt/food-ordering/internal/catalog/service"
	"github.com/meryemgkrt/food-ordering/pkg/httputil"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
	"github.com/meryemgkrt/food-ordering/pkg/pagination"
	"github.com/meryemgkrt/food-ordering/pkg/validator"
)

// RoleAdmin is the role allowed to modify the catalog.
const RoleAdmin = "admin"

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the product endpoints. Reads are public; mutations require
// the admin role.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Get("/search", h.SearchProducts)
	r.Get("/{id}", h.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(RoleAdmin))
		r.Post("/", h.CreateProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

// --- Request DTOs ---

// ExtraOptionRequest is an extra option in a product request body.
type ExtraOptionRequest struct {
	Text  string `json:"text" validate:"required,min=1,max=100"`
	Price int64  `json:"price" validate:"gte=0"`
}

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Title       string               `json:"title" validate:"required,min=1,max=200"`
	Description string               `json:"description" validate:"max=2000"`
	Prices      []int64              `json:"prices" validate:"required,min=1,max=3,dive,gte=0"`
	CategoryID  *string              `json:"category_id" validate:"omitempty,uuid"`
	Image       string               `json:"image" validate:"omitempty,url"`
	Extras      []ExtraOptionRequest `json:"extras" validate:"omitempty,max=20,dive"`
}

// UpdateProductRequest is the JSON request body for updating a product.
type UpdateProductRequest struct {
	Title       *string              `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string              `json:"description" validate:"omitempty,max=2000"`
	Prices      []int64              `json:"prices" validate:"omitempty,min=1,max=3,dive,gte=0"`
	CategoryID  *string              `json:"category_id" validate:"omitempty,uuid"`
	Image       *string              `json:"image" validate:"omitempty,url"`
	Extras      []ExtraOptionRequest `json:"extras" validate:"omitempty,max=20,dive"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	filter := repository.ProductFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		filter.CategoryID = &v
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(products, total, params),
	})
}

// SearchProducts handles GET /api/v1/products/search?q=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	query := r.URL.Query().Get("q")

	products, total, err := h.service.SearchProducts(r.Context(), query, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(products, total, params),
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products (admin)
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Prices:      req.Prices,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
		Extras:      toExtraOptions(req.Extras),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id} (admin)
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Prices:      req.Prices,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
	}
	if req.Extras != nil {
		input.Extras = toExtraOptions(req.Extras)
	}

	product, err := h.service.UpdateProduct(r.Context(), id.String(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id} (admin)
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toExtraOptions(reqs []ExtraOptionRequest) []domain.ExtraOption {
	if reqs == nil {
		return nil
	}
	extras := make([]domain.ExtraOption, len(reqs))
	for i, e := range reqs {
		extras[i] = domain.ExtraOption{Text: e.Text, Price: e.Price}
	}
	return extras
}
