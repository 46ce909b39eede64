package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meryemgkrt/food-ordering/internal/catalog/service"
	"github.com/meryemgkrt/food-ordering/pkg/httputil"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
	"github.com/meryemgkrt/food-ordering/pkg/validator"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	service *service.CategoryService
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the category endpoints. Listing is public; mutations
// require the admin role.
func (h *CategoryHandler) Routes(r chi.Router) {
	r.Get("/", h.ListCategories)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(RoleAdmin))
		r.Post("/", h.CreateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})
}

// CreateCategoryRequest is the JSON request body for creating a category.
type CreateCategoryRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// CreateCategory handles POST /api/v1/categories (admin)
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Title)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: category})
}

// DeleteCategory handles DELETE /api/v1/categories/{id} (admin)
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
