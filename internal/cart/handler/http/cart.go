package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meryemgkrt/food-ordering/internal/cart/domain"
	"github.com/meryemgkrt/food-ordering/internal/cart/service"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
	"github.com/meryemgkrt/food-ordering/pkg/httputil"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
	"github.com/meryemgkrt/food-ordering/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the cart endpoints on the given router. All routes require
// an authenticated user.
func (h *CartHandler) Routes(r chi.Router) {
	r.Get("/", h.GetCart)
	r.Delete("/", h.ClearCart)

	r.Post("/items", h.AddItem)
	r.Post("/items/{index}/increase", h.IncreaseQuantity)
	r.Post("/items/{index}/decrease", h.DecreaseQuantity)
	r.Delete("/items/{index}", h.RemoveItem)
}

// AddItemRequest is the JSON request body for adding a line item to the cart.
type AddItemRequest struct {
	ProductID string                `json:"product_id" validate:"required"`
	Title     string                `json:"title" validate:"required,min=1,max=500"`
	ImageURL  string                `json:"image_url" validate:"omitempty,url"`
	UnitPrice int64                 `json:"unit_price" validate:"gte=0"`
	Quantity  int                   `json:"quantity" validate:"required,gte=1"`
	Size      *domain.SizeSelection `json:"size"`
	Extras    []domain.Extra        `json:"extras"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.AddItemInput{
		ProductID: req.ProductID,
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Extras:    req.Extras,
	}

	cart, err := h.service.AddItem(r.Context(), userID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// IncreaseQuantity handles POST /api/v1/cart/items/{index}/increase
func (h *CartHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	index, ok := h.parseIndex(w, r)
	if !ok {
		return
	}

	cart, err := h.service.IncreaseQuantity(r.Context(), userID, index)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// DecreaseQuantity handles POST /api/v1/cart/items/{index}/decrease
func (h *CartHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	index, ok := h.parseIndex(w, r)
	if !ok {
		return
	}

	cart, err := h.service.DecreaseQuantity(r.Context(), userID, index)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveItem handles DELETE /api/v1/cart/items/{index}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	index, ok := h.parseIndex(w, r)
	if !ok {
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), userID, index)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.ClearCart(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// parseIndex extracts the {index} URL parameter as a non-negative integer.
func (h *CartHandler) parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		httputil.WriteError(w, r, apperrors.InvalidInput("index must be a non-negative integer"), h.logger)
		return 0, false
	}
	return index, true
}
