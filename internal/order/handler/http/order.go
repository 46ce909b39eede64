package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meryemgkrt/food-ordering/internal/order/domain"
	"github.com/meryemgkrt/food-ordering/internal/order/service"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
	"github.com/meryemgkrt/food-ordering/pkg/httputil"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
	"github.com/meryemgkrt/food-ordering/pkg/pagination"
	"github.com/meryemgkrt/food-ordering/pkg/validator"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the order endpoints on the given router. All routes require
// an authenticated user; listing all orders and advancing status additionally
// require the admin role.
func (h *OrderHandler) Routes(r chi.Router) {
	r.Post("/", h.Checkout)
	r.Get("/my", h.ListMyOrders)
	r.Get("/{id}", h.GetOrder)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(service.RoleAdmin))
		r.Get("/", h.ListOrders)
		r.Post("/{id}/advance", h.AdvanceStatus)
	})
}

// CheckoutRequest is the JSON request body for placing an order.
type CheckoutRequest struct {
	CustomerName string         `json:"customer_name" validate:"required,min=1,max=200"`
	Address      domain.Address `json:"address"`
	Notes        string         `json:"notes" validate:"max=1000"`
}

// Checkout handles POST /api/v1/orders
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.Checkout(r.Context(), userID, service.CheckoutInput{
		CustomerName: req.CustomerName,
		Address:      req.Address,
		Notes:        req.Notes,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	requesterID := middleware.UserIDFromContext(r.Context())
	requesterRole := middleware.RoleFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), id.String(), requesterID, requesterRole)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders (admin)
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	var status *domain.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("status must be an integer"), h.logger)
			return
		}
		s := domain.Status(code)
		status = &s
	}

	orders, total, err := h.service.ListOrders(r.Context(), status, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(orders, total, params),
	})
}

// ListMyOrders handles GET /api/v1/orders/my
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	orders, total, err := h.service.ListUserOrders(r.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(orders, total, params),
	})
}

// AdvanceStatus handles POST /api/v1/orders/{id}/advance (admin)
func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.AdvanceStatus(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
