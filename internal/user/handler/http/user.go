package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meryemgkrt/food-ordering/internal/user/domain"
	"github.com/meryemgkrt/food-ordering/internal/user/service"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
	"github.com/meryemgkrt/food-ordering/pkg/httputil"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
	"github.com/meryemgkrt/food-ordering/pkg/validator"
)

// UserHandler handles HTTP requests for user profile endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the user profile endpoints. All routes require an
// authenticated user; the email lookup additionally requires the admin role.
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/me", h.GetProfile)
	r.Put("/me", h.UpdateProfile)
	r.Post("/me/password", h.ChangePassword)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(domain.RoleAdmin))
		r.Get("/lookup", h.LookupByEmail)
	})
}

// --- Request DTOs ---

// UpdateProfileRequest is the JSON request body for updating a profile.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Job      *string `json:"job" validate:"omitempty,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=1000"`
}

// ChangePasswordRequest is the JSON request body for changing a password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// --- Handlers ---

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Job:      req.Job,
		Bio:      req.Bio,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// ChangePassword handles POST /api/v1/users/me/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req ChangePasswordRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LookupByEmail handles GET /api/v1/users/lookup?email= (admin)
func (h *UserHandler) LookupByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("email query parameter is required"), h.logger)
		return
	}

	user, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}
