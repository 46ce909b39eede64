package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meryemgkrt/food-ordering/internal/content/domain"
	"github.com/meryemgkrt/food-ordering/internal/content/service"
	"github.com/meryemgkrt/food-ordering/pkg/httputil"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
	"github.com/meryemgkrt/food-ordering/pkg/validator"
)

// RoleAdmin is the role allowed to edit footer content.
const RoleAdmin = "admin"

// FooterHandler handles HTTP requests for footer content.
type FooterHandler struct {
	service *service.FooterService
	logger  *slog.Logger
}

// NewFooterHandler creates a new footer HTTP handler.
func NewFooterHandler(svc *service.FooterService, logger *slog.Logger) *FooterHandler {
	return &FooterHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the footer endpoints. Reading is public; replacing the
// content requires the admin role.
func (h *FooterHandler) Routes(r chi.Router) {
	r.Get("/", h.GetFooter)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(RoleAdmin))
		r.Put("/", h.UpdateFooter)
	})
}

// SocialLinkRequest is a social link in the footer request body.
type SocialLinkRequest struct {
	Platform string `json:"platform" validate:"required,oneof=facebook twitter instagram linkedin youtube whatsapp"`
	URL      string `json:"url" validate:"required,url"`
}

// UpdateFooterRequest is the JSON request body for replacing footer content.
type UpdateFooterRequest struct {
	Location    string              `json:"location" validate:"required,max=300"`
	Email       string              `json:"email" validate:"required,email"`
	PhoneNumber string              `json:"phone_number" validate:"required,max=30"`
	Desc        string              `json:"desc" validate:"max=1000"`
	SocialMedia []SocialLinkRequest `json:"social_media" validate:"omitempty,max=10,dive"`
	OpeningDay  string              `json:"opening_day" validate:"max=100"`
	OpeningHour string              `json:"opening_hour" validate:"max=100"`
}

// GetFooter handles GET /api/v1/footer
func (h *FooterHandler) GetFooter(w http.ResponseWriter, r *http.Request) {
	footer, err := h.service.GetFooter(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: footer})
}

// UpdateFooter handles PUT /api/v1/footer (admin)
func (h *FooterHandler) UpdateFooter(w http.ResponseWriter, r *http.Request) {
	var req UpdateFooterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	socialMedia := make([]domain.SocialLink, len(req.SocialMedia))
	for i, link := range req.SocialMedia {
		socialMedia[i] = domain.SocialLink{Platform: link.Platform, URL: link.URL}
	}

	footer, err := h.service.UpdateFooter(r.Context(), service.UpdateFooterInput{
		Location:    req.Location,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Desc:        req.Desc,
		SocialMedia: socialMedia,
		OpeningHours: domain.OpeningHours{
			Day:  req.OpeningDay,
			Hour: req.OpeningHour,
		},
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: footer})
}
