package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meryemgkrt/food-ordering/internal/media/domain"
	"github.com/meryemgkrt/food-ordering/internal/media/service"
	"github.com/meryemgkrt/food-ordering/pkg/httputil"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
)

// RoleAdmin is the role allowed to upload and delete media.
const RoleAdmin = "admin"

// MediaHandler handles HTTP requests for media endpoints.
type MediaHandler struct {
	service *service.MediaService
	logger  *slog.Logger
}

// NewMediaHandler creates a new media HTTP handler.
func NewMediaHandler(svc *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes registers the media endpoints. Reading is public; uploads and
// deletions require the admin role.
func (h *MediaHandler) Routes(r chi.Router) {
	r.Get("/{id}", h.GetMedia)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(RoleAdmin))
		r.Post("/", h.UploadMedia)
		r.Delete("/{id}", h.DeleteMedia)
	})
}

// UploadMedia handles POST /api/v1/media (multipart/form-data, admin).
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	// Cap the body at the file limit plus headroom for form fields.
	maxSize := domain.MaxFileSize + (1 << 20)
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(domain.MaxFileSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "failed to parse multipart form: " + err.Error()},
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "file is required: " + err.Error()},
		})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	userID := middleware.UserIDFromContext(r.Context())

	media, err := h.service.UploadMedia(r.Context(), &service.UploadMediaInput{
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Data:        file,
		UploadedBy:  userID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: media})
}

// GetMedia handles GET /api/v1/media/{id}
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	media, err := h.service.GetMedia(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: media})
}

// DeleteMedia handles DELETE /api/v1/media/{id} (admin)
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteMedia(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
