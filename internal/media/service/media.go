package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meryemgkrt/food-ordering/internal/media/domain"
	"github.com/meryemgkrt/food-ordering/internal/media/event"
	"github.com/meryemgkrt/food-ordering/internal/media/repository"
	"github.com/meryemgkrt/food-ordering/internal/media/storage"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

// MediaService implements the business logic for image uploads.
type MediaService struct {
	repo     repository.MediaRepository
	storage  storage.Storage
	producer *event.Producer
	logger   *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(
	repo repository.MediaRepository,
	store storage.Storage,
	producer *event.Producer,
	logger *slog.Logger,
) *MediaService {
	return &MediaService{
		repo:     repo,
		storage:  store,
		producer: producer,
		logger:   logger,
	}
}

// UploadMediaInput holds the parameters for uploading an image.
type UploadMediaInput struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
	UploadedBy  string
}

// UploadMedia validates the input, pushes the file to the CDN and records the
// returned URL.
func (s *MediaService) UploadMedia(ctx context.Context, input *UploadMediaInput) (*domain.Media, error) {
	if !domain.IsAllowedContentType(input.ContentType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", input.ContentType))
	}

	if input.Size <= 0 {
		return nil, apperrors.InvalidInput("file size must be greater than zero")
	}

	if input.Size > domain.MaxFileSize {
		return nil, apperrors.InvalidInput(fmt.Sprintf("file size %d exceeds maximum allowed size of %d bytes", input.Size, domain.MaxFileSize))
	}

	if input.FileName == "" {
		return nil, apperrors.InvalidInput("file name is required")
	}

	id := uuid.New().String()
	key := fmt.Sprintf("media/%s", id)

	result, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         key,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		Size:        input.Size,
		Data:        input.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	media := &domain.Media{
		ID:          id,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		SizeBytes:   input.Size,
		URL:         result.URL,
		StorageKey:  result.Key,
		UploadedBy:  input.UploadedBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, media); err != nil {
		// Clean up the uploaded file when the record cannot be written.
		if delErr := s.storage.Delete(ctx, result.Key); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to clean up storage after db error",
				slog.String("key", result.Key),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("create media record: %w", err)
	}

	if err := s.producer.PublishMediaUploaded(ctx, media); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish media.uploaded event",
			slog.String("media_id", media.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "media uploaded",
		slog.String("media_id", media.ID),
		slog.String("content_type", media.ContentType),
		slog.Int64("size_bytes", media.SizeBytes),
	)

	return media, nil
}

// GetMedia retrieves a media record by its ID.
func (s *MediaService) GetMedia(ctx context.Context, id string) (*domain.Media, error) {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get media by id: %w", err)
	}
	return media, nil
}

// DeleteMedia removes the file from the CDN and the record from the database.
func (s *MediaService) DeleteMedia(ctx context.Context, id string) error {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get media for delete: %w", err)
	}

	// The record wins over the file: keep going when the CDN delete fails so
	// the database does not reference an image we gave up deleting.
	if err := s.storage.Delete(ctx, media.StorageKey); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete from storage",
			slog.String("media_id", id),
			slog.String("key", media.StorageKey),
			slog.String("error", err.Error()),
		)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}

	if err := s.producer.PublishMediaDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish media.deleted event",
			slog.String("media_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "media deleted",
		slog.String("media_id", id),
	)

	return nil
}
