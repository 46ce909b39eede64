package service

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meryemgkrt/food-ordering/internal/media/domain"
	"github.com/meryemgkrt/food-ordering/internal/media/event"
	"github.com/meryemgkrt/food-ordering/internal/media/storage"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
)

type mockMediaRepository struct {
	mock.Mock
}

func (m *mockMediaRepository) Create(ctx context.Context, media *domain.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *mockMediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Media), args.Error(1)
}

func (m *mockMediaRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer() *event.Producer {
	logger := newTestLogger()
	// Kafka producer that fails silently in tests (no real broker).
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestMediaService(repo *mockMediaRepository, store *mockStorage) *MediaService {
	return NewMediaService(repo, store, newTestProducer(), newTestLogger())
}

func uploadInput() *UploadMediaInput {
	return &UploadMediaInput{
		FileName:    "pizza.jpg",
		ContentType: "image/jpeg",
		Size:        51200,
		Data:        strings.NewReader("fake image bytes"),
		UploadedBy:  "user-001",
	}
}

func storedMedia() *domain.Media {
	return &domain.Media{
		ID:          "media-001",
		FileName:    "pizza.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   51200,
		URL:         "https://cdn.example.com/media/media-001",
		StorageKey:  "media/media-001",
		UploadedBy:  "user-001",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestUploadMedia_Success(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	store.On("Upload", mock.Anything, mock.MatchedBy(func(input *storage.UploadInput) bool {
		return input.ContentType == "image/jpeg" && strings.HasPrefix(input.Key, "media/")
	})).Return(&storage.UploadResult{Key: "media/abc", URL: "https://cdn.example.com/media/abc"}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Media")).Return(nil)

	media, err := svc.UploadMedia(context.Background(), uploadInput())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/abc", media.URL)
	assert.Equal(t, "media/abc", media.StorageKey)
	assert.Equal(t, "user-001", media.UploadedBy)
	assert.NotEmpty(t, media.ID)
}

func TestUploadMedia_RejectsContentType(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	input := uploadInput()
	input.ContentType = "application/pdf"

	_, err := svc.UploadMedia(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	store.AssertNotCalled(t, "Upload")
}

func TestUploadMedia_RejectsOversizedFile(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	input := uploadInput()
	input.Size = domain.MaxFileSize + 1

	_, err := svc.UploadMedia(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	store.AssertNotCalled(t, "Upload")
}

func TestUploadMedia_RejectsEmptyFile(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	input := uploadInput()
	input.Size = 0

	_, err := svc.UploadMedia(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUploadMedia_CleansUpOnDBError(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	store.On("Upload", mock.Anything, mock.Anything).
		Return(&storage.UploadResult{Key: "media/abc", URL: "https://cdn.example.com/media/abc"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)
	store.On("Delete", mock.Anything, "media/abc").Return(nil)

	_, err := svc.UploadMedia(context.Background(), uploadInput())
	require.Error(t, err)
	store.AssertCalled(t, "Delete", mock.Anything, "media/abc")
}

func TestGetMedia_NotFound(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("media", "missing"))

	_, err := svc.GetMedia(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteMedia_Success(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	m := storedMedia()
	repo.On("GetByID", mock.Anything, m.ID).Return(m, nil)
	store.On("Delete", mock.Anything, m.StorageKey).Return(nil)
	repo.On("Delete", mock.Anything, m.ID).Return(nil)

	err := svc.DeleteMedia(context.Background(), m.ID)
	require.NoError(t, err)
	repo.AssertCalled(t, "Delete", mock.Anything, m.ID)
}

func TestDeleteMedia_StorageFailureStillDeletesRecord(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	m := storedMedia()
	repo.On("GetByID", mock.Anything, m.ID).Return(m, nil)
	store.On("Delete", mock.Anything, m.StorageKey).Return(assert.AnError)
	repo.On("Delete", mock.Anything, m.ID).Return(nil)

	err := svc.DeleteMedia(context.Background(), m.ID)
	assert.NoError(t, err)
	repo.AssertCalled(t, "Delete", mock.Anything, m.ID)
}

func TestDeleteMedia_NotFound(t *testing.T) {
	repo := new(mockMediaRepository)
	store := new(mockStorage)
	svc := newTestMediaService(repo, store)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("media", "missing"))

	err := svc.DeleteMedia(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	store.AssertNotCalled(t, "Delete")
}
