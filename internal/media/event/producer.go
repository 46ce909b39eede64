package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meryemgkrt/food-ordering/internal/media/domain"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
)

// Kafka topic constants for media domain events.
const (
	TopicMediaUploaded = "restaurant.media.uploaded"
	TopicMediaDeleted  = "restaurant.media.deleted"
)

// AggregateTypeMedia identifies the media aggregate in event envelopes.
const AggregateTypeMedia = "media"

// SourceMedia identifies events originating from the media module.
const SourceMedia = "food-ordering.media"

// MediaUploadedData is the payload for a media.uploaded event.
type MediaUploadedData struct {
	MediaID     string `json:"media_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
	UploadedBy  string `json:"uploaded_by"`
}

// MediaDeletedData is the payload for a media.deleted event.
type MediaDeletedData struct {
	MediaID string `json:"media_id"`
}

// Producer publishes media domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the media module.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishMediaUploaded publishes a media.uploaded event.
func (p *Producer) PublishMediaUploaded(ctx context.Context, media *domain.Media) error {
	data := MediaUploadedData{
		MediaID:     media.ID,
		FileName:    media.FileName,
		ContentType: media.ContentType,
		SizeBytes:   media.SizeBytes,
		URL:         media.URL,
		UploadedBy:  media.UploadedBy,
	}

	event, err := pkgkafka.NewEvent(TopicMediaUploaded, media.ID, AggregateTypeMedia, SourceMedia, data)
	if err != nil {
		return fmt.Errorf("create media.uploaded event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicMediaUploaded, event); err != nil {
		return fmt.Errorf("publish media.uploaded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published media event",
		slog.String("topic", TopicMediaUploaded),
		slog.String("media_id", media.ID),
	)

	return nil
}

// PublishMediaDeleted publishes a media.deleted event.
func (p *Producer) PublishMediaDeleted(ctx context.Context, mediaID string) error {
	data := MediaDeletedData{MediaID: mediaID}

	event, err := pkgkafka.NewEvent(TopicMediaDeleted, mediaID, AggregateTypeMedia, SourceMedia, data)
	if err != nil {
		return fmt.Errorf("create media.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicMediaDeleted, event); err != nil {
		return fmt.Errorf("publish media.deleted event: %w", err)
	}

	return nil
}
