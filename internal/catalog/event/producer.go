package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meryemgkrt/food-ordering/internal/catalog/domain"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated  = "restaurant.product.created"
	TopicProductUpdated  = "restaurant.product.updated"
	TopicProductDeleted  = "restaurant.product.deleted"
	TopicCategoryCreated = "restaurant.category.created"
	TopicCategoryDeleted = "restaurant.category.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeCategory = "category"
)

// Source identifier for events originating from the catalog module.
const SourceCatalog = "food-ordering.catalog"

// ProductEventData is the payload for product lifecycle events.
type ProductEventData struct {
	ProductID  string  `json:"product_id"`
	Title      string  `json:"title"`
	CategoryID *string `json:"category_id,omitempty"`
	Prices     []int64 `json:"prices"`
}

// CategoryEventData is the payload for category lifecycle events.
type CategoryEventData struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog module.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, productID string) error {
	data := ProductEventData{ProductID: productID}

	event, err := pkgkafka.NewEvent(TopicProductDeleted, productID, AggregateTypeProduct, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	return nil
}

// PublishCategoryCreated publishes a category.created event.
func (p *Producer) PublishCategoryCreated(ctx context.Context, category *domain.Category) error {
	data := CategoryEventData{CategoryID: category.ID, Title: category.Title}

	event, err := pkgkafka.NewEvent(TopicCategoryCreated, category.ID, AggregateTypeCategory, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create category.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCategoryCreated, event); err != nil {
		return fmt.Errorf("publish category.created event: %w", err)
	}

	return nil
}

// PublishCategoryDeleted publishes a category.deleted event.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, categoryID string) error {
	data := CategoryEventData{CategoryID: categoryID}

	event, err := pkgkafka.NewEvent(TopicCategoryDeleted, categoryID, AggregateTypeCategory, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create category.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCategoryDeleted, event); err != nil {
		return fmt.Errorf("publish category.deleted event: %w", err)
	}

	return nil
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product *domain.Product) error {
	data := ProductEventData{
		ProductID:  product.ID,
		Title:      product.Title,
		CategoryID: product.CategoryID,
		Prices:     product.Prices,
	}

	event, err := pkgkafka.NewEvent(topic, product.ID, AggregateTypeProduct, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.String("product_id", product.ID),
	)

	return nil
}
