package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meryemgkrt/food-ordering/internal/cart/domain"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
)

// Kafka topic constants for cart domain events.
const (
	TopicCartUpdated = "restaurant.cart.updated"
	TopicCartCleared = "restaurant.cart.cleared"
)

// Aggregate type constant.
const AggregateTypeCart = "cart"

// Source identifier for events originating from the cart module.
const SourceCart = "food-ordering.cart"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID        string         `json:"user_id"`
	Items         []LineItemData `json:"items"`
	TotalQuantity int            `json:"total_quantity"`
	TotalPrice    int64          `json:"total_price"`
	Currency      string         `json:"currency"`
}

// LineItemData is the item payload within cart events.
type LineItemData struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Size      string `json:"size,omitempty"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// Producer publishes cart domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the cart module.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]LineItemData, len(cart.Items))
	for i, item := range cart.Items {
		sizeName := ""
		if item.Size != nil {
			sizeName = item.Size.Name
		}
		items[i] = LineItemData{
			ProductID: item.ProductID,
			Title:     item.Title,
			Size:      sizeName,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}

	data := CartUpdatedData{
		UserID:        cart.UserID,
		Items:         items,
		TotalQuantity: cart.TotalQuantity,
		TotalPrice:    cart.TotalPrice,
		Currency:      cart.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.UserID, AggregateTypeCart, SourceCart, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", cart.UserID),
		slog.Int("total_quantity", cart.TotalQuantity),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	data := CartClearedData{UserID: userID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, userID, AggregateTypeCart, SourceCart, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("user_id", userID),
	)

	return nil
}
