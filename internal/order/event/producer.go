package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meryemgkrt/food-ordering/internal/order/domain"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
)

// Kafka topic constants for order domain events.
const (
	TopicOrderCreated       = "restaurant.order.created"
	TopicOrderStatusChanged = "restaurant.order.status_changed"
)

// Aggregate type constant.
const AggregateTypeOrder = "order"

// Source identifier for events originating from the order module.
const SourceOrder = "food-ordering.order"

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID      string `json:"order_id"`
	UserID       string `json:"user_id"`
	CustomerName string `json:"customer_name"`
	ItemCount    int    `json:"item_count"`
	TotalAmount  int64  `json:"total_amount"`
	Currency     string `json:"currency"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	FromStatus int    `json:"from_status"`
	ToStatus   int    `json:"to_status"`
	Label      string `json:"label"`
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the order module.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		OrderID:      order.ID,
		UserID:       order.UserID,
		CustomerName: order.CustomerName,
		ItemCount:    len(order.Items),
		TotalAmount:  order.TotalAmount,
		Currency:     order.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceOrder, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return nil
}

// PublishStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishStatusChanged(ctx context.Context, order *domain.Order, from domain.Status) error {
	data := OrderStatusChangedData{
		OrderID:    order.ID,
		UserID:     order.UserID,
		FromStatus: int(from),
		ToStatus:   int(order.Status),
		Label:      order.Status.String(),
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, order.ID, AggregateTypeOrder, SourceOrder, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.status_changed event",
		slog.String("order_id", order.ID),
		slog.String("status", order.Status.String()),
	)

	return nil
}
