package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meryemgkrt/food-ordering/internal/user/domain"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
)

// Kafka topic constants for user domain events.
const (
	TopicUserRegistered = "restaurant.user.registered"
	TopicUserUpdated    = "restaurant.user.updated"
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from the user module.
const SourceUser = "food-ordering.user"

// UserEventData is the payload for user lifecycle events.
type UserEventData struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Producer publishes user domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the user module.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, user)
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	return p.publish(ctx, TopicUserUpdated, user)
}

func (p *Producer) publish(ctx context.Context, topic string, user *domain.User) error {
	data := UserEventData{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}

	event, err := pkgkafka.NewEvent(topic, user.ID, AggregateTypeUser, SourceUser, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published user event",
		slog.String("topic", topic),
		slog.String("user_id", user.ID),
	)

	return nil
}
