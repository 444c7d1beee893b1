package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/pricing-engine/internal/domain"
	pkgkafka "github.com/utafrali/pricing-engine/pkg/kafka"
)

// Kafka topic constants for checkout domain events.
const (
	TopicCheckoutCompleted = "pricing.checkout.completed"
)

// Aggregate type constant.
const AggregateTypeOrder = "order"

// Source identifier for events originating from the pricing engine.
const SourcePricingEngine = "pricing-engine"

// CheckoutCompletedData is the payload for a checkout.completed event.
type CheckoutCompletedData struct {
	OrderID       string                   `json:"order_id"`
	Region        string                   `json:"region"`
	PaymentMethod string                   `json:"payment_method"`
	OriginalTotal domain.Money             `json:"original_total"`
	TotalDiscount domain.Money             `json:"total_discount"`
	FinalTotal    domain.Money             `json:"final_total"`
	Discounts     []domain.AppliedDiscount `json:"discounts"`
}

// Producer publishes checkout domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the pricing engine.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCheckoutCompleted publishes a checkout.completed event.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, order *domain.Order) error {
	data := CheckoutCompletedData{
		OrderID:       order.ID,
		Region:        order.Region,
		PaymentMethod: order.PaymentMethod,
		OriginalTotal: order.OriginalTotal,
		TotalDiscount: order.TotalDiscount,
		FinalTotal:    order.FinalTotal,
		Discounts:     order.AppliedDiscounts,
	}

	event, err := pkgkafka.NewEvent(TopicCheckoutCompleted, order.ID, AggregateTypeOrder, SourcePricingEngine, data)
	if err != nil {
		return fmt.Errorf("create checkout.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCheckoutCompleted, event); err != nil {
		return fmt.Errorf("publish checkout.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.completed event",
		slog.String("order_id", order.ID),
		slog.Int64("final_total", order.FinalTotal),
	)

	return nil
}
