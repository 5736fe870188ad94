package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreated is published after an order commits. Downstream consumers
// (analytics, fulfilment) key on the order id.
type OrderCreated struct {
	OrderID         uuid.UUID       `json:"order_id"`
	UserID          *uuid.UUID      `json:"user_id,omitempty"`
	PaymentIntentID string          `json:"payment_intent_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ItemCount       int             `json:"item_count"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Publisher emits order lifecycle events. Publishing is best-effort from
// the order service's point of view; a failed publish never fails an order.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event *OrderCreated) error
	Close() error
}

// NopPublisher discards events; used when Kafka is disabled and in tests.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, *OrderCreated) error { return nil }
func (NopPublisher) Close() error                                             { return nil }
