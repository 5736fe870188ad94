package repository

import (
	"context"
	"errors"

	"joulaa/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// OrderRepository defines the interface for order data access operations.
// The order service is the sole writer; rows are never mutated after
// creation.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. Returns
	// (nil, nil, nil) when the id does not resolve.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// GetByPaymentIntentID retrieves the order created for a payment
	// reference, if any. Returns (nil, nil, nil) on no match.
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, []model.OrderItem, error)

	// GetByUser retrieves all orders for a user with their items, newest first.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderWithItems, error)

	// GetAll retrieves all orders system-wide with purchaser identity
	// joined, newest first, for admin review.
	GetAll(ctx context.Context) ([]model.AdminOrder, error)
}

// ProfileRepository defines access to stored customer profiles.
type ProfileRepository interface {
	// GetByID retrieves a profile, or nil when none exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)

	// SaveShippingAddress upserts the shipping block of a profile.
	SaveShippingAddress(ctx context.Context, id uuid.UUID, details model.ShippingDetails) error
}

// RecoveryRepository queues create-order payloads whose payment succeeded
// but whose persistence failed, for the reconciler to replay.
type RecoveryRepository interface {
	// Enqueue stores the payload keyed by payment reference. Re-enqueueing
	// the same reference is a no-op.
	Enqueue(ctx context.Context, paymentIntentID string, payload []byte) error

	// Pending returns unresolved records with fewer than maxAttempts attempts.
	Pending(ctx context.Context, limit, maxAttempts int) ([]model.RecoveryRecord, error)

	// MarkResolved closes a record after a successful replay.
	MarkResolved(ctx context.Context, id uuid.UUID) error

	// MarkAttempt increments the attempt counter after a failed replay.
	MarkAttempt(ctx context.Context, id uuid.UUID) error
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, e.g. a duplicate payment_intent_id.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
