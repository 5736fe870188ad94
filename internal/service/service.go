package service

import (
	"context"

	"joulaa/internal/checkout"
	"joulaa/internal/model"
	"joulaa/internal/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService defines the interface for order business logic.
type OrderService interface {
	// CreateOrder records a paid order with its items. Safe to retry: a
	// repeated payment reference returns the already-created order.
	CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error)

	// GetOrder fetches one order with its items.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderWithItems, error)

	// GetOrdersByUser fetches a user's order history, newest first.
	GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderWithItems, error)

	// GetAllOrders fetches every order with purchaser identity for admin review.
	GetAllOrders(ctx context.Context) ([]model.AdminOrder, error)
}

// ConfirmReturnResult is the outcome of resolving a payment after the
// shopper returns from a processor redirect.
type ConfirmReturnResult struct {
	Status  checkout.State `json:"status"`
	OrderID *uuid.UUID     `json:"orderId,omitempty"`
	Message string         `json:"message"`
}

// CheckoutService defines the interface for payment-side checkout logic.
type CheckoutService interface {
	// CreatePaymentIntent reserves a charge for the given amount in major
	// currency units.
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*payment.Intent, error)

	// ConfirmReturn re-queries an intent by client secret after a redirect
	// return and classifies the outcome. When the payment succeeded and the
	// caller supplies the order payload, the order is created through the
	// idempotent create path; otherwise an already-recorded order is looked
	// up by payment reference.
	ConfirmReturn(ctx context.Context, clientSecret string, order *model.CreateOrderRequest) (*ConfirmReturnResult, error)
}
