package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the payment state recorded on an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order is the durable record of a completed purchase. user_id is nullable
// because guest checkout is permitted. Address snapshots are captured at
// order time so later profile edits do not alter history.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	ShippingCost    decimal.Decimal `json:"shippingCost" db:"shipping_cost"`
	TaxAmount       decimal.Decimal `json:"taxAmount" db:"tax_amount"`
	DiscountAmount  decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	ShippingAddress ShippingDetails `json:"shippingAddress" db:"shipping_address"`
	BillingAddress  ShippingDetails `json:"billingAddress" db:"billing_address"`
	PaymentIntentID string          `json:"paymentIntentId" db:"payment_intent_id"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is one line of an order, snapshotting product and pricing at
// purchase time. Subtotal always equals unit_price multiplied by quantity.
type OrderItem struct {
	ID          uuid.UUID       `json:"-" db:"id"`
	OrderID     uuid.UUID       `json:"-" db:"order_id"`
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	CostPrice   decimal.Decimal `json:"-" db:"cost_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	Color       *string         `json:"color,omitempty" db:"color"`
	Shade       *string         `json:"shade,omitempty" db:"shade"`
	ImageURL    *string         `json:"imageUrl,omitempty" db:"image_url"`
}

// OrderWithItems pairs an order with its line items for read-side views.
type OrderWithItems struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// Purchaser is the identity joined onto admin order listings.
type Purchaser struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AdminOrder is an order with purchaser identity for admin review.
// Purchaser is nil for guest checkouts.
type AdminOrder struct {
	Order     Order      `json:"order"`
	Purchaser *Purchaser `json:"purchaser,omitempty"`
}

// Profile is a stored customer profile; the shipping block is filled in when
// the shopper opts to save their address at checkout.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Address   string    `json:"address" db:"address"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	ZipCode   string    `json:"zipCode" db:"zip_code"`
	Country   string    `json:"country" db:"country"`
	Phone     string    `json:"phone" db:"phone"`
}

// CreateOrderRequest is the payload of POST /api/create-order.
type CreateOrderRequest struct {
	PaymentIntentID string          `json:"paymentIntentId"`
	UserID          *uuid.UUID      `json:"userId,omitempty"`
	CartItems       []CartItem      `json:"cartItems"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	SaveAddress     bool            `json:"saveAddress"`
}

// CreateOrderResponse is the success payload of POST /api/create-order.
type CreateOrderResponse struct {
	Success bool      `json:"success"`
	OrderID uuid.UUID `json:"orderId"`
	Message string    `json:"message"`
}

// RecoveryRecord holds a create-order payload whose payment succeeded but
// whose persistence failed, queued for the reconciler.
type RecoveryRecord struct {
	ID              uuid.UUID `db:"id"`
	PaymentIntentID string    `db:"payment_intent_id"`
	Payload         []byte    `db:"payload"`
	Attempts        int       `db:"attempts"`
	CreatedAt       time.Time `db:"created_at"`
}
