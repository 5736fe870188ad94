package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"joulaa/internal/email"
	"joulaa/internal/events"
	"joulaa/internal/model"
	"joulaa/internal/payment"
	"joulaa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// costPriceRatio approximates the unit cost when the caller does not supply
// one: 60% of the discounted unit price.
var costPriceRatio = decimal.NewFromFloat(0.6)

type orderService struct {
	orders    repository.OrderRepository
	profiles  repository.ProfileRepository
	recovery  repository.RecoveryRepository
	gateway   payment.Gateway
	sender    email.Sender
	publisher events.Publisher
	currency  string
	logger    zerolog.Logger
}

// NewOrderService creates the order business logic service.
func NewOrderService(
	orders repository.OrderRepository,
	profiles repository.ProfileRepository,
	recovery repository.RecoveryRepository,
	gateway payment.Gateway,
	sender email.Sender,
	publisher events.Publisher,
	currency string,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		profiles:  profiles,
		recovery:  recovery,
		gateway:   gateway,
		sender:    sender,
		publisher: publisher,
		currency:  strings.ToUpper(currency),
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	if err := validateCreateOrder(req); err != nil {
		return nil, err
	}

	// A retried request for an already-recorded payment returns the
	// existing order rather than creating a duplicate.
	if existing, _, err := s.orders.GetByPaymentIntentID(ctx, req.PaymentIntentID); err != nil {
		return nil, internalError("failed to check for existing order", err)
	} else if existing != nil {
		s.logger.Info().
			Str("payment_intent_id", req.PaymentIntentID).
			Str("order_id", existing.ID.String()).
			Msg("order already recorded for payment reference")
		return alreadyRecorded(existing.ID), nil
	}

	intent, err := s.gateway.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, internalError("failed to verify payment", err)
	}

	var paymentStatus model.PaymentStatus
	switch intent.Status {
	case payment.IntentStatusSucceeded:
		paymentStatus = model.PaymentStatusPaid
	case payment.IntentStatusProcessing:
		paymentStatus = model.PaymentStatusPending
	default:
		s.logger.Warn().
			Str("payment_intent_id", req.PaymentIntentID).
			Str("intent_status", string(intent.Status)).
			Msg("rejected order for unpaid intent")
		return nil, model.ErrPaymentNotSucceeded
	}

	order, items := buildOrder(req, paymentStatus)

	if err := s.persistOrder(ctx, order, items); err != nil {
		if repository.IsUniqueViolation(err) {
			// Lost the race against a concurrent create for the same
			// payment; the winner's order is the order.
			if existing, _, lookupErr := s.orders.GetByPaymentIntentID(ctx, req.PaymentIntentID); lookupErr == nil && existing != nil {
				return alreadyRecorded(existing.ID), nil
			}
		}

		// The charge is captured but the order is not recorded. Queue the
		// payload so the reconciler can replay it.
		s.enqueueRecovery(ctx, req)
		return nil, internalError("failed to persist order", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_intent_id", order.PaymentIntentID).
		Str("total", order.TotalAmount.String()).
		Int("items", len(items)).
		Msg("order created")

	// Everything past the commit is best-effort: the order stands even if
	// a side effect fails.
	if req.SaveAddress && req.UserID != nil {
		if err := s.profiles.SaveShippingAddress(ctx, *req.UserID, req.ShippingDetails); err != nil {
			s.logger.Error().Err(err).Str("user_id", req.UserID.String()).Msg("failed to save shipping address")
		}
	}

	s.sendConfirmationEmail(ctx, req.UserID, order, items)
	s.publishOrderCreated(ctx, order, len(items))

	return &model.CreateOrderResponse{
		Success: true,
		OrderID: order.ID,
		Message: "Order created successfully",
	}, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderWithItems, error) {
	order, items, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get order", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderWithItems{Order: *order, Items: items}, nil
}

func (s *orderService) GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderWithItems, error) {
	orders, err := s.orders.GetByUser(ctx, userID)
	if err != nil {
		return nil, internalError("failed to list orders", err)
	}

	return orders, nil
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]model.AdminOrder, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, internalError("failed to list all orders", err)
	}

	return orders, nil
}

func (s *orderService) persistOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (err error) {
	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Roll back on any error so a half-written order never survives.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orders.CreateOrder(ctx, tx, order); err != nil {
		return err
	}
	if err = s.orders.CreateOrderItems(ctx, tx, items); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *orderService) enqueueRecovery(ctx context.Context, req *model.CreateOrderRequest) {
	payload, err := json.Marshal(req)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_intent_id", req.PaymentIntentID).Msg("failed to marshal recovery payload")
		return
	}

	if err := s.recovery.Enqueue(ctx, req.PaymentIntentID, payload); err != nil {
		s.logger.Error().Err(err).Str("payment_intent_id", req.PaymentIntentID).Msg("failed to enqueue order recovery")
		return
	}

	s.logger.Warn().Str("payment_intent_id", req.PaymentIntentID).Msg("order queued for recovery")
}

// sendConfirmationEmail mails signed-in shoppers at their profile address.
// Guest checkouts have no account inbox on file and are skipped.
func (s *orderService) sendConfirmationEmail(ctx context.Context, userID *uuid.UUID, order *model.Order, items []model.OrderItem) {
	if userID == nil {
		return
	}

	profile, err := s.profiles.GetByID(ctx, *userID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to load profile for confirmation email")
		return
	}
	if profile == nil {
		return
	}

	userName := profile.FirstName
	if userName == "" {
		userName, _, _ = strings.Cut(profile.Email, "@")
	}

	data := email.OrderConfirmationData{
		UserName:   userName,
		OrderID:    order.ID.String(),
		OrderDate:  order.CreatedAt.Format("January 2, 2006"),
		OrderTotal: fmt.Sprintf("%s %s", s.currency, order.TotalAmount.StringFixed(2)),
	}
	for _, item := range items {
		data.Items = append(data.Items, email.OrderConfirmationItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    fmt.Sprintf("%s %s", s.currency, item.Subtotal.StringFixed(2)),
		})
	}

	html, err := email.RenderOrderConfirmation(data)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to render confirmation email")
		return
	}

	msg := &email.Message{
		To:      []string{profile.Email},
		Subject: "Your Joulaa order confirmation",
		HTML:    html,
	}
	if _, err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to send confirmation email")
	}
}

func (s *orderService) publishOrderCreated(ctx context.Context, order *model.Order, itemCount int) {
	event := &events.OrderCreated{
		OrderID:         order.ID,
		UserID:          order.UserID,
		PaymentIntentID: order.PaymentIntentID,
		TotalAmount:     order.TotalAmount,
		ItemCount:       itemCount,
		CreatedAt:       order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order created event")
	}
}

func validateCreateOrder(req *model.CreateOrderRequest) error {
	if req.PaymentIntentID == "" {
		return model.ErrMissingPaymentRef
	}
	if len(req.CartItems) == 0 {
		return model.ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, item := range req.CartItems {
		if item.ProductID == "" {
			return model.ErrMissingItemID
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
		subtotal = subtotal.Add(item.LineTotal())
	}

	if err := req.ShippingDetails.Validate(); err != nil {
		return err
	}

	if !req.TotalAmount.Equal(subtotal.Add(req.ShippingCost)) {
		return model.ErrTotalMismatch
	}

	return nil
}

func buildOrder(req *model.CreateOrderRequest, paymentStatus model.PaymentStatus) (*model.Order, []model.OrderItem) {
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          req.UserID,
		TotalAmount:     req.TotalAmount,
		ShippingCost:    req.ShippingCost,
		TaxAmount:       decimal.Zero,
		DiscountAmount:  decimal.Zero,
		Status:          model.OrderStatusProcessing,
		PaymentStatus:   paymentStatus,
		ShippingAddress: req.ShippingDetails,
		BillingAddress:  req.ShippingDetails,
		PaymentIntentID: req.PaymentIntentID,
	}

	items := make([]model.OrderItem, 0, len(req.CartItems))
	for _, cartItem := range req.CartItems {
		unitPrice := cartItem.UnitPrice()

		costPrice := unitPrice.Mul(costPriceRatio).Round(2)
		if cartItem.CostPrice != nil {
			costPrice = *cartItem.CostPrice
		}

		items = append(items, model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   cartItem.ProductID,
			ProductName: cartItem.Name,
			Quantity:    cartItem.Quantity,
			UnitPrice:   unitPrice,
			CostPrice:   costPrice,
			Subtotal:    cartItem.LineTotal(),
			Color:       optional(cartItem.Color),
			Shade:       optional(cartItem.Shade),
			ImageURL:    optional(cartItem.ImageURL),
		})
	}

	return order, items
}

func alreadyRecorded(orderID uuid.UUID) *model.CreateOrderResponse {
	return &model.CreateOrderResponse{
		Success: true,
		OrderID: orderID,
		Message: "Order already recorded for this payment",
	}
}

func internalError(message string, err error) *model.DomainError {
	return &model.DomainError{
		Code:    model.ErrCodeInternalError,
		Message: message,
		Err:     err,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
