package service

import (
	"context"

	"joulaa/internal/checkout"
	"joulaa/internal/model"
	"joulaa/internal/payment"
	"joulaa/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type checkoutService struct {
	gateway payment.Gateway
	orders  repository.OrderRepository
	creator OrderService
	logger  zerolog.Logger
}

// NewCheckoutService creates the payment-side checkout service. creator is
// the order service used to record an order on a successful redirect return.
func NewCheckoutService(gateway payment.Gateway, orders repository.OrderRepository, creator OrderService, logger zerolog.Logger) CheckoutService {
	return &checkoutService{
		gateway: gateway,
		orders:  orders,
		creator: creator,
		logger:  logger.With().Str("service", "checkout").Logger(),
	}
}

func (s *checkoutService) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*payment.Intent, error) {
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	intent, err := s.gateway.CreateIntent(ctx, amount)
	if err != nil {
		s.logger.Error().Err(err).Str("amount", amount.String()).Msg("failed to create payment intent")
		return nil, model.PaymentInitError(err)
	}

	s.logger.Info().
		Str("payment_intent_id", intent.ID).
		Str("amount", amount.String()).
		Msg("payment intent created")

	return intent, nil
}

func (s *checkoutService) ConfirmReturn(ctx context.Context, clientSecret string, orderReq *model.CreateOrderRequest) (*ConfirmReturnResult, error) {
	if clientSecret == "" {
		return nil, model.MissingField("clientSecret")
	}
	if _, err := payment.IntentIDFromClientSecret(clientSecret); err != nil {
		return nil, model.ErrInvalidClientSecret
	}

	result := &ConfirmReturnResult{}

	// On success: with a payload, record the order through the idempotent
	// create path; without one, attach an already-recorded order so the
	// return page can link straight to it.
	conf := checkout.NewConfirmation(s.gateway, func(ctx context.Context, paymentIntentID string) error {
		if orderReq != nil {
			orderReq.PaymentIntentID = paymentIntentID
			resp, err := s.creator.CreateOrder(ctx, orderReq)
			if err != nil {
				return err
			}
			result.OrderID = &resp.OrderID
			return nil
		}

		order, _, err := s.orders.GetByPaymentIntentID(ctx, paymentIntentID)
		if err != nil {
			return err
		}
		if order != nil {
			result.OrderID = &order.ID
		}
		return nil
	}, s.logger)

	state, err := conf.Resume(ctx, clientSecret)
	if err != nil {
		if state == checkout.StateSucceeded {
			// The payment stands; only the order-side follow-up failed.
			s.logger.Error().Err(err).Msg("order resolution failed after successful payment")
		} else {
			s.logger.Error().Err(err).Msg("failed to resolve payment on return")
			return nil, internalError("failed to resolve payment", err)
		}
	}

	result.Status = state
	result.Message = returnMessage(state)

	return result, nil
}

func returnMessage(state checkout.State) string {
	switch state {
	case checkout.StateSucceeded:
		return "Payment succeeded"
	case checkout.StateProcessing:
		return "Your payment is processing"
	case checkout.StateRequiresPaymentMethod:
		return "Your payment was not successful, please try again"
	default:
		return "Something went wrong"
	}
}
