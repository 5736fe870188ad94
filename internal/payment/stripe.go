package payment

import (
	"context"
	"fmt"

	"joulaa/internal/config"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// stripeGateway implements Gateway against the Stripe API.
type stripeGateway struct {
	api      *client.API
	currency string
	logger   zerolog.Logger
}

// NewStripeGateway creates a Stripe-backed payment gateway.
func NewStripeGateway(cfg config.StripeConfig, logger zerolog.Logger) Gateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &stripeGateway{
		api:      api,
		currency: cfg.Currency,
		logger:   logger.With().Str("gateway", "stripe").Logger(),
	}
}

// CreateIntent reserves a charge scoped to the exact amount. Amounts are
// converted to minor units (fils) for the wire.
func (g *stripeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Error().Err(err).Str("amount", amount.String()).Msg("failed to create payment intent")
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	g.logger.Debug().Str("payment_intent_id", pi.ID).Str("amount", amount.String()).Msg("payment intent created")

	return fromStripeIntent(pi), nil
}

// RetrieveIntent fetches the current state of an intent by its ID.
func (g *stripeGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		g.logger.Error().Err(err).Str("payment_intent_id", id).Msg("failed to retrieve payment intent")
		return nil, fmt.Errorf("stripe: retrieve payment intent: %w", err)
	}

	return fromStripeIntent(pi), nil
}

// RetrieveIntentByClientSecret resolves the intent ID embedded in the client
// secret and fetches the intent.
func (g *stripeGateway) RetrieveIntentByClientSecret(ctx context.Context, clientSecret string) (*Intent, error) {
	id, err := IntentIDFromClientSecret(clientSecret)
	if err != nil {
		return nil, err
	}
	return g.RetrieveIntent(ctx, id)
}

func fromStripeIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       IntentStatus(pi.Status),
		Amount:       fromMinorUnits(pi.Amount),
		Currency:     string(pi.Currency),
	}
}

// toMinorUnits converts 185.99 to 18599.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
