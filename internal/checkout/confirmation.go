package checkout

import (
	"context"
	"errors"
	"sync"

	"joulaa/internal/payment"

	"github.com/rs/zerolog"
)

// State is the position of a payment confirmation.
type State string

const (
	StateIdle                  State = "idle"
	StateSubmitting            State = "submitting"
	StateSucceeded             State = "succeeded"
	StateProcessing            State = "processing"
	StateRequiresPaymentMethod State = "requires_payment_method"
	StateFailed                State = "failed"
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission has not resolved. The double-submit guard for the payment form.
var ErrSubmissionInFlight = errors.New("payment submission already in flight")

// Classify maps a processor intent status onto a confirmation state. Both
// the direct confirmation path and the redirect-return path funnel through
// this one mapping.
func Classify(status payment.IntentStatus) State {
	switch status {
	case payment.IntentStatusSucceeded:
		return StateSucceeded
	case payment.IntentStatusProcessing:
		return StateProcessing
	case payment.IntentStatusRequiresPaymentMethod:
		return StateRequiresPaymentMethod
	default:
		return StateFailed
	}
}

// SucceededFunc is invoked exactly once when a confirmation reaches
// succeeded, with the processor's payment reference.
type SucceededFunc func(ctx context.Context, paymentIntentID string) error

// Confirmation tracks one payment through
// idle -> submitting -> {succeeded, processing, requires_payment_method, failed}.
// succeeded is terminal; failed and requires_payment_method return to idle so
// the shopper can retry. Both the in-page success path and the
// redirect-return path trigger the same onSucceeded transition, and a
// duplicate success trigger is a no-op.
type Confirmation struct {
	mu          sync.Mutex
	state       State
	fired       bool
	gateway     payment.Gateway
	onSucceeded SucceededFunc
	logger      zerolog.Logger
}

// NewConfirmation creates a confirmation in the idle state.
func NewConfirmation(gateway payment.Gateway, onSucceeded SucceededFunc, logger zerolog.Logger) *Confirmation {
	return &Confirmation{
		state:       StateIdle,
		gateway:     gateway,
		onSucceeded: onSucceeded,
		logger:      logger.With().Str("component", "confirmation").Logger(),
	}
}

// State returns the current confirmation state.
func (c *Confirmation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs the direct confirmation path: confirm performs the processor
// round trip and returns the resulting intent. While a submission is in
// flight further submissions are rejected.
func (c *Confirmation) Submit(ctx context.Context, confirm func(ctx context.Context) (*payment.Intent, error)) (State, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return StateSubmitting, ErrSubmissionInFlight
	}
	if c.state == StateSucceeded {
		c.mu.Unlock()
		return StateSucceeded, nil
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	intent, err := confirm(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("payment confirmation failed")
		c.setState(StateIdle)
		return StateFailed, err
	}

	return c.resolve(ctx, intent)
}

// Resume runs the redirect-return path: the intent is re-queried by client
// secret and re-classified. Safe to call concurrently with Submit for the
// same payment; the success transition fires at most once.
func (c *Confirmation) Resume(ctx context.Context, clientSecret string) (State, error) {
	intent, err := c.gateway.RetrieveIntentByClientSecret(ctx, clientSecret)
	if err != nil {
		return StateFailed, err
	}
	return c.resolve(ctx, intent)
}

func (c *Confirmation) resolve(ctx context.Context, intent *payment.Intent) (State, error) {
	state := Classify(intent.Status)

	c.mu.Lock()
	switch state {
	case StateSucceeded:
		if c.fired {
			c.mu.Unlock()
			return StateSucceeded, nil
		}
		c.fired = true
		c.state = StateSucceeded
	case StateFailed, StateRequiresPaymentMethod:
		// Retryable: back to idle for re-submission.
		c.state = StateIdle
	default:
		c.state = state
	}
	c.mu.Unlock()

	if state != StateSucceeded {
		return state, nil
	}

	c.logger.Info().Str("payment_intent_id", intent.ID).Msg("payment succeeded")

	if c.onSucceeded != nil {
		if err := c.onSucceeded(ctx, intent.ID); err != nil {
			// The payment is captured; the failure is on our side.
			return StateSucceeded, err
		}
	}

	return StateSucceeded, nil
}

func (c *Confirmation) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
