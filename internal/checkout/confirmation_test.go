package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"joulaa/internal/payment"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a mock implementation of payment.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, amount decimal.Decimal) (*payment.Intent, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

func (m *MockGateway) RetrieveIntent(ctx context.Context, id string) (*payment.Intent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

func (m *MockGateway) RetrieveIntentByClientSecret(ctx context.Context, clientSecret string) (*payment.Intent, error) {
	args := m.Called(ctx, clientSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status payment.IntentStatus
		want   State
	}{
		{payment.IntentStatusSucceeded, StateSucceeded},
		{payment.IntentStatusProcessing, StateProcessing},
		{payment.IntentStatusRequiresPaymentMethod, StateRequiresPaymentMethod},
		{payment.IntentStatusRequiresAction, StateFailed},
		{payment.IntentStatusCanceled, StateFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status))
		})
	}
}

func TestConfirmation_SubmitSuccessTriggersOnSucceeded(t *testing.T) {
	ctx := context.Background()

	var gotRef string
	c := NewConfirmation(nil, func(_ context.Context, ref string) error {
		gotRef = ref
		return nil
	}, zerolog.Nop())

	state, err := c.Submit(ctx, func(context.Context) (*payment.Intent, error) {
		return &payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, state)
	assert.Equal(t, "pi_123", gotRef)
	assert.Equal(t, StateSucceeded, c.State())
}

func TestConfirmation_DoubleSubmitGuard(t *testing.T) {
	ctx := context.Background()

	c := NewConfirmation(nil, nil, zerolog.Nop())

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Submit(ctx, func(context.Context) (*payment.Intent, error) {
			<-release
			return &payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil
		})
	}()

	// Wait for the first submission to take the submitting state.
	require.Eventually(t, func() bool { return c.State() == StateSubmitting }, time.Second, time.Millisecond)

	_, err := c.Submit(ctx, func(context.Context) (*payment.Intent, error) {
		t.Fatal("second submission must not reach the processor")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	<-done
	assert.Equal(t, StateSucceeded, c.State())
}

func TestConfirmation_DuplicateSuccessFiresOnce(t *testing.T) {
	ctx := context.Background()

	gateway := new(MockGateway)
	gateway.On("RetrieveIntentByClientSecret", ctx, "pi_123_secret_x").
		Return(&payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil)

	fired := 0
	c := NewConfirmation(gateway, func(context.Context, string) error {
		fired++
		return nil
	}, zerolog.Nop())

	// Direct path succeeds first.
	state, err := c.Submit(ctx, func(context.Context) (*payment.Intent, error) {
		return &payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil
	})
	require.NoError(t, err)
	require.Equal(t, StateSucceeded, state)

	// Redirect-return path lands on the same payment: no second trigger.
	state, err = c.Resume(ctx, "pi_123_secret_x")
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, state)
	assert.Equal(t, 1, fired)
}

func TestConfirmation_ResumeClassifiesWithoutTrigger(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		status payment.IntentStatus
		want   State
		// the machine state after resolution
		after State
	}{
		{"processing", payment.IntentStatusProcessing, StateProcessing, StateProcessing},
		{"requires payment method", payment.IntentStatusRequiresPaymentMethod, StateRequiresPaymentMethod, StateIdle},
		{"canceled", payment.IntentStatusCanceled, StateFailed, StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := new(MockGateway)
			gateway.On("RetrieveIntentByClientSecret", ctx, "pi_1_secret_x").
				Return(&payment.Intent{ID: "pi_1", Status: tt.status}, nil)

			c := NewConfirmation(gateway, func(context.Context, string) error {
				t.Fatal("onSucceeded must not fire")
				return nil
			}, zerolog.Nop())

			state, err := c.Resume(ctx, "pi_1_secret_x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
			assert.Equal(t, tt.after, c.State())
		})
	}
}

func TestConfirmation_FailedSubmissionReturnsToIdle(t *testing.T) {
	ctx := context.Background()

	c := NewConfirmation(nil, nil, zerolog.Nop())

	_, err := c.Submit(ctx, func(context.Context) (*payment.Intent, error) {
		return nil, errors.New("card declined")
	})
	require.Error(t, err)
	assert.Equal(t, StateIdle, c.State())

	// Retry is allowed after a failure.
	state, err := c.Submit(ctx, func(context.Context) (*payment.Intent, error) {
		return &payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, state)
}

func TestConfirmation_OnSucceededErrorKeepsSucceededState(t *testing.T) {
	ctx := context.Background()

	c := NewConfirmation(nil, func(context.Context, string) error {
		return errors.New("order persistence failed")
	}, zerolog.Nop())

	state, err := c.Submit(ctx, func(context.Context) (*payment.Intent, error) {
		return &payment.Intent{ID: "pi_123", Status: payment.IntentStatusSucceeded}, nil
	})

	// The payment is captured even though our side failed.
	require.Error(t, err)
	assert.Equal(t, StateSucceeded, state)
	assert.Equal(t, StateSucceeded, c.State())
}
