package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// IntentStatus is the processor-side state of a payment intent.
type IntentStatus string

const (
	IntentStatusSucceeded             IntentStatus = "succeeded"
	IntentStatusProcessing            IntentStatus = "processing"
	IntentStatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentStatusRequiresAction        IntentStatus = "requires_action"
	IntentStatusCanceled              IntentStatus = "canceled"
)

// Intent is a reserved, not-yet-captured charge held by the payment
// collaborator. The client secret is the opaque handle handed to the
// browser to collect payment details.
type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	Amount       decimal.Decimal
	Currency     string
}

// Gateway is the boundary to the payment collaborator. Implementations must
// scope every created intent to the exact amount requested.
type Gateway interface {
	// CreateIntent reserves a charge for the given amount in major currency
	// units (e.g. 185.99).
	CreateIntent(ctx context.Context, amount decimal.Decimal) (*Intent, error)

	// RetrieveIntent fetches the current state of an intent by its ID.
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)

	// RetrieveIntentByClientSecret fetches an intent given only the client
	// secret, for the redirect-return re-entry path.
	RetrieveIntentByClientSecret(ctx context.Context, clientSecret string) (*Intent, error)
}

// IntentIDFromClientSecret extracts the intent ID portion of a client
// secret of the form "<intent id>_secret_<nonce>".
func IntentIDFromClientSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret")
	if !found || id == "" {
		return "", fmt.Errorf("malformed client secret")
	}
	return id, nil
}
