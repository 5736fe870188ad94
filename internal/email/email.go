package email

import "context"

// Message is one outbound transactional email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender delivers transactional email. Order creation treats delivery as
// best-effort: a send failure is logged and swallowed, never surfaced to
// the shopper.
type Sender interface {
	// Send delivers the message and returns the provider's message id.
	Send(ctx context.Context, msg *Message) (string, error)
}
