package email

import (
	"context"
	"fmt"

	"joulaa/internal/config"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// resendSender implements Sender using the Resend API.
type resendSender struct {
	client      *resend.Client
	defaultFrom string
	logger      zerolog.Logger
}

// NewResendSender creates a Resend-backed email sender.
func NewResendSender(cfg config.EmailConfig, logger zerolog.Logger) Sender {
	return &resendSender{
		client:      resend.NewClient(cfg.APIKey),
		defaultFrom: cfg.DefaultFrom,
		logger:      logger.With().Str("sender", "resend").Logger(),
	}
}

func (s *resendSender) Send(ctx context.Context, msg *Message) (string, error) {
	from := msg.From
	if from == "" {
		from = s.defaultFrom
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		s.logger.Error().Err(err).Strs("to", msg.To).Str("subject", msg.Subject).Msg("failed to send email")
		return "", fmt.Errorf("resend: send email: %w", err)
	}

	s.logger.Debug().Str("message_id", sent.Id).Strs("to", msg.To).Msg("email sent")
	return sent.Id, nil
}

// logSender is used when no email API key is configured: sends are logged
// and dropped.
type logSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a Sender that only logs.
func NewLogSender(logger zerolog.Logger) Sender {
	return &logSender{logger: logger.With().Str("sender", "log").Logger()}
}

func (s *logSender) Send(_ context.Context, msg *Message) (string, error) {
	s.logger.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("email delivery disabled, dropping message")
	return "", nil
}
