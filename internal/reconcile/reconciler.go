package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"joulaa/internal/model"
	"joulaa/internal/repository"
	"joulaa/internal/service"

	"github.com/rs/zerolog"
)

// Reconciler replays queued create-order payloads whose payment was captured
// but whose persistence failed. Replays go through the normal order service,
// so a record that was meanwhile recorded by a retry resolves cleanly.
type Reconciler struct {
	recovery    repository.RecoveryRepository
	orders      service.OrderService
	interval    time.Duration
	batchSize   int
	maxAttempts int
	logger      zerolog.Logger
}

// New creates a reconciler sweeping at the given interval.
func New(
	recovery repository.RecoveryRepository,
	orders service.OrderService,
	interval time.Duration,
	batchSize int,
	maxAttempts int,
	logger zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		recovery:    recovery,
		orders:      orders,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		logger:      logger.With().Str("component", "reconciler").Logger(),
	}
}

// Run sweeps the recovery queue until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("reconciler started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("reconciler stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	records, err := r.recovery.Pending(ctx, r.batchSize, r.maxAttempts)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list pending recovery records")
		return
	}

	for _, record := range records {
		r.replay(ctx, record)
	}
}

func (r *Reconciler) replay(ctx context.Context, record model.RecoveryRecord) {
	var req model.CreateOrderRequest
	if err := json.Unmarshal(record.Payload, &req); err != nil {
		// The payload will never parse; count the attempt so the record
		// eventually ages out for manual review.
		r.logger.Error().Err(err).
			Str("payment_intent_id", record.PaymentIntentID).
			Msg("unreadable recovery payload")
		r.markAttempt(ctx, record)
		return
	}

	resp, err := r.orders.CreateOrder(ctx, &req)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("payment_intent_id", record.PaymentIntentID).
			Int("attempts", record.Attempts+1).
			Msg("order replay failed")
		r.markAttempt(ctx, record)
		return
	}

	if err := r.recovery.MarkResolved(ctx, record.ID); err != nil {
		r.logger.Error().Err(err).
			Str("payment_intent_id", record.PaymentIntentID).
			Msg("failed to resolve recovery record")
		return
	}

	r.logger.Info().
		Str("payment_intent_id", record.PaymentIntentID).
		Str("order_id", resp.OrderID.String()).
		Msg("recovered order")
}

func (r *Reconciler) markAttempt(ctx context.Context, record model.RecoveryRecord) {
	if err := r.recovery.MarkAttempt(ctx, record.ID); err != nil {
		r.logger.Error().Err(err).
			Str("payment_intent_id", record.PaymentIntentID).
			Msg("failed to record recovery attempt")
	}

	if record.Attempts+1 >= r.maxAttempts {
		r.logger.Error().
			Str("payment_intent_id", record.PaymentIntentID).
			Msg("recovery attempts exhausted, manual intervention required")
	}
}
