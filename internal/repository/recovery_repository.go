package repository

import (
	"context"
	"fmt"

	"joulaa/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type recoveryRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewRecoveryRepository creates a new PostgreSQL-backed recovery queue.
func NewRecoveryRepository(db *pgxpool.Pool, logger zerolog.Logger) RecoveryRepository {
	return &recoveryRepository{
		db:     db,
		logger: logger.With().Str("repository", "recovery").Logger(),
	}
}

func (r *recoveryRepository) Enqueue(ctx context.Context, paymentIntentID string, payload []byte) error {
	query := `
		INSERT INTO order_recovery (id, payment_intent_id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (payment_intent_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, uuid.New(), paymentIntentID, payload)
	if err != nil {
		return fmt.Errorf("failed to enqueue recovery record: %w", err)
	}

	return nil
}

func (r *recoveryRepository) Pending(ctx context.Context, limit, maxAttempts int) ([]model.RecoveryRecord, error) {
	query := `
		SELECT id, payment_intent_id, payload, attempts, created_at
		FROM order_recovery
		WHERE resolved_at IS NULL AND attempts < $1
		ORDER BY created_at
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending recovery records: %w", err)
	}
	defer rows.Close()

	var records []model.RecoveryRecord
	for rows.Next() {
		var record model.RecoveryRecord
		err := rows.Scan(
			&record.ID,
			&record.PaymentIntentID,
			&record.Payload,
			&record.Attempts,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recovery record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recovery records: %w", err)
	}

	return records, nil
}

func (r *recoveryRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE order_recovery SET resolved_at = CURRENT_TIMESTAMP WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to resolve recovery record: %w", err)
	}

	return nil
}

func (r *recoveryRepository) MarkAttempt(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE order_recovery SET attempts = attempts + 1 WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to record recovery attempt: %w", err)
	}

	return nil
}
