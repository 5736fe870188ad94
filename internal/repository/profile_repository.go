package repository

import (
	"context"
	"fmt"

	"joulaa/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type profileRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(db *pgxpool.Pool, logger zerolog.Logger) ProfileRepository {
	return &profileRepository{
		db:     db,
		logger: logger.With().Str("repository", "profile").Logger(),
	}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT id, email, first_name, last_name, address, city, state, zip_code, country, phone
		FROM profiles
		WHERE id = $1`

	var profile model.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FirstName,
		&profile.LastName,
		&profile.Address,
		&profile.City,
		&profile.State,
		&profile.ZipCode,
		&profile.Country,
		&profile.Phone,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) SaveShippingAddress(ctx context.Context, id uuid.UUID, details model.ShippingDetails) error {
	query := `
		INSERT INTO profiles (id, email, first_name, last_name, address, city, state, zip_code, country, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			country = EXCLUDED.country,
			phone = EXCLUDED.phone`

	_, err := r.db.Exec(ctx, query,
		id,
		details.Email,
		details.FirstName,
		details.LastName,
		details.Address,
		details.City,
		details.State,
		details.PostalCode,
		details.Country,
		details.Phone,
	)
	if err != nil {
		return fmt.Errorf("failed to save shipping address: %w", err)
	}

	return nil
}
