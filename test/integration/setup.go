package integration

import (
	"context"
	"testing"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool with
// the order schema applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema mirrors the migrations in migrations/.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL DEFAULT '',
			first_name VARCHAR(100) NOT NULL DEFAULT '',
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			address VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			state VARCHAR(100) NOT NULL DEFAULT '',
			zip_code VARCHAR(20) NOT NULL DEFAULT '',
			country VARCHAR(100) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID,
			total_amount NUMERIC(12, 2) NOT NULL CHECK (total_amount >= 0),
			shipping_cost NUMERIC(12, 2) NOT NULL CHECK (shipping_cost >= 0),
			tax_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
			discount_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
			status VARCHAR(32) NOT NULL,
			payment_status VARCHAR(32) NOT NULL,
			shipping_address JSONB NOT NULL,
			billing_address JSONB NOT NULL,
			payment_intent_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS orders_payment_intent_id_key
			ON orders (payment_intent_id);

		CREATE INDEX IF NOT EXISTS orders_user_id_created_at_idx
			ON orders (user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
			product_id TEXT NOT NULL CHECK (product_id <> ''),
			product_name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(12, 2) NOT NULL CHECK (unit_price >= 0),
			cost_price NUMERIC(12, 2) NOT NULL DEFAULT 0,
			subtotal NUMERIC(12, 2) NOT NULL CHECK (subtotal = unit_price * quantity),
			color VARCHAR(100),
			shade VARCHAR(100),
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id);

		CREATE TABLE IF NOT EXISTS order_recovery (
			id UUID PRIMARY KEY,
			payment_intent_id TEXT NOT NULL UNIQUE,
			payload JSONB NOT NULL,
			attempts INT NOT NULL DEFAULT 0,
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS order_recovery_pending_idx
			ON order_recovery (created_at)
			WHERE resolved_at IS NULL;
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}
