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

type orderRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `id, user_id, total_amount, shipping_cost, tax_amount, discount_amount,
		status, payment_status, shipping_address, billing_address, payment_intent_id,
		created_at, updated_at`

const orderItemColumns = `id, order_id, product_id, product_name, quantity, unit_price,
		cost_price, subtotal, color, shade, image_url`

func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, total_amount, shipping_cost, tax_amount, discount_amount,
			status, payment_status, shipping_address, billing_address, payment_intent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := tx.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.ShippingCost,
		order.TaxAmount,
		order.DiscountAmount,
		order.Status,
		order.PaymentStatus,
		order.ShippingAddress,
		order.BillingAddress,
		order.PaymentIntentID,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price,
			cost_price, subtotal, color, shade, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.CostPrice,
			item.Subtotal,
			item.Color,
			item.Shade,
			item.ImageURL,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := r.scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.itemsForOrder(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

func (r *orderRepository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, []model.OrderItem, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_intent_id = $1`

	order, err := r.scanOrder(r.db.QueryRow(ctx, query, paymentIntentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get order by payment reference: %w", err)
	}

	items, err := r.itemsForOrder(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

func (r *orderRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderWithItems, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.OrderWithItems
	var orderIDs []uuid.UUID
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, model.OrderWithItems{Order: *order})
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if len(orders) == 0 {
		return []model.OrderWithItems{}, nil
	}

	itemQuery := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = ANY($1) ORDER BY created_at`

	itemRows, err := r.db.Query(ctx, itemQuery, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer itemRows.Close()

	byOrder := make(map[uuid.UUID][]model.OrderItem, len(orders))
	for itemRows.Next() {
		item, err := scanOrderItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		byOrder[item.OrderID] = append(byOrder[item.OrderID], *item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	for i := range orders {
		orders[i].Items = byOrder[orders[i].Order.ID]
	}

	return orders, nil
}

func (r *orderRepository) GetAll(ctx context.Context) ([]model.AdminOrder, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.shipping_cost, o.tax_amount, o.discount_amount,
			o.status, o.payment_status, o.shipping_address, o.billing_address, o.payment_intent_id,
			o.created_at, o.updated_at,
			p.email, p.first_name, p.last_name
		FROM orders o
		LEFT JOIN profiles p ON p.id = o.user_id
		ORDER BY o.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all orders: %w", err)
	}
	defer rows.Close()

	var orders []model.AdminOrder
	for rows.Next() {
		var order model.Order
		var email, firstName, lastName *string
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TotalAmount,
			&order.ShippingCost,
			&order.TaxAmount,
			&order.DiscountAmount,
			&order.Status,
			&order.PaymentStatus,
			&order.ShippingAddress,
			&order.BillingAddress,
			&order.PaymentIntentID,
			&order.CreatedAt,
			&order.UpdatedAt,
			&email,
			&firstName,
			&lastName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		admin := model.AdminOrder{Order: order}
		if email != nil {
			admin.Purchaser = &model.Purchaser{Email: *email}
			if firstName != nil {
				admin.Purchaser.FirstName = *firstName
			}
			if lastName != nil {
				admin.Purchaser.LastName = *lastName
			}
		}
		orders = append(orders, admin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if orders == nil {
		orders = []model.AdminOrder{}
	}

	return orders, nil
}

func (r *orderRepository) itemsForOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.ShippingCost,
		&order.TaxAmount,
		&order.DiscountAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.ShippingAddress,
		&order.BillingAddress,
		&order.PaymentIntentID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func scanOrderItem(row pgx.Row) (*model.OrderItem, error) {
	var item model.OrderItem
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.ProductName,
		&item.Quantity,
		&item.UnitPrice,
		&item.CostPrice,
		&item.Subtotal,
		&item.Color,
		&item.Shade,
		&item.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
