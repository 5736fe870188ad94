package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"joulaa/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Product is the snapshot of catalog data taken when an item is added. The
// catalog itself is an external collaborator; the cart only ever sees this
// projection.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Discount decimal.Decimal
	ImageURL string
}

// Cart is the working set of items a shopper intends to buy. Lines are keyed
// by (product id, color, shade); every mutation persists the full snapshot
// to the SnapshotStore.
type Cart struct {
	mu        sync.Mutex
	items     []model.CartItem
	store     SnapshotStore
	sessionID string
	logger    zerolog.Logger
}

// New builds a cart for the session, restoring a prior snapshot if one
// exists. A corrupt snapshot is discarded with a log line; the shopper
// starts with an empty cart.
func New(ctx context.Context, store SnapshotStore, sessionID string, logger zerolog.Logger) *Cart {
	c := &Cart{
		store:     store,
		sessionID: sessionID,
		logger:    logger.With().Str("component", "cart").Str("session_id", sessionID).Logger(),
	}

	data, err := store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			c.logger.Warn().Err(err).Msg("failed to load cart snapshot")
		}
		return c
	}

	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Error().Err(err).Msg("discarding corrupt cart snapshot")
		return c
	}
	c.items = items

	return c
}

// Items returns a copy of the current cart lines.
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// AddItem merges the product into the cart. An existing line with the same
// (product id, color, shade) key has its quantity incremented; otherwise a
// new line is appended with price and discount snapshotted from the product.
// A non-positive quantity is treated as 1.
func (c *Cart) AddItem(ctx context.Context, product Product, quantity int, color, shade string) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := model.VariantKey{ProductID: product.ID, Color: color, Shade: shade}
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity += quantity
			return c.persist(ctx)
		}
	}

	c.items = append(c.items, model.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Discount:  product.Discount,
		Quantity:  quantity,
		Color:     color,
		Shade:     shade,
		ImageURL:  product.ImageURL,
	})

	return c.persist(ctx)
}

// RemoveItem removes the line matching the full variant key. Removal is
// keyed by (product id, color, shade) so removing one shade of a product
// leaves the shopper's other shades untouched.
func (c *Cart) RemoveItem(ctx context.Context, key model.VariantKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, item := range c.items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	c.items = kept

	return c.persist(ctx)
}

// UpdateQuantity sets the quantity of the matching line. Quantities below 1
// are a no-op.
func (c *Cart) UpdateQuantity(ctx context.Context, key model.VariantKey, quantity int) error {
	if quantity < 1 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity = quantity
			return c.persist(ctx)
		}
	}

	return nil
}

// Clear empties the cart; called once, after order creation succeeds.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	if err := c.store.Delete(ctx, c.sessionID); err != nil {
		return fmt.Errorf("failed to clear cart snapshot: %w", err)
	}
	return nil
}

// Total sums price x (1 - discount) x quantity over all lines, with
// negative values treated as zero.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// persist writes the full snapshot; callers hold the mutex.
func (c *Cart) persist(ctx context.Context) error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	if err := c.store.Save(ctx, c.sessionID, data); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}
