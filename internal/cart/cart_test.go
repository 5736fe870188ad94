package cart

import (
	"context"
	"testing"

	"joulaa/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProduct(id string, price, discount string) Product {
	return Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    dec(price),
		Discount: dec(discount),
		ImageURL: "https://cdn.example.com/" + id + ".jpg",
	}
}

func newTestCart(t *testing.T) (*Cart, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New(context.Background(), store, "session-1", zerolog.Nop()), store
}

func TestCart_AddItem_MergesByVariantKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0.1"), 1, "red", ""))
	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0.1"), 2, "red", ""))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCart_AddItem_DifferentVariantIsNewLine(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0"), 1, "red", ""))
	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0"), 1, "pink", ""))
	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0"), 1, "red", "matte"))

	assert.Len(t, c.Items(), 3)
}

func TestCart_AddItem_NonPositiveQuantityDefaultsToOne(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, testProduct("P1", "10", "0"), 0, "", ""))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCart_RemoveItem_KeyedByFullVariant(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0"), 1, "red", ""))
	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0"), 1, "pink", ""))

	require.NoError(t, c.RemoveItem(ctx, model.VariantKey{ProductID: "P1", Color: "red"}))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "pink", items[0].Color)
}

func TestCart_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCart(t)

	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0"), 2, "", ""))
	key := model.VariantKey{ProductID: "P1"}

	require.NoError(t, c.UpdateQuantity(ctx, key, 5))
	assert.Equal(t, 5, c.Items()[0].Quantity)

	// Below 1 is a no-op, not a removal.
	require.NoError(t, c.UpdateQuantity(ctx, key, 0))
	assert.Equal(t, 5, c.Items()[0].Quantity)

	require.NoError(t, c.UpdateQuantity(ctx, key, -3))
	assert.Equal(t, 5, c.Items()[0].Quantity)
}

func TestCart_Total(t *testing.T) {
	tests := []struct {
		name     string
		add      func(ctx context.Context, c *Cart)
		expected string
	}{
		{
			name:     "empty cart",
			add:      func(ctx context.Context, c *Cart) {},
			expected: "0",
		},
		{
			name: "discounted line",
			add: func(ctx context.Context, c *Cart) {
				// 100 x (1 - 0.1) x 2 = 180.00
				_ = c.AddItem(ctx, testProduct("P1", "100", "0.1"), 2, "", "")
			},
			expected: "180",
		},
		{
			name: "mixed lines",
			add: func(ctx context.Context, c *Cart) {
				_ = c.AddItem(ctx, testProduct("P1", "100", "0.1"), 2, "", "")
				_ = c.AddItem(ctx, testProduct("P2", "19.99", "0"), 1, "", "")
			},
			expected: "199.99",
		},
		{
			name: "negative price treated as zero",
			add: func(ctx context.Context, c *Cart) {
				_ = c.AddItem(ctx, testProduct("P1", "-5", "0"), 2, "", "")
				_ = c.AddItem(ctx, testProduct("P2", "10", "0"), 1, "", "")
			},
			expected: "10",
		},
		{
			name: "discount above one treated as zero",
			add: func(ctx context.Context, c *Cart) {
				_ = c.AddItem(ctx, testProduct("P1", "10", "1.5"), 1, "", "")
			},
			expected: "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c, _ := newTestCart(t)
			tt.add(ctx, c)
			assert.True(t, c.Total().Equal(dec(tt.expected)),
				"expected %s, got %s", tt.expected, c.Total())
		})
	}
}

func TestCart_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	c := New(ctx, store, "session-1", zerolog.Nop())
	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0.1"), 2, "red", ""))

	// A new cart for the same session restores the snapshot.
	restored := New(ctx, store, "session-1", zerolog.Nop())
	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, restored.Total().Equal(dec("180")))

	// Other sessions are unaffected.
	other := New(ctx, store, "session-2", zerolog.Nop())
	assert.Empty(t, other.Items())
}

func TestCart_CorruptSnapshotDiscarded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "session-1", []byte("{not json")))

	c := New(ctx, store, "session-1", zerolog.Nop())
	assert.Empty(t, c.Items())
}

func TestCart_ClearEmptiesCartAndSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	c := New(ctx, store, "session-1", zerolog.Nop())
	require.NoError(t, c.AddItem(ctx, testProduct("P1", "100", "0"), 1, "", ""))
	require.NoError(t, c.Clear(ctx))

	assert.Empty(t, c.Items())
	_, err := store.Load(ctx, "session-1")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
