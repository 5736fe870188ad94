package model

import "github.com/shopspring/decimal"

// VariantKey identifies a cart line. Two selections of the same product with
// different colour or shade are distinct lines.
type VariantKey struct {
	ProductID string
	Color     string
	Shade     string
}

// CartItem is one line of a shopper's cart. Price and discount are
// snapshotted from the product at add-to-cart time; discount is a fraction
// in [0,1] of the unit price.
type CartItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"selectedColor,omitempty"`
	Shade     string          `json:"selectedShade,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`

	// CostPrice is the true unit cost when the caller knows it. When nil the
	// order service falls back to a margin-estimation approximation.
	CostPrice *decimal.Decimal `json:"costPrice,omitempty"`
}

// Key returns the identity of this line for merge and removal purposes.
func (i CartItem) Key() VariantKey {
	return VariantKey{ProductID: i.ProductID, Color: i.Color, Shade: i.Shade}
}

// UnitPrice is the discounted price actually charged per unit, rounded to
// cents. Negative prices and discounts outside [0,1] are treated as zero.
func (i CartItem) UnitPrice() decimal.Decimal {
	price := i.Price
	if price.IsNegative() {
		price = decimal.Zero
	}

	discount := i.Discount
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(1)) {
		discount = decimal.Zero
	}

	return price.Mul(decimal.NewFromInt(1).Sub(discount)).Round(2)
}

// LineTotal is the discounted unit price multiplied by the quantity.
// A non-positive quantity contributes nothing.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Quantity <= 0 {
		return decimal.Zero
	}
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}
