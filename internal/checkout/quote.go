package checkout

import (
	"joulaa/internal/config"
	"joulaa/internal/model"

	"github.com/shopspring/decimal"
)

// Quote is the priced view of a cart presented at checkout.
type Quote struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
}

// Pricer computes checkout totals. Shipping is a flat rate, waived when the
// subtotal exceeds the free-shipping threshold.
type Pricer struct {
	flatRate      decimal.Decimal
	freeThreshold decimal.Decimal
}

// NewPricer creates a pricer from shipping configuration.
func NewPricer(cfg config.ShippingConfig) Pricer {
	return Pricer{
		flatRate:      cfg.FlatRate,
		freeThreshold: cfg.FreeThreshold,
	}
}

// ShippingCost returns the flat rate, or zero when the subtotal is strictly
// greater than the free-shipping threshold.
func (p Pricer) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.freeThreshold) {
		return decimal.Zero
	}
	return p.flatRate
}

// QuoteItems prices a set of cart lines.
func (p Pricer) QuoteItems(items []model.CartItem) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	shipping := p.ShippingCost(subtotal)
	return Quote{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Total:        subtotal.Add(shipping),
	}
}
