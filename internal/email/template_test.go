package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderConfirmation(t *testing.T) {
	html, err := RenderOrderConfirmation(OrderConfirmationData{
		UserName:   "Leila",
		OrderID:    "5f7c7a4e-721e-4f46-b9a4-5d4e3c2b1a00",
		OrderDate:  "8/30/2026",
		OrderTotal: "AED 185.99",
		Items: []OrderConfirmationItem{
			{Name: "Velvet Matte Lipstick", Quantity: 2, Price: "AED 90.00"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Leila,")
	assert.Contains(t, html, "5f7c7a4e-721e-4f46-b9a4-5d4e3c2b1a00")
	assert.Contains(t, html, "Velvet Matte Lipstick")
	assert.Contains(t, html, "AED 185.99")
}

func TestRenderOrderConfirmation_EscapesHTML(t *testing.T) {
	html, err := RenderOrderConfirmation(OrderConfirmationData{
		UserName: "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}
