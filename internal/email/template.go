package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// OrderConfirmationItem is one purchased line shown in the confirmation email.
type OrderConfirmationItem struct {
	Name     string
	Quantity int
	Price    string
}

// OrderConfirmationData fills the order confirmation template.
type OrderConfirmationData struct {
	UserName   string
	OrderID    string
	OrderDate  string
	OrderTotal string
	Items      []OrderConfirmationItem
}

var orderConfirmationTmpl = template.Must(template.New("order-confirmation").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Order Confirmation</title>
  <style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; background-color: #f9f9f9; }
    .email-container { max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden; }
    .email-header { background: linear-gradient(135deg, #ff7eb3 0%, #ff758c 100%); padding: 30px 20px; text-align: center; }
    .email-header h1 { color: white; margin: 0; font-size: 28px; font-weight: 700; }
    .email-body { padding: 30px 20px; }
    .order-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    .order-table th, .order-table td { padding: 10px; border-bottom: 1px solid #eee; text-align: left; }
    .order-total { font-size: 18px; font-weight: bold; text-align: right; }
    .email-footer { background-color: #f5f5f5; padding: 20px; text-align: center; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="email-container">
    <div class="email-header">
      <h1>Joulaa</h1>
    </div>
    <div class="email-body">
      <p>Hi {{.UserName}},</p>
      <p>Thank you for your order! We're getting it ready for you.</p>
      <p>Order <strong>{{.OrderID}}</strong> placed on {{.OrderDate}}.</p>
      <table class="order-table">
        <tr><th>Item</th><th>Qty</th><th>Price</th></tr>
        {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td></tr>
        {{end}}
      </table>
      <p class="order-total">Total: {{.OrderTotal}}</p>
    </div>
    <div class="email-footer">
      <p>Joulaa &middot; This is an automated message, please do not reply.</p>
    </div>
  </div>
</body>
</html>`))

// RenderOrderConfirmation renders the order confirmation HTML body.
func RenderOrderConfirmation(data OrderConfirmationData) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render order confirmation: %w", err)
	}
	return buf.String(), nil
}
