// Package jobs holds the storefront's background jobs.
package jobs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/pkg/mail"
	"github.com/shashiranjanraj/electrostore/pkg/queue"
)

const OrderConfirmationName = "order.confirmation"

// Register makes every job decodable by the queue workers.
func Register(db *gorm.DB) {
	queue.Register(OrderConfirmationName, func() queue.Job {
		return &OrderConfirmation{orders: repositories.NewOrderRepository(db)}
	})
}

// OrderConfirmation emails the buyer a summary of a placed order.
type OrderConfirmation struct {
	OrderID uint `json:"order_id"`

	orders *repositories.OrderRepository
}

func NewOrderConfirmation(db *gorm.DB, orderID uint) *OrderConfirmation {
	return &OrderConfirmation{OrderID: orderID, orders: repositories.NewOrderRepository(db)}
}

func (j *OrderConfirmation) Name() string { return OrderConfirmationName }

func (j *OrderConfirmation) Handle(ctx context.Context) error {
	o, err := j.orders.FindByID(ctx, j.OrderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", j.OrderID, err)
	}
	msg, err := ConfirmationMessage(o)
	if err != nil {
		return err
	}
	return mail.Send(ctx, msg)
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<html>
<body>
<p>Dear {{.FirstName}},</p>
<p>Thank you for your order! Order #{{.ID}} has been placed.</p>
<table>
{{range .Items}}<tr><td>{{.ProductName}}</td><td>{{.Quantity}} × ${{.Price.StringFixed 2}}</td><td>${{with .TotalPrice}}{{.StringFixed 2}}{{end}}</td></tr>
{{end}}</table>
<p><strong>Total: ${{.TotalAmount.StringFixed 2}}</strong></p>
<p>Shipping to:<br>{{.ShippingAddress}}</p>
</body>
</html>`))

// ConfirmationMessage renders the email for o.
func ConfirmationMessage(o models.Order) (mail.Message, error) {
	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, o); err != nil {
		return mail.Message{}, fmt.Errorf("render confirmation: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Dear %s,\n\nThank you for your order! Order #%d has been placed.\n\n", o.FirstName, o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&text, "  %s  %d × $%s  $%s\n", it.ProductName, it.Quantity, it.Price.StringFixed(2), it.TotalPrice().StringFixed(2))
	}
	fmt.Fprintf(&text, "\nTotal: $%s\n\nShipping to:\n%s\n", o.TotalAmount.StringFixed(2), o.ShippingAddress)

	return mail.Message{
		To:      []string{o.Email},
		Subject: fmt.Sprintf("Order #%d confirmation", o.ID),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
