package email

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
)

// Sender delivers a plain-text message. Callers treat delivery as
// best-effort: a failed send is logged and never bubbles up into a
// request's outcome.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// LogSender writes the message to the log instead of delivering it.
// Used in development when no SMTP host is configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) Send(to, subject, body string) error {
	s.Logger.Info("email (log only)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// OrderConfirmation builds the post-checkout confirmation message.
func OrderConfirmation(order *models.Order) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order at Udari Crafts!\n\n", order.CustomerName)
	fmt.Fprintf(&b, "Order number: %s\n\n", order.OrderNumber)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "  %d x %s @ %s\n", it.Quantity, it.ProductName, it.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\nWe'll email you again when your order ships.\n", order.Total.StringFixed(2))
	return fmt.Sprintf("Order %s confirmed", order.OrderNumber), b.String()
}

// StatusUpdate builds the message sent after an admin status transition.
func StatusUpdate(order *models.Order) (subject, body string) {
	body = fmt.Sprintf(
		"Hi %s,\n\nYour order %s is now %q.\n\nThanks for shopping at Udari Crafts.\n",
		order.CustomerName, order.OrderNumber, order.Status,
	)
	return fmt.Sprintf("Order %s update", order.OrderNumber), body
}
