package orders

import (
	"errors"
	"fmt"

	"github.com/udaricrafts/udari-crafts-golang/internal/models"
)

var (
	ErrEmptyOrder    = errors.New("order must contain at least one product")
	ErrMalformedLine = errors.New("each order line needs a product id and a positive quantity")
	ErrOrderNotFound = errors.New("order not found")

	ErrPaymentNotFound = errors.New("no payment record found for order")

	// ErrSessionMismatch means the presented session id differs from the one
	// already recorded for the order. Treated as a possible fraud signal and
	// never silently overwritten.
	ErrSessionMismatch = errors.New("payment session does not match the session recorded for this order")

	// ErrPaymentIncomplete is the read-only "not paid yet" outcome of
	// verification. The caller may retry later; nothing was mutated.
	ErrPaymentIncomplete = errors.New("payment has not been completed")
)

// ProductNotFoundError names the unknown product in an order request.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError reports exactly which product is short and by how
// much, both at order creation and at reactivation of a cancelled order.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d", e.Name, e.Available, e.Requested)
}

// InvalidTransitionError rejects status changes out of a terminal state.
type InvalidTransitionError struct {
	From, To models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", e.From, e.To)
}

// GatewayError wraps an upstream payment-provider failure so handlers can
// surface it as a 5xx instead of a client error.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return "payment gateway: " + e.Err.Error() }
func (e *GatewayError) Unwrap() error { return e.Err }
