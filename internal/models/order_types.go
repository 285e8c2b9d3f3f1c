package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order states. Status drives stock
// compensation in the order service, so raw strings are never compared
// there; everything goes through ParseOrderStatus first.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus validates a status string coming off the wire.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Terminal reports whether no further transitions are allowed.
// Delivered orders are closed; cancelled orders can be reactivated.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered
}

// CanTransitionTo reports whether the status change is allowed at all.
// Whether it carries a stock side effect is the order service's concern.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if s == to {
		return true
	}
	return !s.Terminal()
}

// PaymentStatus is the closed set of payment states.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// Order is the model for the 'orders' table.
type Order struct {
	ID            int64           `json:"id" db:"id"`
	OrderNumber   string          `json:"orderNumber" db:"order_number"` // opaque token (UUID)
	CustomerName  string          `json:"customerName" db:"customer_name"`
	CustomerEmail string          `json:"customerEmail" db:"customer_email"`
	CustomerPhone string          `json:"customerPhone" db:"customer_phone"`
	Address       string          `json:"address" db:"address"`
	Total         decimal.Decimal `json:"total" db:"total"`
	Status        OrderStatus     `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`

	// Joins (populated manually)
	Items    []OrderItem     `json:"items,omitempty" db:"-"`
	Payments []PaymentDetail `json:"payments,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table. ProductName and
// UnitPrice are snapshots taken at purchase time so later product edits
// don't rewrite order history.
type OrderItem struct {
	ID          int64           `json:"id" db:"id"`
	OrderID     int64           `json:"orderId" db:"order_id"`
	ProductID   int64           `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// PaymentDetail is the model for the 'payment_details' table. The schema
// allows several rows per order but the flow keeps a single active record;
// TransactionID holds the external session/transaction reference once the
// gateway confirms it.
type PaymentDetail struct {
	ID            int64           `json:"id" db:"id"`
	OrderID       int64           `json:"orderId" db:"order_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentType   string          `json:"paymentType" db:"payment_type"` // card | wallet
	Status        PaymentStatus   `json:"status" db:"status"`
	TransactionID string          `json:"transactionId,omitempty" db:"transaction_id"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}
