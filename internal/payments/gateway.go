package payments

import "context"

// SessionStatus is the gateway's answer when asked about a checkout session.
type SessionStatus string

const (
	SessionPaid   SessionStatus = "paid"
	SessionUnpaid SessionStatus = "unpaid"
)

// LineItem is one purchasable line sent to the hosted checkout page.
// UnitAmount is in the smallest currency unit (cents/paisa).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionRequest describes the hosted checkout session to create.
type SessionRequest struct {
	OrderNumber string
	Items       []LineItem
	SuccessURL  string
	CancelURL   string
}

// Session is the created checkout session; ID is later used for
// verification and URL is where the customer gets redirected.
type Session struct {
	ID  string
	URL string
}

// Gateway is the hosted-checkout contract the order flow depends on.
// Clients are constructed explicitly and injected, never global, so
// tests can substitute a double.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetSessionStatus(ctx context.Context, sessionID string) (SessionStatus, error)
}
