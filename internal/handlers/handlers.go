package handlers

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/udaricrafts/udari-crafts-golang/internal/auth"
	"github.com/udaricrafts/udari-crafts-golang/internal/orders"
	"github.com/udaricrafts/udari-crafts-golang/internal/payments"
)

// Handlers holds every dependency the HTTP layer needs. All of them are
// constructed in main() and injected here; nothing is global.
type Handlers struct {
	DB     *sql.DB
	Logger *zap.Logger
	Orders *orders.Service

	Card   payments.Gateway         // hosted checkout (card)
	Wallet *payments.JazzCashClient // mobile wallet

	Tokens *auth.Tokens

	// Redirect targets for hosted checkout sessions.
	CheckoutSuccessURL string
	CheckoutCancelURL  string
}
