package config

import (
	"os"
	"strconv"
)

// Config holds everything the API reads from the environment.
// main() loads a .env file first (if present), so local development
// only needs a .env next to the binary.
type Config struct {
	HTTPAddr string
	DBDSN    string

	JWTSecret string

	AllowedOrigin string

	// Hosted checkout (card payments).
	StripeSecretKey    string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	// Wallet payments.
	JazzCash JazzCashConfig

	SMTP SMTPConfig
}

// JazzCashConfig carries the merchant credentials for the wallet gateway.
type JazzCashConfig struct {
	MerchantID    string
	Password      string
	IntegritySalt string
	Endpoint      string
	ReturnURL     string
}

// SMTPConfig configures the outbound mailer. An empty Host disables
// real delivery and falls back to the logging sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func Load() Config {
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		DBDSN:              getenv("DB_DSN", "root:secret@tcp(127.0.0.1:3306)/udari_crafts?parseTime=true"),
		JWTSecret:          getenv("JWT_SECRET", "change-me-in-production"),
		AllowedOrigin:      getenv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		StripeSecretKey:    getenv("STRIPE_SECRET_KEY", ""),
		CheckoutSuccessURL: getenv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/payment-success"),
		CheckoutCancelURL:  getenv("CHECKOUT_CANCEL_URL", "http://localhost:5173/payment-cancelled"),
		JazzCash: JazzCashConfig{
			MerchantID:    getenv("JAZZCASH_MERCHANT_ID", ""),
			Password:      getenv("JAZZCASH_PASSWORD", ""),
			IntegritySalt: getenv("JAZZCASH_INTEGRITY_SALT", ""),
			Endpoint:      getenv("JAZZCASH_ENDPOINT", "https://sandbox.jazzcash.com.pk/ApplicationAPI/API/2.0/Purchase/DoMWalletTransaction"),
			ReturnURL:     getenv("JAZZCASH_RETURN_URL", "http://localhost:5173/payment-success"),
		},
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", ""),
			Port:     getenvInt("SMTP_PORT", 587),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("SMTP_FROM", "orders@udaricrafts.com"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
