package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/udaricrafts/udari-crafts-golang/internal/auth"
	"github.com/udaricrafts/udari-crafts-golang/internal/config"
	"github.com/udaricrafts/udari-crafts-golang/internal/database"
	"github.com/udaricrafts/udari-crafts-golang/internal/email"
	"github.com/udaricrafts/udari-crafts-golang/internal/handlers"
	"github.com/udaricrafts/udari-crafts-golang/internal/orders"
	"github.com/udaricrafts/udari-crafts-golang/internal/payments"
	"github.com/udaricrafts/udari-crafts-golang/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: no .env file found, relying on system environment variables")
	}

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.OpenDB(cfg.DBDSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database connection pool established")

	// Gateways and mailer are constructed here and injected; nothing in the
	// request path touches package-level state.
	card := payments.NewStripeGateway(cfg.StripeSecretKey)
	wallet := payments.NewJazzCashClient(
		cfg.JazzCash.MerchantID, cfg.JazzCash.Password, cfg.JazzCash.IntegritySalt,
		cfg.JazzCash.Endpoint, cfg.JazzCash.ReturnURL,
	)

	var mailer email.Sender
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		logger.Warn("SMTP_HOST not set, emails will be logged instead of sent")
		mailer = &email.LogSender{Logger: logger}
	}

	app := &handlers.Handlers{
		DB:                 db,
		Logger:             logger,
		Orders:             orders.NewService(db, logger, mailer, card),
		Card:               card,
		Wallet:             wallet,
		Tokens:             auth.NewTokens(cfg.JWTSecret),
		CheckoutSuccessURL: cfg.CheckoutSuccessURL,
		CheckoutCancelURL:  cfg.CheckoutCancelURL,
	}

	router := routes.SetupRouter(app, cfg.AllowedOrigin)

	logger.Info("starting Udari Crafts API", zap.String("addr", cfg.HTTPAddr))
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
