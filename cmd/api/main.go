package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"joulaa/internal/checkout"
	"joulaa/internal/config"
	"joulaa/internal/database"
	"joulaa/internal/email"
	"joulaa/internal/events"
	"joulaa/internal/handler"
	"joulaa/internal/payment"
	"joulaa/internal/reconcile"
	"joulaa/internal/repository"
	"joulaa/internal/router"
	"joulaa/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Amounts serialise as JSON numbers, matching what the storefront sends.
	decimal.MarshalJSONWithoutQuotes = true

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting joulaa API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run pending schema migrations before taking traffic
	if err := database.Migrate(cfg.Database, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)
	recoveryRepo := repository.NewRecoveryRepository(pool, logger)

	// Payment collaborator
	gateway := payment.NewStripeGateway(cfg.Stripe, logger)

	// Transactional email; without an API key sends are logged and dropped
	var sender email.Sender
	if cfg.Email.APIKey != "" {
		sender = email.NewResendSender(cfg.Email, logger)
	} else {
		sender = email.NewLogSender(logger)
		logger.Info().Msg("email API key not set, outbound email disabled")
	}

	// Order event stream
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka, logger)
	} else {
		publisher = events.NopPublisher{}
		logger.Info().Msg("order event publishing disabled")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize services
	orderService := service.NewOrderService(
		orderRepo, profileRepo, recoveryRepo,
		gateway, sender, publisher,
		cfg.Stripe.Currency, logger,
	)
	checkoutService := service.NewCheckoutService(gateway, orderRepo, orderService, logger)

	// Replay orders whose payment was captured but whose write failed
	reconciler := reconcile.New(recoveryRepo, orderService, 30*time.Second, 10, 5, logger)
	go reconciler.Run(ctx)

	// Initialize HTTP handlers
	paymentHandler := handler.NewPaymentHandler(checkoutService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	emailHandler := handler.NewEmailHandler(sender, logger)
	quoteHandler := handler.NewQuoteHandler(checkout.NewPricer(cfg.Shipping), logger)

	// Initialize router
	mux := router.New(paymentHandler, orderHandler, emailHandler, quoteHandler, cfg.Auth.AdminAPIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
