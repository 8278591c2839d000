package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"craft-store/internal/cache"
	"craft-store/internal/client"
	"craft-store/internal/config"
	"craft-store/internal/logging"
	"craft-store/internal/repository"
	"craft-store/internal/server"
	"craft-store/internal/service"
	"craft-store/internal/webhook"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewSugaredLogger(cfg)
	defer logger.Sync()

	db := client.InitSqliteClient(cfg.DatabaseURL)
	paypalClient := client.NewPaypalClient(&cfg.Paypal)

	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	crafterRepo := repository.NewCrafterRepository(db)
	cartRepo := repository.NewCartRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	orderCache := cache.NewOrderViewCache(5 * time.Minute)

	authService := service.NewAuthService(db, userRepo, &cfg.Auth)
	catalogService := service.NewCatalogService(productRepo, crafterRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(db, paypalClient, cfg.BaseURL, orderRepo, cartRepo, productRepo, orderCache)
	paymentService := service.NewPaymentService(
		db, logger, paypalClient,
		webhook.NewPaystackVerifier(cfg.Paystack.SecretKey),
		webhook.NewYocoVerifier(cfg.Yoco.WebhookSecret),
		orderRepo, webhookEventRepo, orderCache,
		service.NoopStockAdjuster{}, service.NoopReceiptNotifier{},
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(logger, authService, paymentService, catalogService, cartService, orderService)

	logger.Infow("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("HTTP server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		logger.Fatalw("HTTP server shutdown error", "error", err)
	}
}
