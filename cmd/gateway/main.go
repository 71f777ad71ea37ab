package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/analytics"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/api/middleware"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/api/router"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/config"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/loggers"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/ops"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := loggers.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting quantjump gateway",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.Origin),
	)

	// Backend gateway client
	client := gateway.NewClient(cfg, log)

	// Analytics funnel recorder
	recorder := analytics.NewRecorder(
		analytics.NewFileStore(cfg.Analytics.StorePath),
		cfg.Analytics.FunnelSteps,
		cfg.Analytics.Capacity,
		log,
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "QuantJump Gateway",
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	router.SetupRouter(app, cfg, log, client, recorder)

	// Internal ops surface on its own listener
	var opsServer *ops.Server
	if cfg.Ops.Enabled {
		opsServer = ops.NewServer(cfg.Ops.Addr, client, recorder, log)
		opsServer.Start()
	}

	// Start server in a goroutine
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	go func() {
		log.Info("Server starting", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if opsServer != nil {
		if err := opsServer.Shutdown(ctx); err != nil {
			log.Error("Ops server shutdown error", zap.Error(err))
		}
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatal("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
}
