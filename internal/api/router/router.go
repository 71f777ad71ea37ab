package router

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/analytics"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/api/handler"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/api/middleware"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/config"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SetupRouter wires middleware and all proxy routes onto the fiber app.
func SetupRouter(app *fiber.App, cfg *config.Config, log *zap.Logger, client *gateway.Client, recorder *analytics.Recorder) {
	app.Use(middleware.Recover(log))
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Cors(cfg.CORS))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewIPRateLimiter(
			rate.Limit(cfg.RateLimit.RequestsPerSecond),
			cfg.RateLimit.BurstSize,
		)
		app.Use(middleware.Limit(limiter))
	}

	base := handler.NewBase(cfg, client, log)
	authH := handler.NewAuthHandler(base)
	backtestH := handler.NewBacktestHandler(base)
	predictionH := handler.NewPredictionHandler(base)
	strategyH := handler.NewStrategyHandler(base)
	notificationH := handler.NewNotificationHandler(base)
	paymentH := handler.NewPaymentHandler(base)
	userH := handler.NewUserHandler(base)
	analyticsH := handler.NewAnalyticsHandler(recorder)
	healthH := handler.NewHealthHandler(log)
	streamH := handler.NewNotificationStream(cfg, client, log)

	app.Get("/health", healthH.Health)

	api := app.Group("/api")

	// Public routes: marketing-facing browsing and the auth entry points.
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/signup", authH.Signup)
	api.Post("/auth/oauth/:provider", authH.OAuthExchange)
	api.Get("/predictions", predictionH.List)
	api.Get("/predictions/stats", predictionH.Stats)
	api.Get("/predictions/:symbol", predictionH.Detail)
	api.Get("/strategies", strategyH.List)
	api.Get("/strategies/:id", strategyH.Detail)
	api.Post("/analytics/track", analyticsH.Track)
	api.Get("/analytics/funnel", analyticsH.Funnel)
	api.Delete("/analytics/events", analyticsH.Reset)

	// User-scoped routes: Authorization is required before any backend call.
	protected := api.Group("", middleware.RequireAuth(log))
	if cfg.JWT.SecretKey != "" {
		// Signature verification is opt-in: in deployments sharing the
		// backend's signing key the gateway rejects forged tokens itself.
		protected.Use(jwtware.New(jwtware.Config{
			SigningKey: []byte(cfg.JWT.SecretKey),
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
					Error:  models.MsgAuthRequired,
					Status: fiber.StatusUnauthorized,
				})
			},
		}))
	}

	protected.Post("/auth/logout", authH.Logout)
	protected.Get("/auth/me", authH.Me)
	protected.Get("/backtests", backtestH.List)
	protected.Post("/backtests/run", backtestH.Run)
	protected.Get("/backtests/:id", backtestH.Detail)
	protected.Post("/strategies/:id/subscribe", strategyH.Subscribe)
	protected.Delete("/strategies/:id/subscribe", strategyH.Unsubscribe)
	protected.Get("/subscriptions", strategyH.Subscriptions)
	protected.Get("/notifications", notificationH.List)
	protected.Get("/notifications/unread-count", notificationH.UnreadCount)
	protected.Post("/notifications/read-all", notificationH.MarkAllRead)
	protected.Post("/notifications/:id/read", notificationH.MarkRead)
	protected.Get("/users/me", userH.Profile)
	protected.Get("/users/me/preferences", userH.Preferences)
	protected.Put("/users/me/preferences", userH.UpdatePreferences)
	protected.Post("/payments/kakao/ready", paymentH.KakaoReady)
	protected.Get("/payments/kakao/approve", paymentH.KakaoApprove)
	protected.Post("/payments/toss/confirm", paymentH.TossConfirm)

	app.Get("/ws/notifications", streamH.Handle)

	// 404 for anything undefined.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "route not found",
			"path":  c.Path(),
		})
	})
}
