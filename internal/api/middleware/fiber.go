package middleware

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/config"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Recover converts handler panics into a structured 500 so no failure
// crosses the gateway boundary unshaped.
func Recover(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered",
					zap.Any("error", r),
					zap.String("path", c.Path()),
				)
				_ = c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
					Error:  models.MsgBackendDefault,
					Status: fiber.StatusInternalServerError,
				})
			}
		}()
		return c.Next()
	}
}

// RequestLogger logs every inbound request.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log.Info("Request received",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		return c.Next()
	}
}

// Cors applies the configured CORS policy and short-circuits preflights.
func Cors(cfg config.CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := cfg.AllowedOrigins
		if origin == "*" {
			if requestOrigin := c.Get(fiber.HeaderOrigin); requestOrigin != "" {
				origin = requestOrigin
			}
		}
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderAccessControlAllowMethods, cfg.AllowedMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, cfg.AllowedHeaders)
		c.Set(fiber.HeaderAccessControlAllowCredentials, "true")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusOK)
		}

		return c.Next()
	}
}

// ErrorHandler is the app-level fiber error handler; it keeps the response
// envelope uniform for errors raised by the framework itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:  err.Error(),
		Status: code,
	})
}
