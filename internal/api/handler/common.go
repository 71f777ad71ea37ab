// Package handler contains the proxy route handlers: one per resource, each
// translating one inbound request into exactly one backend call and one
// normalized response.
package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/config"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Base carries the shared dependencies of every resource handler.
type Base struct {
	cfg    *config.Config
	client *gateway.Client
	logger *zap.Logger
}

func NewBase(cfg *config.Config, client *gateway.Client, log *zap.Logger) *Base {
	return &Base{cfg: cfg, client: client, logger: log}
}

// forwardedHeaders copies the named inbound headers, when present, into an
// outbound header set. Each handler passes its own allow-list.
func forwardedHeaders(c *fiber.Ctx, names ...string) http.Header {
	h := http.Header{}
	for _, name := range names {
		if value := c.Get(name); value != "" {
			h.Set(name, value)
		}
	}
	return h
}

// queryValues passes the inbound query string through verbatim.
func queryValues(c *fiber.Ctx) url.Values {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return nil
	}
	return values
}

// parseBody decodes the inbound JSON body into dst. A malformed body is a
// client error: no backend call is made.
func parseBody(c *fiber.Ctx, dst interface{}) bool {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return false
	}
	return true
}

// proxy executes one backend call and writes the normalized response. The
// optional transform reshapes a 2xx payload before it is enveloped.
func (h *Base) proxy(c *fiber.Ctx, call gateway.Call, transform func(interface{}) interface{}) error {
	resp, err := h.client.Do(c.UserContext(), call)
	if err != nil {
		return h.writeFailure(c, err)
	}
	if !resp.OK() {
		return c.Status(resp.StatusCode).JSON(models.ErrorResponse{
			Error:  gateway.DecodeErrorMessage(resp.Body, models.MsgBackendDefault),
			Status: resp.StatusCode,
		})
	}

	data := gateway.DecodeData(resp.Body)
	if transform != nil {
		data = transform(data)
	}
	return c.Status(resp.StatusCode).JSON(models.SuccessResponse{
		Data:   data,
		Status: resp.StatusCode,
	})
}

// writeFailure maps a transport failure onto the uniform policy:
// timeout -> 504, anything else -> 503.
func (h *Base) writeFailure(c *fiber.Ctx, err error) error {
	if gateway.IsTimeout(err) {
		return c.Status(fiber.StatusGatewayTimeout).JSON(models.ErrorResponse{
			Error:  models.MsgBackendTimeout,
			Status: fiber.StatusGatewayTimeout,
		})
	}
	h.logger.Warn("Backend unreachable", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
		Error:  models.MsgBackendUnreachable,
		Status: fiber.StatusServiceUnavailable,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error:  message,
		Status: fiber.StatusBadRequest,
	})
}

// objectTransform lifts a map-shaped normalizer to the generic payload type,
// leaving non-object payloads untouched.
func objectTransform(fn func(map[string]interface{}) map[string]interface{}) func(interface{}) interface{} {
	return func(data interface{}) interface{} {
		if obj, ok := data.(map[string]interface{}); ok {
			return fn(obj)
		}
		return data
	}
}

// listTransform applies a map-shaped normalizer to each element of a
// list-shaped payload.
func listTransform(fn func(map[string]interface{}) map[string]interface{}) func(interface{}) interface{} {
	return func(data interface{}) interface{} {
		items, ok := data.([]interface{})
		if !ok {
			return data
		}
		for i, item := range items {
			if obj, ok := item.(map[string]interface{}); ok {
				items[i] = fn(obj)
			}
		}
		return items
	}
}

func (h *Base) defaultTimeout() time.Duration {
	return h.cfg.Backend.Timeout
}
