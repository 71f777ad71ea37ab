package handler

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/normalize"

	"github.com/gofiber/fiber/v2"
)

// PredictionHandler proxies AI prediction resources. Payloads pass through
// the prediction normalizers: numeric coercion and grade bucketing.
type PredictionHandler struct {
	*Base
}

func NewPredictionHandler(base *Base) *PredictionHandler {
	return &PredictionHandler{Base: base}
}

// List handles GET /api/predictions.
func (h *PredictionHandler) List(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method: fiber.MethodGet,
		Path:   "/predictions",
		Query:  queryValues(c),
	}, listTransform(normalize.Prediction))
}

// Stats handles GET /api/predictions/stats; the backend's letter-grade
// distribution collapses into UI buckets here.
func (h *PredictionHandler) Stats(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method: fiber.MethodGet,
		Path:   "/predictions/stats",
	}, objectTransform(normalize.PredictionStats))
}

// Detail handles GET /api/predictions/:symbol.
func (h *PredictionHandler) Detail(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method: fiber.MethodGet,
		Path:   "/predictions/" + c.Params("symbol"),
	}, objectTransform(normalize.Prediction))
}
