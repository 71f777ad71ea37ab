package handler

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/normalize"

	"github.com/gofiber/fiber/v2"
)

// StrategyHandler proxies the strategy marketplace: browsing is public,
// subscription management is user-scoped.
type StrategyHandler struct {
	*Base
}

func NewStrategyHandler(base *Base) *StrategyHandler {
	return &StrategyHandler{Base: base}
}

// List handles GET /api/strategies. The UI category filter is remapped onto
// the backend enum before forwarding; the paged payload is reshaped on the
// way back.
func (h *StrategyHandler) List(c *fiber.Ctx) error {
	query := queryValues(c)
	if query != nil && query.Get("category") != "" {
		query.Set("category", normalize.CategoryToBackend(query.Get("category")))
	}

	return h.proxy(c, gateway.Call{
		Method: fiber.MethodGet,
		Path:   "/strategies",
		Query:  query,
	}, func(data interface{}) interface{} {
		obj, _ := data.(map[string]interface{})
		return normalize.Page(obj, normalize.Strategy)
	})
}

// Detail handles GET /api/strategies/:id.
func (h *StrategyHandler) Detail(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method: fiber.MethodGet,
		Path:   "/strategies/" + c.Params("id"),
	}, objectTransform(normalize.Strategy))
}

// Subscribe handles POST /api/strategies/:id/subscribe.
func (h *StrategyHandler) Subscribe(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/strategies/" + c.Params("id") + "/subscribe",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// Unsubscribe handles DELETE /api/strategies/:id/subscribe.
func (h *StrategyHandler) Unsubscribe(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodDelete,
		Path:    "/strategies/" + c.Params("id") + "/subscribe",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// Subscriptions handles GET /api/subscriptions.
func (h *StrategyHandler) Subscriptions(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/subscriptions",
		Query:   queryValues(c),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}
