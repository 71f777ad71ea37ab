package handler

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UserHandler proxies profile and preference resources.
type UserHandler struct {
	*Base
}

func NewUserHandler(base *Base) *UserHandler {
	return &UserHandler{Base: base}
}

// Profile handles GET /api/users/me.
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/users/me",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// Preferences handles GET /api/users/me/preferences.
func (h *UserHandler) Preferences(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/users/me/preferences",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// UpdatePreferences handles PUT /api/users/me/preferences.
func (h *UserHandler) UpdatePreferences(c *fiber.Ctx) error {
	var body map[string]interface{}
	if !parseBody(c, &body) {
		return badRequest(c, models.MsgInvalidBody)
	}

	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPut,
		Path:    "/users/me/preferences",
		Body:    c.Body(),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}
