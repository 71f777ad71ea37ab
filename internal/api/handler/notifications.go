package handler

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler proxies the notification resource. All routes are
// user-scoped.
type NotificationHandler struct {
	*Base
}

func NewNotificationHandler(base *Base) *NotificationHandler {
	return &NotificationHandler{Base: base}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/notifications",
		Query:   queryValues(c),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// UnreadCount handles GET /api/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/notifications/unread-count",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// MarkRead handles POST /api/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/notifications/" + c.Params("id") + "/read",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// MarkAllRead handles POST /api/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/notifications/read-all",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}
