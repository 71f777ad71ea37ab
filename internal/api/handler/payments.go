package handler

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler proxies the two payment-provider flows. Vendor request
// signing lives on the backend; the gateway only relays reservation and
// approval calls, handing the redirect URL back to the browser.
type PaymentHandler struct {
	*Base
}

func NewPaymentHandler(base *Base) *PaymentHandler {
	return &PaymentHandler{Base: base}
}

// KakaoReady handles POST /api/payments/kakao/ready. The backend reserves
// the payment and answers with the redirect URL.
func (h *PaymentHandler) KakaoReady(c *fiber.Ctx) error {
	var body map[string]interface{}
	if !parseBody(c, &body) {
		return badRequest(c, models.MsgInvalidBody)
	}

	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/payments/kakao/ready",
		Body:    c.Body(),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// KakaoApprove handles GET /api/payments/kakao/approve. Completion arrives
// as query parameters on the callback redirect (pg_token et al.), passed
// through verbatim.
func (h *PaymentHandler) KakaoApprove(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/payments/kakao/approve",
		Query:   queryValues(c),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// TossConfirm handles POST /api/payments/toss/confirm.
func (h *PaymentHandler) TossConfirm(c *fiber.Ctx) error {
	var body struct {
		PaymentKey string `json:"paymentKey"`
		OrderID    string `json:"orderId"`
		Amount     int64  `json:"amount"`
	}
	if !parseBody(c, &body) {
		return badRequest(c, models.MsgInvalidBody)
	}
	if body.PaymentKey == "" || body.OrderID == "" {
		return badRequest(c, models.MsgInvalidBody)
	}

	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/payments/toss/confirm",
		Body:    c.Body(),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}
