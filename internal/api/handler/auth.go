package handler

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler proxies authentication flows: password login/signup, session
// introspection, and the OAuth code exchange.
type AuthHandler struct {
	*Base
}

func NewAuthHandler(base *Base) *AuthHandler {
	return &AuthHandler{Base: base}
}

// oauthProviders is the explicit allow-list for the code-exchange route.
var oauthProviders = map[string]bool{
	"naver": true,
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body map[string]interface{}
	if !parseBody(c, &body) {
		return badRequest(c, models.MsgInvalidBody)
	}

	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/auth/login",
		Body:    c.Body(),
		Headers: forwardedHeaders(c, fiber.HeaderCookie),
	}, nil)
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var body map[string]interface{}
	if !parseBody(c, &body) {
		return badRequest(c, models.MsgInvalidBody)
	}

	return h.proxy(c, gateway.Call{
		Method: fiber.MethodPost,
		Path:   "/auth/signup",
		Body:   c.Body(),
	}, nil)
}

// Logout handles POST /api/auth/logout; the session cookie travels along.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/auth/logout",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization, fiber.HeaderCookie),
	}, nil)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/auth/me",
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// OAuthExchange handles POST /api/auth/oauth/:provider. Unknown providers
// are rejected before any backend call; the exchange runs under its own
// timeout budget.
func (h *AuthHandler) OAuthExchange(c *fiber.Ctx) error {
	provider := c.Params("provider")
	if !oauthProviders[provider] {
		return badRequest(c, models.MsgUnknownProvider)
	}

	var body struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	if !parseBody(c, &body) {
		return badRequest(c, models.MsgInvalidBody)
	}
	if body.Code == "" {
		return badRequest(c, models.MsgInvalidBody)
	}

	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/auth/oauth/" + provider,
		Body:    c.Body(),
		Timeout: h.cfg.Backend.OAuthTimeout,
	}, nil)
}
