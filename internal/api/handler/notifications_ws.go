package handler

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/config"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// NotificationStream upgrades /ws/notifications to a WebSocket and pushes
// unread-count snapshots driven by a per-connection poller. Browsers cannot
// set headers on WebSocket upgrades, so the bearer token arrives as a query
// parameter.
type NotificationStream struct {
	cfg    *config.Config
	client *gateway.Client
	logger *zap.Logger
}

func NewNotificationStream(cfg *config.Config, client *gateway.Client, log *zap.Logger) *NotificationStream {
	return &NotificationStream{cfg: cfg, client: client, logger: log}
}

type streamCommand struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// Handle serves one WebSocket session.
func (h *NotificationStream) Handle(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.NewError(fiber.StatusUpgradeRequired, "WebSocket upgrade required")
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
			Error:  models.MsgAuthRequired,
			Status: fiber.StatusUnauthorized,
		})
	}

	return websocket.New(func(ws *websocket.Conn) {
		h.serve(ws, "Bearer "+token)
	})(c)
}

func (h *NotificationStream) serve(ws *websocket.Conn, bearer string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := notifications.NewBackendFetcher(h.client, bearer)
	poller := notifications.NewPoller(fetcher, h.cfg.Notify.PollInterval, h.logger)

	var writeMu sync.Mutex
	poller.OnUpdate = func(count int) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := ws.WriteJSON(models.UnreadCount{Count: count}); err != nil {
			cancel()
		}
	}

	poller.Start(ctx)
	defer poller.Stop()

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Notification stream closed unexpectedly", zap.Error(err))
			}
			return
		}

		var cmd streamCommand
		if err := json.Unmarshal(msg, &cmd); err != nil {
			continue
		}
		switch cmd.Action {
		case "wake":
			poller.Wake()
		case "markRead":
			poller.MarkAsRead(ctx, cmd.ID)
		case "markAllRead":
			poller.MarkAllAsRead(ctx)
		}
	}
}
