package handler

import (
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/analytics"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler receives funnel event beacons from the web client and
// serves the derived metrics. No backend call is involved; the log is local.
type AnalyticsHandler struct {
	recorder *analytics.Recorder
}

func NewAnalyticsHandler(recorder *analytics.Recorder) *AnalyticsHandler {
	return &AnalyticsHandler{recorder: recorder}
}

type trackEventRequest struct {
	Name    string                 `json:"name"`
	Path    string                 `json:"path"`
	Payload map[string]interface{} `json:"payload"`
}

// Track handles POST /api/analytics/track.
func (h *AnalyticsHandler) Track(c *fiber.Ctx) error {
	var body trackEventRequest
	if !parseBody(c, &body) {
		return badRequest(c, models.MsgInvalidBody)
	}
	if !h.recorder.IsKnownStep(body.Name) {
		return badRequest(c, "알 수 없는 이벤트입니다: "+body.Name)
	}

	h.recorder.TrackEvent(c.UserContext(), body.Name, body.Path, body.Payload)
	return c.Status(fiber.StatusAccepted).JSON(models.SuccessResponse{
		Data:   map[string]interface{}{"tracked": body.Name},
		Status: fiber.StatusAccepted,
	})
}

// Funnel handles GET /api/analytics/funnel.
func (h *AnalyticsHandler) Funnel(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse{
		Data:   h.recorder.FunnelBaselineMetrics(),
		Status: fiber.StatusOK,
	})
}

// Reset handles DELETE /api/analytics/events.
func (h *AnalyticsHandler) Reset(c *fiber.Ctx) error {
	h.recorder.ClearTrackedEvents()
	return c.JSON(models.SuccessResponse{
		Data:   map[string]interface{}{"cleared": true},
		Status: fiber.StatusOK,
	})
}
