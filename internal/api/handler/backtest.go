package handler

import (
	"fmt"
	"math"
	"time"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BacktestHandler proxies backtest list/detail/run. The run request is the
// one proxy route with domain validation of its own: date-range checks
// happen here, before the backend is contacted.
type BacktestHandler struct {
	*Base
}

func NewBacktestHandler(base *Base) *BacktestHandler {
	return &BacktestHandler{Base: base}
}

const dateLayout = "2006-01-02"

// List handles GET /api/backtests with verbatim query passthrough.
func (h *BacktestHandler) List(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/backtests",
		Query:   queryValues(c),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

// Detail handles GET /api/backtests/:id.
func (h *BacktestHandler) Detail(c *fiber.Ctx) error {
	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodGet,
		Path:    "/backtests/" + c.Params("id"),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
	}, nil)
}

type runBacktestRequest struct {
	StrategyID     string  `json:"strategyId"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
	InitialCapital float64 `json:"initialCapital"`
}

// Run handles POST /api/backtests/run. Long-running on the backend side, so
// it carries the extended timeout budget.
func (h *BacktestHandler) Run(c *fiber.Ctx) error {
	var body runBacktestRequest
	if !parseBody(c, &body) {
		return badRequest(c, models.MsgInvalidBody)
	}

	if body.StartDate == nil || body.EndDate == nil {
		return badRequest(c, "startDate와 endDate는 필수입니다.")
	}

	start, err := time.Parse(dateLayout, *body.StartDate)
	if err != nil {
		return badRequest(c, "startDate 형식이 올바르지 않습니다. (YYYY-MM-DD)")
	}
	end, err := time.Parse(dateLayout, *body.EndDate)
	if err != nil {
		return badRequest(c, "endDate 형식이 올바르지 않습니다. (YYYY-MM-DD)")
	}

	if end.Before(start) {
		return badRequest(c, "endDate는 startDate보다 빠를 수 없습니다.")
	}

	days := spanDays(start, end)
	if days > h.cfg.Backend.MaxBacktestDays {
		return badRequest(c, fmt.Sprintf(
			"백테스트 기간은 최대 %d일을 초과할 수 없습니다. (요청 기간: %d일)",
			h.cfg.Backend.MaxBacktestDays, days,
		))
	}

	return h.proxy(c, gateway.Call{
		Method:  fiber.MethodPost,
		Path:    "/backtests/run",
		Body:    c.Body(),
		Headers: forwardedHeaders(c, fiber.HeaderAuthorization),
		Timeout: h.cfg.Backend.BacktestRunTimeout,
	}, nil)
}

// spanDays computes the requested range as ceil((end-start)/86400000ms),
// matching what the web client displays.
func spanDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}
