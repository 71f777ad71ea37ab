package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/analytics"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/api/middleware"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/config"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newTestApp(origin string) *fiber.App {
	cfg := config.Default()
	cfg.Backend.Origin = strings.TrimRight(origin, "/")
	cfg.Backend.Timeout = 2 * time.Second
	log := zap.NewNop()
	client := gateway.NewClient(cfg, log)
	recorder := analytics.NewRecorder(
		analytics.NewMemoryStore(),
		cfg.Analytics.FunnelSteps,
		cfg.Analytics.Capacity,
		log,
	)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRouter(app, cfg, log, client, recorder)
	return app
}

type envelope struct {
	Data   interface{} `json:"data"`
	Error  string      `json:"error"`
	Status int         `json:"status"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var env envelope
	json.Unmarshal(raw, &env)
	return resp, env
}

func countingBackend(t *testing.T, calls *int64, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(calls, 1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const bearer = "Bearer test-token"

func TestProtectedRouteWithoutAuthorizationHeader(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusOK, `{"count":3}`)
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodGet, "/api/notifications", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if env.Error != models.MsgAuthRequired {
		t.Fatalf("expected %q, got %q", models.MsgAuthRequired, env.Error)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("backend must not be contacted without Authorization")
	}
}

func TestBacktestRunEndBeforeStart(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusOK, `{}`)
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodPost, "/api/backtests/run",
		`{"startDate":"2024-06-01","endDate":"2024-01-01"}`,
		map[string]string{"Authorization": bearer})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if env.Error != "endDate는 startDate보다 빠를 수 없습니다." {
		t.Fatalf("unexpected message %q", env.Error)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("invalid range must be rejected before any backend call")
	}
}

func TestBacktestRunSpanTooLong(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusOK, `{}`)
	app := newTestApp(srv.URL)

	// 2024-01-01 to 2025-06-01 spans 517 days, past the 365-day limit.
	resp, env := doRequest(t, app, http.MethodPost, "/api/backtests/run",
		`{"startDate":"2024-01-01","endDate":"2025-06-01"}`,
		map[string]string{"Authorization": bearer})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(env.Error, "517일") {
		t.Fatalf("expected requested span in message, got %q", env.Error)
	}
	if !strings.Contains(env.Error, "365일") {
		t.Fatalf("expected limit in message, got %q", env.Error)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("over-limit range must be rejected before any backend call")
	}
}

func TestBacktestRunMissingDates(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusOK, `{}`)
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodPost, "/api/backtests/run",
		`{"strategyId":"s-1"}`,
		map[string]string{"Authorization": bearer})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if env.Error != "startDate와 endDate는 필수입니다." {
		t.Fatalf("unexpected message %q", env.Error)
	}
}

func TestBacktestRunMalformedDate(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusOK, `{}`)
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodPost, "/api/backtests/run",
		`{"startDate":"01/01/2024","endDate":"2024-06-01"}`,
		map[string]string{"Authorization": bearer})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if env.Error != "startDate 형식이 올바르지 않습니다. (YYYY-MM-DD)" {
		t.Fatalf("unexpected message %q", env.Error)
	}
}

// A zero-day span is a valid request: same start and end date.
func TestBacktestRunSameDayProceeds(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusOK, `{"backtestId":"bt-1"}`)
	app := newTestApp(srv.URL)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/backtests/run",
		`{"startDate":"2024-03-01","endDate":"2024-03-01"}`,
		map[string]string{"Authorization": bearer})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Fatalf("expected exactly one backend call, got %d", calls)
	}
}

func TestOAuthUnknownProviderRejectedBeforeBackend(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusOK, `{}`)
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodPost, "/api/auth/oauth/google",
		`{"code":"abc"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if env.Error != models.MsgUnknownProvider {
		t.Fatalf("unexpected message %q", env.Error)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("unknown provider must be rejected before any backend call")
	}
}

func TestBackendErrorMessagePassthrough(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusConflict, `{"error":"이미 가입된 이메일입니다."}`)
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodPost, "/api/auth/signup",
		`{"email":"a@b.c","password":"pw"}`, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status passthrough 409, got %d", resp.StatusCode)
	}
	if env.Error != "이미 가입된 이메일입니다." {
		t.Fatalf("expected backend message passthrough, got %q", env.Error)
	}
}

func TestBackendTimeoutMapsTo504(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Backend.Origin = srv.URL
	cfg.Backend.Timeout = 50 * time.Millisecond
	log := zap.NewNop()
	client := gateway.NewClient(cfg, log)
	recorder := analytics.NewRecorder(analytics.NewMemoryStore(), cfg.Analytics.FunnelSteps, cfg.Analytics.Capacity, log)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRouter(app, cfg, log, client, recorder)

	resp, env := doRequest(t, app, http.MethodGet, "/api/predictions", "", nil)
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", resp.StatusCode)
	}
	if env.Error != models.MsgBackendTimeout {
		t.Fatalf("unexpected message %q", env.Error)
	}
}

func TestBackendUnreachableMapsTo503(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodGet, "/api/predictions", "", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	if env.Error != models.MsgBackendUnreachable {
		t.Fatalf("unexpected message %q", env.Error)
	}
}

func TestPredictionStatsGradeBuckets(t *testing.T) {
	var calls int64
	srv := countingBackend(t, &calls, http.StatusOK,
		`{"totalCount":10,"gradeDistribution":{"A":3,"B":2,"C":5}}`)
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodGet, "/api/predictions/stats", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object payload, got %T", env.Data)
	}
	dist, ok := data["gradeDistribution"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected distribution map, got %T", data["gradeDistribution"])
	}
	if dist["EXCELLENT"] != float64(5) || dist["GOOD"] != float64(5) {
		t.Fatalf("expected {EXCELLENT:5, GOOD:5}, got %v", dist)
	}
	if _, present := dist["FAIR"]; present {
		t.Fatal("zero bucket FAIR must be absent")
	}
	if _, present := dist["LOW"]; present {
		t.Fatal("zero bucket LOW must be absent")
	}
}

func TestStrategyListCategoryRemap(t *testing.T) {
	var gotCategory atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategory.Store(r.URL.Query().Get("category"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":20}`))
	}))
	t.Cleanup(srv.Close)
	app := newTestApp(srv.URL)

	resp, env := doRequest(t, app, http.MethodGet, "/api/strategies?category=value", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got, _ := gotCategory.Load().(string); got != "VALUE_INVESTING" {
		t.Fatalf("expected backend enum VALUE_INVESTING, got %q", got)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected reshaped page object, got %T", env.Data)
	}
	if _, present := data["items"]; !present {
		t.Fatal("expected items key in reshaped page")
	}
	if data["total"] != float64(0) {
		t.Fatalf("expected total 0, got %v", data["total"])
	}
}

func TestAnalyticsTrackAndFunnel(t *testing.T) {
	app := newTestApp("http://localhost:1")

	resp, _ := doRequest(t, app, http.MethodPost, "/api/analytics/track",
		`{"name":"landing_view","path":"/"}`, nil)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	resp, env := doRequest(t, app, http.MethodGet, "/api/analytics/funnel", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	metrics, ok := env.Data.([]interface{})
	if !ok || len(metrics) != 5 {
		t.Fatalf("expected 5 funnel steps, got %v", env.Data)
	}
	first, _ := metrics[0].(map[string]interface{})
	if first["count"] != float64(1) {
		t.Fatalf("expected landing_view count 1, got %v", first["count"])
	}
}

func TestAnalyticsUnknownEventRejected(t *testing.T) {
	app := newTestApp("http://localhost:1")

	resp, env := doRequest(t, app, http.MethodPost, "/api/analytics/track",
		`{"name":"clicked_logo","path":"/"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(env.Error, "clicked_logo") {
		t.Fatalf("expected offending name in message, got %q", env.Error)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	app := newTestApp("http://localhost:1")

	resp, _ := doRequest(t, app, http.MethodGet, "/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp("http://localhost:1")

	resp, _ := doRequest(t, app, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
