// Package ops hosts the internal operations surface on its own listener,
// separate from the browser-facing proxy.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/analytics"
	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/gateway"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server exposes health, funnel metrics and circuit state for dashboards.
type Server struct {
	httpServer *http.Server
	client     *gateway.Client
	recorder   *analytics.Recorder
	logger     *zap.Logger
	startedAt  time.Time
}

func NewServer(addr string, client *gateway.Client, recorder *analytics.Recorder, log *zap.Logger) *Server {
	s := &Server{
		client:    client,
		recorder:  recorder,
		logger:    log,
		startedAt: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ops/health", s.handleHealth)
	r.Get("/ops/funnel", s.handleFunnel)
	r.Get("/ops/breaker", s.handleBreaker)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Ops server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Ops server error", zap.Error(err))
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"ok":       true,
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

func (s *Server) handleFunnel(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"steps":   s.recorder.Steps(),
		"metrics": s.recorder.FunnelBaselineMetrics(),
	})
}

func (s *Server) handleBreaker(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"backend": s.client.BreakerState(),
	})
}
