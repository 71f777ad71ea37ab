// Package analytics records funnel events in a bounded local log and derives
// conversion metrics from it.
package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is one recorded funnel event.
type Event struct {
	Name      string                 `json:"name"`
	Timestamp time.Time              `json:"timestamp"`
	Path      string                 `json:"path"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// FunnelMetric is derived on demand, never stored. ConversionRate is nil for
// the first step and for any step whose predecessor count is zero.
type FunnelMetric struct {
	Step           string   `json:"step"`
	Count          int      `json:"count"`
	ConversionRate *float64 `json:"conversionRate"`
}

// Collector is an optional external sink for recorded events (the data-layer
// analog). Failures are the collector's problem, not the recorder's.
type Collector interface {
	Collect(ctx context.Context, event Event)
}

// Recorder owns the bounded event log. Capacity eviction is FIFO: the oldest
// event goes first.
type Recorder struct {
	mu        sync.Mutex
	store     Store
	collector Collector
	logger    *zap.Logger
	steps     []string
	capacity  int
	events    []Event
	loaded    bool
}

// NewRecorder creates a Recorder over the given store. A nil store turns
// TrackEvent into a no-op, mirroring execution contexts without durable
// storage.
func NewRecorder(store Store, steps []string, capacity int, log *zap.Logger) *Recorder {
	return &Recorder{
		store:    store,
		logger:   log,
		steps:    steps,
		capacity: capacity,
	}
}

// SetCollector attaches an optional external collector.
func (r *Recorder) SetCollector(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collector = c
}

func (r *Recorder) ensureLoaded() {
	if r.loaded {
		return
	}
	r.loaded = true
	if r.store == nil {
		return
	}
	events, err := r.store.Load()
	if err != nil {
		r.logger.Warn("Failed to load event log", zap.Error(err))
		return
	}
	if len(events) > r.capacity {
		events = events[len(events)-r.capacity:]
	}
	r.events = events
}

// TrackEvent appends one event to the log, evicting the oldest past
// capacity, and forwards it to the collector if one is attached.
func (r *Recorder) TrackEvent(ctx context.Context, name, path string, payload map[string]interface{}) {
	if r.store == nil {
		return
	}

	event := Event{
		Name:      name,
		Timestamp: time.Now().UTC(),
		Path:      path,
		Payload:   payload,
	}

	r.mu.Lock()
	r.ensureLoaded()
	r.events = append(r.events, event)
	if len(r.events) > r.capacity {
		r.events = r.events[len(r.events)-r.capacity:]
	}
	collector := r.collector
	if err := r.store.Save(r.events); err != nil {
		r.logger.Warn("Failed to persist event log", zap.Error(err))
	}
	r.mu.Unlock()

	if collector != nil {
		collector.Collect(ctx, event)
	}
}

// FunnelBaselineMetrics computes per-step counts and step-over-step
// conversion rates over the current log. The first step always reports a nil
// rate; later steps report nil when their predecessor count is zero.
func (r *Recorder) FunnelBaselineMetrics() []FunnelMetric {
	r.mu.Lock()
	r.ensureLoaded()
	counts := make(map[string]int, len(r.steps))
	for _, e := range r.events {
		counts[e.Name]++
	}
	r.mu.Unlock()

	metrics := make([]FunnelMetric, len(r.steps))
	for i, step := range r.steps {
		metric := FunnelMetric{Step: step, Count: counts[step]}
		if i > 0 {
			previous := counts[r.steps[i-1]]
			if previous > 0 {
				rate := float64(metric.Count) / float64(previous)
				metric.ConversionRate = &rate
			}
		}
		metrics[i] = metric
	}
	return metrics
}

// ClearTrackedEvents empties the log; subsequent metrics report zero counts.
func (r *Recorder) ClearTrackedEvents() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = true
	r.events = nil
	if r.store == nil {
		return
	}
	if err := r.store.Save(nil); err != nil {
		r.logger.Warn("Failed to clear event log", zap.Error(err))
	}
}

// Steps returns the configured funnel step names in order.
func (r *Recorder) Steps() []string {
	out := make([]string, len(r.steps))
	copy(out, r.steps)
	return out
}

// IsKnownStep reports whether name is one of the configured funnel steps.
func (r *Recorder) IsKnownStep(name string) bool {
	for _, step := range r.steps {
		if step == name {
			return true
		}
	}
	return false
}
