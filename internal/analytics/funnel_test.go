package analytics

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

var testSteps = []string{
	"landing_view",
	"signup_started",
	"signup_completed",
	"onboarding_completed",
	"first_backtest_run",
}

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	return NewRecorder(NewMemoryStore(), testSteps, 200, zap.NewNop())
}

func TestEmptyLogReportsZeroCountsNilRates(t *testing.T) {
	r := newTestRecorder(t)
	metrics := r.FunnelBaselineMetrics()
	if len(metrics) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(metrics))
	}
	for _, m := range metrics {
		if m.Count != 0 {
			t.Fatalf("step %s: expected count 0, got %d", m.Step, m.Count)
		}
		if m.ConversionRate != nil {
			t.Fatalf("step %s: expected nil rate on empty log, got %v", m.Step, *m.ConversionRate)
		}
	}
}

func TestTrackThenMetricsRoundTrip(t *testing.T) {
	r := newTestRecorder(t)
	r.TrackEvent(context.Background(), "landing_view", "/", nil)

	metrics := r.FunnelBaselineMetrics()
	if metrics[0].Count != 1 {
		t.Fatalf("expected landing_view count 1, got %d", metrics[0].Count)
	}
	if metrics[0].ConversionRate != nil {
		t.Fatal("first step must always report nil conversion rate")
	}
	// Second step has count 0 with predecessor 1: rate is 0, not nil.
	if metrics[1].ConversionRate == nil || *metrics[1].ConversionRate != 0 {
		t.Fatalf("expected rate 0 for second step, got %v", metrics[1].ConversionRate)
	}
}

func TestConversionRateComputation(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		r.TrackEvent(ctx, "landing_view", "/", nil)
	}
	r.TrackEvent(ctx, "signup_started", "/signup", nil)
	r.TrackEvent(ctx, "signup_started", "/signup", nil)

	metrics := r.FunnelBaselineMetrics()
	if metrics[1].Count != 2 {
		t.Fatalf("expected signup_started count 2, got %d", metrics[1].Count)
	}
	if metrics[1].ConversionRate == nil || *metrics[1].ConversionRate != 0.5 {
		t.Fatalf("expected conversion rate 0.5, got %v", metrics[1].ConversionRate)
	}
	// signup_completed has predecessor count 2, own count 0.
	if metrics[2].ConversionRate == nil || *metrics[2].ConversionRate != 0 {
		t.Fatalf("expected rate 0, got %v", metrics[2].ConversionRate)
	}
	// onboarding_completed's predecessor count is 0: nil rate.
	if metrics[3].ConversionRate != nil {
		t.Fatalf("expected nil rate when predecessor count is 0, got %v", *metrics[3].ConversionRate)
	}
}

func TestCapacityEvictionFIFO(t *testing.T) {
	r := NewRecorder(NewMemoryStore(), testSteps, 3, zap.NewNop())
	ctx := context.Background()
	r.TrackEvent(ctx, "landing_view", "/", nil)
	r.TrackEvent(ctx, "signup_started", "/signup", nil)
	r.TrackEvent(ctx, "signup_started", "/signup", nil)
	r.TrackEvent(ctx, "signup_completed", "/done", nil)

	metrics := r.FunnelBaselineMetrics()
	if metrics[0].Count != 0 {
		t.Fatalf("oldest event should be evicted, landing_view count = %d", metrics[0].Count)
	}
	if metrics[1].Count != 2 || metrics[2].Count != 1 {
		t.Fatalf("unexpected counts after eviction: %d/%d", metrics[1].Count, metrics[2].Count)
	}
}

func TestClearTrackedEvents(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	r.TrackEvent(ctx, "landing_view", "/", nil)
	r.ClearTrackedEvents()

	for _, m := range r.FunnelBaselineMetrics() {
		if m.Count != 0 {
			t.Fatalf("expected zero counts after clear, got %s=%d", m.Step, m.Count)
		}
	}
}

func TestNilStoreIsNoOp(t *testing.T) {
	r := NewRecorder(nil, testSteps, 200, zap.NewNop())
	r.TrackEvent(context.Background(), "landing_view", "/", nil)
	if r.FunnelBaselineMetrics()[0].Count != 0 {
		t.Fatal("nil store must make TrackEvent a no-op")
	}
}

type captureCollector struct {
	events []Event
}

func (c *captureCollector) Collect(_ context.Context, e Event) {
	c.events = append(c.events, e)
}

func TestCollectorReceivesEvents(t *testing.T) {
	r := newTestRecorder(t)
	collector := &captureCollector{}
	r.SetCollector(collector)

	r.TrackEvent(context.Background(), "landing_view", "/", map[string]interface{}{"ref": "ad"})
	if len(collector.events) != 1 {
		t.Fatalf("expected 1 forwarded event, got %d", len(collector.events))
	}
	if collector.events[0].Name != "landing_view" {
		t.Fatalf("unexpected event name %q", collector.events[0].Name)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	store := NewFileStore(path)

	r := NewRecorder(store, testSteps, 200, zap.NewNop())
	r.TrackEvent(context.Background(), "landing_view", "/", nil)
	r.TrackEvent(context.Background(), "signup_started", "/signup", nil)

	// A fresh recorder over the same file sees the persisted log.
	reloaded := NewRecorder(NewFileStore(path), testSteps, 200, zap.NewNop())
	metrics := reloaded.FunnelBaselineMetrics()
	if metrics[0].Count != 1 || metrics[1].Count != 1 {
		t.Fatalf("expected persisted counts 1/1, got %d/%d", metrics[0].Count, metrics[1].Count)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	events, err := store.Load()
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty log, got %d events", len(events))
	}
}
