package notation

import (
	"expvar"
	"sync/atomic"
	"time"

	"github.com/opd-ai/notation-canvas/internal/fonts"
)

// Metrics counts renders and their phases. It is exposed through expvar
// after RegisterExpvar, at /debug/vars when an HTTP server runs.
//
// Thread-safe for concurrent use.
type Metrics struct {
	renders      atomic.Int64
	renderErrors atomic.Int64
	fontErrors   atomic.Int64
	scriptErrors atomic.Int64
	reloads      atomic.Int64

	layoutLatencyNs    atomic.Int64
	layoutLatencyCount atomic.Int64
	drawLatencyNs      atomic.Int64
	drawLatencyCount   atomic.Int64

	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the metrics under notation_* names. Safe to
// call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}
	expvar.Publish("notation_renders_total", expvar.Func(func() any { return m.renders.Load() }))
	expvar.Publish("notation_render_errors_total", expvar.Func(func() any { return m.renderErrors.Load() }))
	expvar.Publish("notation_font_errors_total", expvar.Func(func() any { return m.fontErrors.Load() }))
	expvar.Publish("notation_script_errors_total", expvar.Func(func() any { return m.scriptErrors.Load() }))
	expvar.Publish("notation_reloads_total", expvar.Func(func() any { return m.reloads.Load() }))
	expvar.Publish("notation_font_cache_entries", expvar.Func(func() any { return fonts.DefaultCache.Len() }))
	expvar.Publish("notation_layout_latency_avg_ms", expvar.Func(func() any {
		return float64(safeDivide(m.layoutLatencyNs.Load(), m.layoutLatencyCount.Load())) / 1e6
	}))
	expvar.Publish("notation_draw_latency_avg_ms", expvar.Func(func() any {
		return float64(safeDivide(m.drawLatencyNs.Load(), m.drawLatencyCount.Load())) / 1e6
	}))
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Renders      int64
	RenderErrors int64
	FontErrors   int64
	ScriptErrors int64
	Reloads      int64

	LayoutLatencyAvg time.Duration
	DrawLatencyAvg   time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Renders:          m.renders.Load(),
		RenderErrors:     m.renderErrors.Load(),
		FontErrors:       m.fontErrors.Load(),
		ScriptErrors:     m.scriptErrors.Load(),
		Reloads:          m.reloads.Load(),
		LayoutLatencyAvg: safeDivide(m.layoutLatencyNs.Load(), m.layoutLatencyCount.Load()),
		DrawLatencyAvg:   safeDivide(m.drawLatencyNs.Load(), m.drawLatencyCount.Load()),
	}
}

// IncrementRenders counts a completed render.
func (m *Metrics) IncrementRenders() { m.renders.Add(1) }

// IncrementRenderErrors counts a failed render.
func (m *Metrics) IncrementRenderErrors() { m.renderErrors.Add(1) }

// IncrementFontErrors counts a render that failed to resolve a font.
func (m *Metrics) IncrementFontErrors() { m.fontErrors.Add(1) }

// IncrementScriptErrors counts a render that failed inside the script.
func (m *Metrics) IncrementScriptErrors() { m.scriptErrors.Add(1) }

// IncrementReloads counts a re-render triggered by a file change.
func (m *Metrics) IncrementReloads() { m.reloads.Add(1) }

// RecordLayoutLatency records the duration of a measurement pass.
func (m *Metrics) RecordLayoutLatency(d time.Duration) {
	m.layoutLatencyNs.Add(d.Nanoseconds())
	m.layoutLatencyCount.Add(1)
}

// RecordDrawLatency records the duration of a draw pass.
func (m *Metrics) RecordDrawLatency(d time.Duration) {
	m.drawLatencyNs.Add(d.Nanoseconds())
	m.drawLatencyCount.Add(1)
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.renders.Store(0)
	m.renderErrors.Store(0)
	m.fontErrors.Store(0)
	m.scriptErrors.Store(0)
	m.reloads.Store(0)
	m.layoutLatencyNs.Store(0)
	m.layoutLatencyCount.Store(0)
	m.drawLatencyNs.Store(0)
	m.drawLatencyCount.Store(0)
}

func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

var defaultMetrics = NewMetrics()

// DefaultMetrics returns the process-wide Metrics instance.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
