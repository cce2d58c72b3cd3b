package ops

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RuntimeMetrics is a snapshot of process health
type RuntimeMetrics struct {
	Goroutines     int    `json:"goroutines"`
	Baseline       int    `json:"baseline"`
	Peak           int    `json:"peak"`
	Growth         int    `json:"growth"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	NumGC          uint32 `json:"num_gc"`
	Samples        int64  `json:"samples"`
}

// RuntimeMonitor samples goroutine and heap figures on an interval and warns
// when the goroutine count crosses a threshold. Searches run on request
// goroutines, so a steady climb points at handlers that never return.
type RuntimeMonitor struct {
	mu             sync.RWMutex
	metrics        RuntimeMetrics
	interval       time.Duration
	alertThreshold int
	alertCooldown  time.Duration
	lastAlert      time.Time
	logger         zerolog.Logger
}

// NewRuntimeMonitor creates a monitor with the current goroutine count as baseline
func NewRuntimeMonitor(interval time.Duration, alertThreshold int, logger zerolog.Logger) *RuntimeMonitor {
	baseline := runtime.NumGoroutine()
	return &RuntimeMonitor{
		metrics:        RuntimeMetrics{Goroutines: baseline, Baseline: baseline, Peak: baseline},
		interval:       interval,
		alertThreshold: alertThreshold,
		alertCooldown:  5 * time.Minute,
		logger:         logger.With().Str("component", "RuntimeMonitor").Logger(),
	}
}

// Run samples until ctx is cancelled
func (m *RuntimeMonitor) Run(ctx context.Context) {
	m.logger.Info().
		Int("baseline", m.Metrics().Baseline).
		Dur("interval", m.interval).
		Msg("Started runtime monitoring")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sample()
		case <-ctx.Done():
			return
		}
	}
}

// Sample records the current figures
func (m *RuntimeMonitor) Sample() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	current := runtime.NumGoroutine()

	m.mu.Lock()
	m.metrics.Goroutines = current
	if current > m.metrics.Peak {
		m.metrics.Peak = current
	}
	m.metrics.Growth = current - m.metrics.Baseline
	m.metrics.HeapAllocBytes = mem.HeapAlloc
	m.metrics.NumGC = mem.NumGC
	m.metrics.Samples++
	alert := m.alertThreshold > 0 && current > m.alertThreshold && time.Since(m.lastAlert) > m.alertCooldown
	if alert {
		m.lastAlert = time.Now()
	}
	snapshot := m.metrics
	m.mu.Unlock()

	m.logger.Debug().
		Int("goroutines", snapshot.Goroutines).
		Int("peak", snapshot.Peak).
		Uint64("heap_alloc", snapshot.HeapAllocBytes).
		Msg("Runtime metrics")

	if alert {
		m.logger.Warn().
			Int("goroutines", current).
			Int("threshold", m.alertThreshold).
			Msg("High goroutine count detected - possible leak")
	}
}

// Metrics returns the latest snapshot
func (m *RuntimeMonitor) Metrics() RuntimeMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metrics
}
