package editor

import (
	"sync/atomic"
	"time"
)

// Metrics counts dispatch activity. All methods are safe for concurrent use.
type Metrics struct {
	keys        atomic.Uint64
	resolved    atomic.Uint64
	pending     atomic.Uint64
	actions     atomic.Uint64
	errors      atomic.Uint64
	modeChanges atomic.Uint64

	peakKeyLatency atomic.Int64
	totalLatency   atomic.Int64

	startTime time.Time
}

// Stats is a point-in-time view of Metrics.
type Stats struct {
	// Keys is the number of keys fed to Trigger.
	Keys uint64

	// Resolved counts keys that completed a binding.
	Resolved uint64

	// Pending counts keys that left a sequence in progress.
	Pending uint64

	// Actions counts buffer actions applied successfully.
	Actions uint64

	// Errors counts buffer actions that failed.
	Errors uint64

	ModeChanges uint64

	AvgKeyLatency  time.Duration
	PeakKeyLatency time.Duration
	Uptime         time.Duration
}

func newMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) recordKey(latency time.Duration, resolved, pending bool) {
	m.keys.Add(1)
	if resolved {
		m.resolved.Add(1)
	}
	if pending {
		m.pending.Add(1)
	}

	ns := latency.Nanoseconds()
	m.totalLatency.Add(ns)
	for {
		peak := m.peakKeyLatency.Load()
		if ns <= peak || m.peakKeyLatency.CompareAndSwap(peak, ns) {
			break
		}
	}
}

func (m *Metrics) recordAction() {
	m.actions.Add(1)
}

func (m *Metrics) recordError() {
	m.errors.Add(1)
}

func (m *Metrics) recordModeChange() {
	m.modeChanges.Add(1)
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() Stats {
	s := Stats{
		Keys:           m.keys.Load(),
		Resolved:       m.resolved.Load(),
		Pending:        m.pending.Load(),
		Actions:        m.actions.Load(),
		Errors:         m.errors.Load(),
		ModeChanges:    m.modeChanges.Load(),
		PeakKeyLatency: time.Duration(m.peakKeyLatency.Load()),
		Uptime:         time.Since(m.startTime),
	}
	if s.Keys > 0 {
		s.AvgKeyLatency = time.Duration(m.totalLatency.Load() / int64(s.Keys))
	}
	return s
}
