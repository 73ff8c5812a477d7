package perf

import "time"

// Signal is the monitor's verdict for one sampling round.
type Signal uint8

const (
	SignalNone Signal = iota
	SignalDecline
	SignalIncline
)

func (s Signal) String() string {
	switch s {
	case SignalDecline:
		return "decline"
	case SignalIncline:
		return "incline"
	}
	return "none"
}

// MonitorOptions configures frame-rate sampling.
type MonitorOptions struct {
	// Window is the span over which one FPS average is taken.
	Window time.Duration
	// Iterations is the number of window averages per verdict.
	Iterations int
	LowFPS     float32
	HighFPS    float32
	// FlipFlops is the number of direction changes after which the monitor gives up.
	FlipFlops int
}

func DefaultMonitorOptions() MonitorOptions {
	return MonitorOptions{
		Window:     250 * time.Millisecond,
		Iterations: 10,
		LowFPS:     30,
		HighFPS:    50,
		FlipFlops:  3,
	}
}

// Monitor turns per-frame deltas into decline and incline signals.
type Monitor struct {
	opts MonitorOptions

	frames   int
	elapsed  time.Duration
	averages []float32
	last     float32

	lastSignal Signal
	flips      int
	fallback   bool
}

func NewMonitor(opts MonitorOptions) *Monitor {
	def := DefaultMonitorOptions()
	if opts.Window <= 0 {
		opts.Window = def.Window
	}
	if opts.Iterations <= 0 {
		opts.Iterations = def.Iterations
	}
	if opts.HighFPS <= opts.LowFPS {
		opts.LowFPS, opts.HighFPS = def.LowFPS, def.HighFPS
	}
	if opts.FlipFlops <= 0 {
		opts.FlipFlops = def.FlipFlops
	}
	return &Monitor{opts: opts, averages: make([]float32, 0, opts.Iterations)}
}

// Sample records one frame that took dt and returns a signal when a verdict is due.
func (m *Monitor) Sample(dt time.Duration) Signal {
	if m.fallback || dt <= 0 {
		return SignalNone
	}
	m.frames++
	m.elapsed += dt
	if m.elapsed < m.opts.Window {
		return SignalNone
	}
	m.last = float32(float64(m.frames) / m.elapsed.Seconds())
	m.frames, m.elapsed = 0, 0
	m.averages = append(m.averages, m.last)
	if len(m.averages) < m.opts.Iterations {
		return SignalNone
	}

	var sum float32
	for _, a := range m.averages {
		sum += a
	}
	mean := sum / float32(len(m.averages))
	m.averages = m.averages[:0]

	sig := SignalNone
	switch {
	case mean < m.opts.LowFPS:
		sig = SignalDecline
	case mean > m.opts.HighFPS:
		sig = SignalIncline
	}
	if sig == SignalNone {
		return SignalNone
	}
	if m.lastSignal != SignalNone && sig != m.lastSignal {
		m.flips++
		if m.flips >= m.opts.FlipFlops {
			m.fallback = true
			return SignalNone
		}
	}
	m.lastSignal = sig
	return sig
}

// FPS returns the most recent window average.
func (m *Monitor) FPS() float32 { return m.last }

// Fallback reports whether the monitor has given up after too many flip-flops.
func (m *Monitor) Fallback() bool { return m.fallback }

// Drive feeds one frame into the monitor and forwards any verdict to g.
func Drive(m *Monitor, g *Governor, dt, now time.Duration) Signal {
	sig := m.Sample(dt)
	switch sig {
	case SignalDecline:
		g.Decline(now)
	case SignalIncline:
		g.Incline(now)
	}
	g.Update(now)
	return sig
}
