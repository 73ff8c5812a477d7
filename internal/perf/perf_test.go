package perf

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"vimana/internal/store"
)

type countingCounter struct {
	noop.Int64Counter
	total      int64
	directions []string
}

func (c *countingCounter) Add(_ context.Context, v int64, opts ...metric.AddOption) {
	c.total += v
	attrs := metric.NewAddConfig(opts).Attributes()
	if d, ok := attrs.Value("direction"); ok {
		c.directions = append(c.directions, d.AsString())
	}
}

type countingMeter struct {
	noop.Meter
	counter *countingCounter
	err     error
}

func (m countingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.counter, nil
}

func newGovernor(t *testing.T) (*Governor, *store.Store, *countingCounter) {
	t.Helper()
	st := store.New(zerolog.Nop())
	c := &countingCounter{}
	g, err := NewGovernor(st, Options{Meter: countingMeter{counter: c}}, zerolog.Nop())
	require.NoError(t, err)
	return g, st, c
}

func TestGovernorHysteresis(t *testing.T) {
	g, st, c := newGovernor(t)
	require.Equal(t, store.PerfHigh, g.Mode())

	assert.True(t, g.Decline(0))
	snap := st.Snapshot()
	assert.Equal(t, store.PerfMedium, snap.PerfMode)
	assert.Equal(t, float32(1), snap.DPR)
	assert.True(t, snap.Bloom)
	assert.True(t, snap.Optimizing)

	assert.False(t, g.Decline(time.Second), "inside cooldown")
	assert.False(t, g.Incline(1999*time.Millisecond), "inside cooldown")
	g.Update(1999 * time.Millisecond)
	assert.True(t, st.Snapshot().Optimizing)

	g.Update(2 * time.Second)
	assert.False(t, st.Snapshot().Optimizing)
	assert.False(t, g.CoolingDown())

	assert.True(t, g.Decline(2*time.Second))
	snap = st.Snapshot()
	assert.Equal(t, store.PerfLow, snap.PerfMode)
	assert.Equal(t, float32(0.5), snap.DPR)
	assert.False(t, snap.Bloom)

	assert.EqualValues(t, 2, c.total)
	assert.Equal(t, []string{"decline", "decline"}, c.directions)
}

func TestGovernorFloorAndCeiling(t *testing.T) {
	g, st, c := newGovernor(t)
	assert.False(t, g.Incline(0), "already high")
	assert.False(t, g.CoolingDown())
	assert.False(t, st.Snapshot().Optimizing)

	g.Decline(0)
	g.Update(3 * time.Second)
	g.Decline(3 * time.Second)
	g.Update(6 * time.Second)
	require.Equal(t, store.PerfLow, g.Mode())

	assert.False(t, g.Decline(6*time.Second), "already low")
	assert.False(t, g.CoolingDown())
	assert.True(t, g.Incline(6*time.Second), "floor no-op started no cooldown")
	assert.Equal(t, store.PerfMedium, g.Mode())
	assert.EqualValues(t, 3, c.total)
}

func TestGovernorAtMostOneTransitionPerCooldown(t *testing.T) {
	g, _, _ := newGovernor(t)
	var changes []time.Duration

	rng := rand.New(rand.NewSource(7))
	now := time.Duration(0)
	for i := 0; i < 2000; i++ {
		now += time.Duration(rng.Intn(200)) * time.Millisecond
		g.Update(now)
		var changed bool
		if rng.Intn(2) == 0 {
			changed = g.Decline(now)
		} else {
			changed = g.Incline(now)
		}
		if changed {
			changes = append(changes, now)
		}
	}
	require.NotEmpty(t, changes)
	for i := 1; i < len(changes); i++ {
		assert.GreaterOrEqual(t, changes[i]-changes[i-1], DefaultCooldown)
	}
}

func TestGovernorStartsFromStoreMode(t *testing.T) {
	st := store.New(zerolog.Nop())
	st.SetPerf(store.PerfLow, 2, true)
	g, err := NewGovernor(st, Options{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, store.PerfLow, g.Mode())
	assert.Equal(t, float32(0.5), st.Snapshot().DPR, "tier settings are reapplied")
}

func TestGovernorCounterError(t *testing.T) {
	st := store.New(zerolog.Nop())
	_, err := NewGovernor(st, Options{Meter: countingMeter{err: errors.New("boom")}}, zerolog.Nop())
	assert.ErrorContains(t, err, "boom")
}

// round feeds frames at fps until the monitor completes one verdict.
func round(m *Monitor, fps int) Signal {
	dt := time.Second / time.Duration(fps)
	for i := 0; i < 100000; i++ {
		sig := m.Sample(dt)
		if sig != SignalNone {
			return sig
		}
		if m.frames == 0 && len(m.averages) == 0 {
			return SignalNone
		}
	}
	return SignalNone
}

func TestMonitorSignals(t *testing.T) {
	tests := []struct {
		fps  int
		want Signal
	}{
		{60, SignalIncline},
		{20, SignalDecline},
		{40, SignalNone},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			m := NewMonitor(DefaultMonitorOptions())
			assert.Equal(t, tt.want, round(m, tt.fps))
			assert.InDelta(t, tt.fps, m.FPS(), 1)
		})
	}
}

func TestMonitorNeedsFullWindowSet(t *testing.T) {
	m := NewMonitor(DefaultMonitorOptions())
	dt := time.Second / 20
	// Nine windows of slow frames are not enough for a verdict.
	for i := 0; i < 9*5; i++ {
		assert.Equal(t, SignalNone, m.Sample(dt))
	}
	assert.Len(t, m.averages, 9)
}

func TestMonitorFallsBackAfterFlipFlops(t *testing.T) {
	m := NewMonitor(DefaultMonitorOptions())
	assert.Equal(t, SignalDecline, round(m, 20))
	assert.Equal(t, SignalIncline, round(m, 60))
	assert.Equal(t, SignalDecline, round(m, 20))
	assert.False(t, m.Fallback())

	assert.Equal(t, SignalNone, round(m, 60))
	assert.True(t, m.Fallback())
	assert.Equal(t, SignalNone, m.Sample(time.Second))
}

func TestMonitorRepeatedDirectionIsNotAFlip(t *testing.T) {
	m := NewMonitor(DefaultMonitorOptions())
	for i := 0; i < 5; i++ {
		assert.Equal(t, SignalDecline, round(m, 20))
	}
	assert.False(t, m.Fallback())
}

func TestDrive(t *testing.T) {
	g, st, _ := newGovernor(t)
	m := NewMonitor(DefaultMonitorOptions())
	dt := time.Second / 20
	now := time.Duration(0)
	var got []Signal
	for i := 0; i < 200; i++ {
		now += dt
		if sig := Drive(m, g, dt, now); sig != SignalNone {
			got = append(got, sig)
		}
	}
	// 200 frames at 20 fps is 10s: four verdicts, the cooldown never overlaps.
	assert.Equal(t, []Signal{SignalDecline, SignalDecline, SignalDecline, SignalDecline}, got)
	assert.Equal(t, store.PerfLow, st.Snapshot().PerfMode)
}
