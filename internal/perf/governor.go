package perf

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"vimana/internal/store"
)

// DefaultCooldown is the quiet period after a tier change.
const DefaultCooldown = 2 * time.Second

// Tier is the render configuration applied for one quality mode.
type Tier struct {
	Mode  store.PerfMode
	DPR   float32
	Bloom bool
}

// Tiers is ordered from highest to lowest quality, indexed by store.PerfMode.
var Tiers = [...]Tier{
	{Mode: store.PerfHigh, DPR: 2, Bloom: true},
	{Mode: store.PerfMedium, DPR: 1, Bloom: true},
	{Mode: store.PerfLow, DPR: 0.5, Bloom: false},
}

// TierFor returns the settings of mode.
func TierFor(mode store.PerfMode) Tier {
	if int(mode) >= len(Tiers) {
		return Tiers[len(Tiers)-1]
	}
	return Tiers[mode]
}

// Options configures a Governor.
type Options struct {
	Cooldown time.Duration
	// Meter receives the tier transition counter. Nil uses a no-op meter.
	Meter metric.Meter
}

// Governor steps the quality tier one level at a time in response to decline and
// incline signals, with a cooldown that swallows further signals.
// Not safe for concurrent use; call from the frame goroutine.
type Governor struct {
	store    *store.Store
	cooldown time.Duration
	log      zerolog.Logger

	mode          store.PerfMode
	cooling       bool
	cooldownUntil time.Duration

	transitions metric.Int64Counter
}

// NewGovernor starts at the store's current mode and applies its settings.
func NewGovernor(st *store.Store, opts Options, log zerolog.Logger) (*Governor, error) {
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	meter := opts.Meter
	if meter == nil {
		meter = noop.Meter{}
	}
	counter, err := meter.Int64Counter("vimana.perf.tier_transitions",
		metric.WithDescription("Render quality tier changes"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create tier transition counter: %w", err)
	}
	g := &Governor{
		store:       st,
		cooldown:    opts.Cooldown,
		log:         log,
		mode:        st.Snapshot().PerfMode,
		transitions: counter,
	}
	g.apply()
	return g, nil
}

// Mode returns the current tier.
func (g *Governor) Mode() store.PerfMode { return g.mode }

// CoolingDown reports whether signals are currently being ignored.
func (g *Governor) CoolingDown() bool { return g.cooling }

// Decline drops one tier. Returns whether the tier changed.
func (g *Governor) Decline(now time.Duration) bool {
	if g.blocked(now) || g.mode == store.PerfLow {
		return false
	}
	g.step(g.mode+1, "decline", now)
	return true
}

// Incline raises one tier. Returns whether the tier changed.
func (g *Governor) Incline(now time.Duration) bool {
	if g.blocked(now) || g.mode == store.PerfHigh {
		return false
	}
	g.step(g.mode-1, "incline", now)
	return true
}

// Update ends the cooldown once it has expired.
func (g *Governor) Update(now time.Duration) {
	if g.cooling && now >= g.cooldownUntil {
		g.cooling = false
		g.store.SetOptimizing(false)
	}
}

func (g *Governor) blocked(now time.Duration) bool {
	return g.cooling && now < g.cooldownUntil
}

func (g *Governor) step(to store.PerfMode, direction string, now time.Duration) {
	from := g.mode
	g.mode = to
	g.apply()
	g.cooling = true
	g.cooldownUntil = now + g.cooldown
	g.store.SetOptimizing(true)

	g.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("mode", to.String()),
	))
	g.log.Info().Stringer("from", from).Stringer("to", to).Str("direction", direction).Msg("render tier changed")
}

func (g *Governor) apply() {
	t := TierFor(g.mode)
	g.store.SetPerf(t.Mode, t.DPR, t.Bloom)
}
