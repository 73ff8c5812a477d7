// Package game runs one play session: it owns the store, input, course, flight
// controller and quality governor, and advances them in frame order.
package game

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vimana/internal/content"
	"vimana/internal/engineconfig"
	"vimana/internal/flight"
	"vimana/internal/input"
	"vimana/internal/interaction"
	"vimana/internal/perf"
	"vimana/internal/store"
	"vimana/internal/world"
)

// Options configures a session.
type Options struct {
	World   world.Options
	Perf    perf.Options
	Monitor perf.MonitorOptions
	// Headless sessions have no meaningful frame rate, so the monitor is skipped.
	Headless bool
}

func DefaultOptions() Options {
	return Options{
		World:   world.DefaultOptions(),
		Perf:    perf.Options{Cooldown: perf.DefaultCooldown},
		Monitor: perf.DefaultMonitorOptions(),
	}
}

// OptionsFromPrefs maps engine preferences onto session options.
func OptionsFromPrefs(p engineconfig.EnginePrefs) Options {
	o := DefaultOptions()
	o.World.Interaction = interaction.Options{
		TransitionDuration: p.Game.TransitionDuration,
		ToastDuration:      p.Game.ToastDuration,
	}
	o.Perf.Cooldown = p.Perf.Cooldown
	o.Monitor = perf.MonitorOptions{
		Window:     p.Perf.Window,
		Iterations: p.Perf.Iterations,
		LowFPS:     p.Perf.LowFPS,
		HighFPS:    p.Perf.HighFPS,
		FlipFlops:  p.Perf.FlipFlops,
	}
	return o
}

// Session is a running game. Frame must be called from a single goroutine; key
// events may arrive on any goroutine through Input.
type Session struct {
	Store      *store.Store
	Input      *input.State
	Dispatcher *input.Dispatcher
	World      *world.World
	Flight     *flight.Controller
	Governor   *perf.Governor
	Monitor    *perf.Monitor

	log     zerolog.Logger
	elapsed time.Duration
	frames  uint64
}

// New builds the course and wires every component to a fresh store.
func New(cat *content.Catalog, opts Options, log zerolog.Logger) (*Session, error) {
	st := store.New(log.With().Str("component", "store").Logger())
	disp := input.NewDispatcher()

	w, err := world.Build(cat, st, disp, opts.World, log.With().Str("component", "world").Logger())
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	gov, err := perf.NewGovernor(st, opts.Perf, log.With().Str("component", "perf").Logger())
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("create governor: %w", err)
	}

	ctl := flight.NewController(st, w.Physics, log.With().Str("component", "flight").Logger())
	ctl.Attach(w.Player)

	s := &Session{
		Store:      st,
		Input:      input.NewState(disp),
		Dispatcher: disp,
		World:      w,
		Flight:     ctl,
		Governor:   gov,
		log:        log,
	}
	if !opts.Headless {
		s.Monitor = perf.NewMonitor(opts.Monitor)
	}
	return s, nil
}

// Frame advances the session by dt.
func (s *Session) Frame(dt time.Duration) {
	if dt <= 0 {
		return
	}
	s.elapsed += dt
	s.frames++
	step := float32(dt.Seconds())

	flags := s.Input.Snapshot()
	s.Dispatcher.Flush()

	s.Flight.Tick(step, float32(s.elapsed.Seconds()), flags)
	s.World.Physics.Step(step)
	s.World.Field.Update(s.World.Player.Position(), s.elapsed)

	if s.Monitor != nil {
		if sig := perf.Drive(s.Monitor, s.Governor, dt, s.elapsed); sig != perf.SignalNone {
			s.log.Debug().Stringer("signal", sig).Float32("fps", s.Monitor.FPS()).Msg("frame rate verdict")
		}
	} else {
		s.Governor.Update(s.elapsed)
	}
}

// Elapsed is the session clock.
func (s *Session) Elapsed() time.Duration { return s.elapsed }

// Frames is the number of frames run.
func (s *Session) Frames() uint64 { return s.frames }

// Close releases listeners.
func (s *Session) Close() {
	s.World.Close()
}
