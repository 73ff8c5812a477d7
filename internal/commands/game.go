package commands

import (
	"fmt"
	"strings"

	"vimana/internal/game"
	"vimana/internal/store"
)

// Hooks are renderer toggles the console can flip. Nil hooks make the matching
// commands report that the overlay is unavailable.
type Hooks struct {
	ShowFPS      func(bool)
	ShowMemAlloc func(bool)
	ShowGrid     func(bool)
}

// RegisterGame installs the gameplay console commands for s. Results are written
// through out, one line per call.
func RegisterGame(r *Registry, s *game.Session, hooks Hooks, out func(string)) {
	{
		fs := NewFlagSet("gear")
		up := fs.Bool("up", false, "retract the landing gear")
		down := fs.Bool("down", false, "deploy the landing gear")
		r.Register("gear", "gear [-up|-down]", fs, func() error {
			defer resetBools(up, down)
			switch {
			case *up && *down:
				return fmt.Errorf("gear: -up and -down are exclusive")
			case *up:
				s.Flight.SetGear(false)
			case *down:
				s.Flight.SetGear(true)
			default:
				s.Flight.SetGear(!s.Store.GearDeployed())
			}
			out(fmt.Sprintf("gear deployed: %t", s.Store.GearDeployed()))
			return nil
		})
	}
	{
		fs := NewFlagSet("phase")
		r.Register("phase", "phase <hangar|transitioning|playing>", fs, func() error {
			if fs.NArg() == 0 {
				out("phase: " + s.Store.Phase().String())
				return nil
			}
			p, err := store.ParsePhase(fs.Arg(0))
			if err != nil {
				return err
			}
			if p == store.PhaseTransitioning {
				// only the field can run the launch timer
				if !s.World.Field.Launch() {
					return fmt.Errorf("phase: launch only from %s", store.PhaseHangar)
				}
			} else {
				s.Store.SetPhase(p)
			}
			out("phase: " + s.Store.Phase().String())
			return nil
		})
	}
	{
		fs := NewFlagSet("perf")
		r.Register("perf", "perf [decline|incline]", fs, func() error {
			now := s.Elapsed()
			switch fs.Arg(0) {
			case "":
			case "decline":
				if !s.Governor.Decline(now) {
					out("perf: no change")
				}
			case "incline":
				if !s.Governor.Incline(now) {
					out("perf: no change")
				}
			default:
				return fmt.Errorf("perf: unknown action %q", fs.Arg(0))
			}
			snap := s.Store.Snapshot()
			out(fmt.Sprintf("perf: %s dpr=%.1f bloom=%t optimizing=%t", snap.PerfMode, snap.DPR, snap.Bloom, snap.Optimizing))
			return nil
		})
	}
	{
		fs := NewFlagSet("unlock")
		r.Register("unlock", "unlock <project-id>", fs, func() error {
			id := fs.Arg(0)
			if _, ok := s.World.Catalog.Project(id); !ok {
				return fmt.Errorf("unlock: unknown project %q", id)
			}
			if s.Store.UnlockProject(id) {
				out("unlocked " + id)
			} else {
				out(id + " already unlocked")
			}
			return nil
		})
	}
	{
		fs := NewFlagSet("collect")
		r.Register("collect", "collect <skill-id>", fs, func() error {
			id := fs.Arg(0)
			if _, ok := s.World.Catalog.Skill(id); !ok {
				return fmt.Errorf("collect: unknown skill %q", id)
			}
			if s.World.Field.Collect(id, s.Elapsed()) {
				out("collected " + id)
			} else {
				out(id + " already collected")
			}
			return nil
		})
	}
	{
		fs := NewFlagSet("panel")
		r.Register("panel", "panel <none|about|skills|contact>", fs, func() error {
			p, err := store.ParsePanel(fs.Arg(0))
			if err != nil {
				return err
			}
			s.Store.SetActivePanel(p)
			return nil
		})
	}
	{
		fs := NewFlagSet("fps")
		show := fs.Bool("show", true, "show the FPS counter")
		mem := fs.Bool("mem", false, "also show heap allocation")
		r.Register("fps", "fps [-show=false] [-mem]", fs, func() error {
			defer func() { *show, *mem = true, false }()
			if hooks.ShowFPS == nil {
				return fmt.Errorf("fps: overlay unavailable")
			}
			hooks.ShowFPS(*show)
			if hooks.ShowMemAlloc != nil {
				hooks.ShowMemAlloc(*show && *mem)
			}
			return nil
		})
	}
	{
		fs := NewFlagSet("grid")
		show := fs.Bool("show", true, "show the editor grid")
		r.Register("grid", "grid [-show=false]", fs, func() error {
			defer func() { *show = true }()
			if hooks.ShowGrid == nil {
				return fmt.Errorf("grid: overlay unavailable")
			}
			hooks.ShowGrid(*show)
			return nil
		})
	}
	{
		fs := NewFlagSet("status")
		r.Register("status", "status", fs, func() error {
			out(Status(s.Store.Snapshot()))
			return nil
		})
	}
	{
		fs := NewFlagSet("help")
		r.Register("help", "help", fs, func() error {
			for _, n := range r.Names() {
				u, _ := r.Usage(n)
				out("cmd " + u)
			}
			return nil
		})
	}
}

// Status renders a one-line summary of a store snapshot.
func Status(s store.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "phase=%s alt=%.1f speed=%.1f gear=%t", s.Phase, s.Telemetry.Altitude, s.Telemetry.Speed, s.GearDeployed)
	fmt.Fprintf(&b, " projects=%d skills=%d perf=%s", len(s.UnlockedProjects), len(s.CollectedSkills), s.PerfMode)
	if s.CurrentProjectID != "" {
		fmt.Fprintf(&b, " open=%s", s.CurrentProjectID)
	}
	if s.ActivePanel != store.PanelNone {
		fmt.Fprintf(&b, " panel=%s", s.ActivePanel)
	}
	return b.String()
}

// resetBools clears flag values between runs; a FlagSet keeps state across Parse calls.
func resetBools(flags ...*bool) {
	for _, f := range flags {
		*f = false
	}
}
