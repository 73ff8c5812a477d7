// Command headless flies a scripted route at a fixed time step without a window
// and prints telemetry, for tuning the flight model and checking progression.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"vimana/internal/commands"
	"vimana/internal/content"
	"vimana/internal/game"
	"vimana/internal/logger"
)

// keyEvent presses or releases a key at a point on the session clock.
type keyEvent struct {
	at   time.Duration
	code string
	down bool
}

// route launches, raises the gear, climbs, and heads up the course toward the
// about crystal while weaving.
var route = []keyEvent{
	{500 * time.Millisecond, "Enter", true},
	{550 * time.Millisecond, "Enter", false},
	{2500 * time.Millisecond, "KeyW", true},
	{3 * time.Second, "KeyG", true},
	{3050 * time.Millisecond, "KeyG", false},
	{4 * time.Second, "Space", true},
	{5 * time.Second, "Space", false},
	{6 * time.Second, "KeyA", true},
	{6500 * time.Millisecond, "KeyA", false},
	{7 * time.Second, "KeyD", true},
	{7500 * time.Millisecond, "KeyD", false},
	{9 * time.Second, "KeyF", true},
	{9050 * time.Millisecond, "KeyF", false},
}

func main() {
	duration := flag.Duration("duration", 12*time.Second, "simulated time to run")
	step := flag.Duration("dt", time.Second/60, "fixed frame time")
	every := flag.Int("every", 30, "print telemetry every N frames")
	level := flag.String("log", "warn", "log level")
	flag.Parse()

	if err := run(*duration, *step, *every, *level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(duration, step time.Duration, every int, level string) error {
	if step <= 0 || every <= 0 {
		return fmt.Errorf("dt and every must be positive")
	}
	log, err := logger.New(logger.Options{Level: level, Console: true})
	if err != nil {
		return err
	}
	defer log.Close()

	cat, err := content.Default()
	if err != nil {
		return err
	}
	opts := game.DefaultOptions()
	opts.Headless = true
	s, err := game.New(cat, opts, log.Zerolog())
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Println("time\tphase\talt\tspeed\tground\tboost\tgear")
	next := 0
	for s.Elapsed() < duration {
		for next < len(route) && route[next].at <= s.Elapsed() {
			ev := route[next]
			if ev.down {
				s.Input.KeyDown(ev.code)
			} else {
				s.Input.KeyUp(ev.code)
			}
			next++
		}
		s.Frame(step)

		if s.Frames()%uint64(every) == 0 {
			snap := s.Store.Snapshot()
			t := snap.Telemetry
			fmt.Printf("%.2f\t%s\t%.2f\t%.2f\t%.2f\t%t\t%t\n",
				s.Elapsed().Seconds(), snap.Phase, t.Altitude, t.Speed, t.GroundDistance, t.Boost, snap.GearDeployed)
		}
	}
	fmt.Println(commands.Status(s.Store.Snapshot()))
	return nil
}
