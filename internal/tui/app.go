// Package tui is a terminal front-end: a top-down radar of the course driven by
// tcell, with key-repeat hold emulation standing in for key releases.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"vimana/internal/content"
	"vimana/internal/game"
	"vimana/internal/hud"
	"vimana/internal/interaction"
	"vimana/internal/world"
)

// Canvas is the part of tcell.Screen the radar draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

const (
	DefaultFrame = 33 * time.Millisecond
	sidebarWidth = 44
)

var (
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleSolid   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	solidGlyphs  = map[world.SolidKind]rune{world.SolidSpawnPad: '░', world.SolidPlatform: '▒', world.SolidIsland: '█'}
	entityGlyphs = map[interaction.Kind]rune{interaction.KindCrystal: '◆', interaction.KindPortal: 'O', interaction.KindCollectible: '*'}
)

type Options struct {
	Frame   time.Duration
	Initial time.Duration
	Repeat  time.Duration
	Scale   float32
}

func DefaultOptions() Options {
	return Options{Frame: DefaultFrame, Initial: DefaultInitialHold, Repeat: DefaultRepeatHold, Scale: DefaultScale}
}

// App runs one session in a terminal.
type App struct {
	s      *game.Session
	cat    *content.Catalog
	holder *Holder
	radar  Radar
	frame  time.Duration
	log    zerolog.Logger
}

func New(s *game.Session, cat *content.Catalog, opts Options, log zerolog.Logger) *App {
	if opts.Frame <= 0 {
		opts.Frame = DefaultFrame
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	return &App{
		s:      s,
		cat:    cat,
		holder: NewHolder(s.Input, opts.Initial, opts.Repeat),
		radar:  Radar{Scale: opts.Scale},
		frame:  opts.Frame,
		log:    log,
	}
}

// HandleKey applies one key event. Returns false when the user asked to quit.
func (a *App) HandleKey(ev *tcell.EventKey) bool {
	if IsQuit(ev) {
		return false
	}
	switch {
	case ev.Key() == tcell.KeyRune && ev.Rune() == '+':
		a.radar.Zoom(0.5)
		return true
	case ev.Key() == tcell.KeyRune && ev.Rune() == '-':
		a.radar.Zoom(2)
		return true
	}
	if code, ok := CodeFor(ev); ok {
		a.holder.Press(code, a.s.Elapsed())
	}
	return true
}

// Step releases lapsed holds and advances the session by dt.
func (a *App) Step(dt time.Duration) {
	a.holder.Expire(a.s.Elapsed())
	a.s.Frame(dt)
}

// Draw paints the radar and the sidebar. The caller clears and shows the screen.
func (a *App) Draw(c Canvas) {
	w, h := c.Size()
	radarW := w - sidebarWidth
	if radarW < 10 {
		radarW = w
	}
	center := a.s.World.Player.Position()

	for _, sol := range a.s.World.Solids {
		g, ok := solidGlyphs[sol.Kind]
		if !ok {
			continue
		}
		lo, hi := sol.Body.Bounds()
		for x := lo[0]; x <= hi[0]; x += a.radar.Scale {
			for z := lo[2]; z <= hi[2]; z += 2 * a.radar.Scale {
				if cx, cy, ok := a.radar.Project(center, [3]float32{x, 0, z}, radarW, h); ok {
					c.SetContent(cx, cy, g, nil, styleSolid)
				}
			}
		}
	}
	for _, e := range a.s.World.Field.Entities() {
		if e.Kind == interaction.KindCollectible && e.State == interaction.StateConsumed {
			continue
		}
		if x, y, ok := a.radar.Project(center, e.Position, radarW, h); ok {
			st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(e.Color[0]), int32(e.Color[1]), int32(e.Color[2])))
			if e.State == interaction.StateInRange {
				st = st.Reverse(true)
			}
			c.SetContent(x, y, entityGlyphs[e.Kind], nil, st)
		}
	}
	c.SetContent(radarW/2, h/2, HeadingGlyph(a.s.World.Player.Rotation()), nil, stylePlayer)

	v := hud.Build(a.s.Store.Snapshot(), a.cat, a.s.World.Field.TransitionProgress())
	if v.Prompt != "" {
		drawText(c, (radarW-len(v.Prompt))/2, h/2+2, v.Prompt, styleStatus)
	}
	x := radarW + 1
	if radarW == w {
		x = 0
	}
	y := 0
	for _, line := range v.Telemetry {
		drawText(c, x, y, line, styleText)
		y++
	}
	if v.Status != "" {
		drawText(c, x, y, v.Status, styleStatus)
		y++
	}
	if v.Toast != "" {
		drawText(c, x, y, v.Toast, styleStatus)
		y++
	}
	y++
	for _, card := range []*hud.Card{v.Project, v.Panel} {
		if card == nil {
			continue
		}
		drawText(c, x, y, card.Title, stylePlayer)
		y++
		for _, line := range card.Lines {
			if y >= h-1 {
				break
			}
			drawText(c, x, y, line, styleText)
			y++
		}
		drawText(c, x, y, card.Hint, styleDim)
		y += 2
	}
	drawText(c, 0, h-1, "WASD fly  SPACE/X up/down  G gear  F interact  ENTER launch  +/- zoom  Q quit", styleDim)
}

func drawText(c Canvas, x, y int, s string, style tcell.Style) {
	w, h := c.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range s {
		if x >= w {
			return
		}
		if x >= 0 {
			c.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

// Run drives screen until ctx is done or the user quits.
func (a *App) Run(ctx context.Context, screen tcell.Screen) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()
	a.log.Info().Dur("frame", a.frame).Msg("terminal front-end started")
	defer func() { a.log.Info().Uint64("frames", a.s.Frames()).Msg("terminal front-end stopped") }()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			a.Step(now.Sub(last))
			last = now
			screen.Clear()
			a.Draw(screen)
			screen.Show()
		}
	}
}
