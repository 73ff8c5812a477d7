package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vimana/internal/content"
	"vimana/internal/game"
	"vimana/internal/store"
)

type event struct {
	code string
	down bool
}

type recorder struct{ events []event }

func (r *recorder) KeyDown(code string) bool {
	r.events = append(r.events, event{code, true})
	return true
}

func (r *recorder) KeyUp(code string) bool {
	r.events = append(r.events, event{code, false})
	return true
}

func TestHolderEmulatesRelease(t *testing.T) {
	rec := &recorder{}
	h := NewHolder(rec, 500*time.Millisecond, 100*time.Millisecond)

	h.Press("KeyW", 0)
	h.Expire(400 * time.Millisecond)
	assert.True(t, h.Held("KeyW"))

	// auto-repeats keep the key down without new KeyDown calls
	h.Press("KeyW", 450*time.Millisecond)
	h.Press("KeyW", 520*time.Millisecond)
	h.Expire(600 * time.Millisecond)
	assert.True(t, h.Held("KeyW"))

	h.Expire(620 * time.Millisecond)
	assert.False(t, h.Held("KeyW"))
	assert.Equal(t, []event{{"KeyW", true}, {"KeyW", false}}, rec.events)
}

func TestHolderReleasesInCodeOrder(t *testing.T) {
	rec := &recorder{}
	h := NewHolder(rec, 0, 0)
	h.Press("KeyW", 0)
	h.Press("KeyA", 0)
	h.Expire(DefaultInitialHold)
	assert.Equal(t, []event{{"KeyW", true}, {"KeyA", true}, {"KeyA", false}, {"KeyW", false}}, rec.events)
}

func TestCodeFor(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		code string
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), "KeyW", true},
		{tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModShift), "KeyW", true},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "Space", true},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), "ShiftLeft", true},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), "ArrowLeft", true},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter", true},
		{tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), "", false},
	}
	for _, c := range cases {
		code, ok := CodeFor(c.ev)
		assert.Equal(t, c.ok, ok, c.code)
		assert.Equal(t, c.code, code)
	}
	assert.True(t, IsQuit(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.True(t, IsQuit(tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift)))
	assert.False(t, IsQuit(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
}

func TestRadarProject(t *testing.T) {
	r := Radar{Scale: 4}
	x, y, ok := r.Project(mgl32.Vec3{}, mgl32.Vec3{8, 50, -16}, 40, 20)
	require.True(t, ok)
	assert.Equal(t, 22, x)
	assert.Equal(t, 8, y)

	_, _, ok = r.Project(mgl32.Vec3{}, mgl32.Vec3{0, 0, -400}, 40, 20)
	assert.False(t, ok)

	r.Zoom(0.1)
	assert.Equal(t, float32(1), r.Scale)
	r.Zoom(1000)
	assert.Equal(t, float32(64), r.Scale)
}

func TestHeadingGlyph(t *testing.T) {
	assert.Equal(t, '▲', HeadingGlyph(mgl32.QuatIdent()))
	assert.Equal(t, '◀', HeadingGlyph(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})))
	assert.Equal(t, '▼', HeadingGlyph(mgl32.QuatRotate(mgl32.DegToRad(180), mgl32.Vec3{0, 1, 0})))
	assert.Equal(t, '▶', HeadingGlyph(mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{0, 1, 0})))
}

type grid struct {
	w, h  int
	cells map[[2]int]rune
}

func newGrid(w, h int) *grid { return &grid{w: w, h: h, cells: make(map[[2]int]rune)} }

func (g *grid) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	g.cells[[2]int{x, y}] = r
}

func (g *grid) Size() (int, int) { return g.w, g.h }

func (g *grid) row(y int) string {
	out := make([]rune, g.w)
	for x := range out {
		if r, ok := g.cells[[2]int{x, y}]; ok {
			out[x] = r
		} else {
			out[x] = ' '
		}
	}
	return string(out)
}

func newApp(t *testing.T) *App {
	t.Helper()
	cat, err := content.Default()
	require.NoError(t, err)
	opts := game.DefaultOptions()
	opts.Headless = true
	s, err := game.New(cat, opts, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return New(s, cat, DefaultOptions(), zerolog.Nop())
}

func TestDrawHangar(t *testing.T) {
	a := newApp(t)
	g := newGrid(100, 40)
	a.Draw(g)

	radarW := 100 - sidebarWidth
	assert.Equal(t, '▲', g.cells[[2]int{radarW / 2, 20}])
	// about crystal at z=-30 sits 4 rows up at the default scale
	assert.Equal(t, '◆', g.cells[[2]int{radarW / 2, 16}])
	assert.Contains(t, g.row(22), "PRESS [ENTER] TO LAUNCH")
	assert.Contains(t, g.row(39), "Q quit")
}

func TestKeysDriveSession(t *testing.T) {
	a := newApp(t)
	const dt = time.Second / 60

	require.True(t, a.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	a.Step(dt)
	assert.Equal(t, store.PhaseTransitioning, a.s.Store.Phase())
	for a.s.Store.Phase() != store.PhasePlaying && a.s.Elapsed() < 3*time.Second {
		a.Step(dt)
	}
	require.Equal(t, store.PhasePlaying, a.s.Store.Phase())

	start := a.s.World.Player.Position()
	a.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	for i := 0; i < 20; i++ {
		a.Step(dt)
	}
	assert.True(t, a.s.Input.IsDown("KeyW"))
	assert.Less(t, a.s.World.Player.Position()[2], start[2])

	// no repeats arrive, so the hold lapses
	for i := 0; i < 40; i++ {
		a.Step(dt)
	}
	assert.False(t, a.s.Input.IsDown("KeyW"))

	g := newGrid(100, 40)
	a.Draw(g)
	assert.Contains(t, g.row(0), "ALT")

	assert.False(t, a.HandleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
}

func TestZoomKeys(t *testing.T) {
	a := newApp(t)
	a.HandleKey(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	assert.Equal(t, float32(2), a.radar.Scale)
	a.HandleKey(tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone))
	a.HandleKey(tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone))
	assert.Equal(t, float32(8), a.radar.Scale)
}
