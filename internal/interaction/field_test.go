package interaction

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vimana/internal/input"
	"vimana/internal/physics"
	"vimana/internal/store"
)

type env struct {
	store  *store.Store
	disp   *input.Dispatcher
	world  *physics.World
	player *physics.Body
	field  *Field
}

func newEnv(t *testing.T, opts Options) *env {
	t.Helper()
	st := store.New(zerolog.Nop())
	disp := input.NewDispatcher()
	w := physics.NewWorld()
	w.SetGravity(mgl32.Vec3{})
	player := physics.NewBody(mgl32.Vec3{}, mgl32.Vec3{0.5, 0.5, 0.5}, 1, false)
	w.AddBody(player)
	f := NewField(st, disp, w, player, opts, zerolog.Nop())
	t.Cleanup(f.Close)
	return &env{store: st, disp: disp, world: w, player: player, field: f}
}

func (e *env) press(a input.Action) {
	e.disp.Press(a)
	e.disp.Flush()
}

func TestCrystalScenario(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	c := e.field.AddCrystal("about", mgl32.Vec3{0, 8, -30}, store.PanelAbout, [3]uint8{255, 200, 0})

	e.field.Update(mgl32.Vec3{0, 2, 0}, 0)
	assert.Equal(t, StateIdle, c.State)
	assert.Zero(t, e.disp.Listeners(input.ActionInteract))

	e.press(input.ActionInteract)
	assert.Equal(t, store.PanelNone, e.store.ActivePanel(), "press out of range does nothing")

	e.field.Update(mgl32.Vec3{0, 8, -20}, time.Second)
	assert.Equal(t, StateInRange, c.State)
	assert.True(t, c.Listening())
	assert.Equal(t, 1, e.disp.Listeners(input.ActionInteract))

	e.field.Update(mgl32.Vec3{0, 8, -21}, time.Second)
	assert.Equal(t, 1, e.disp.Listeners(input.ActionInteract), "staying in range keeps one listener")

	e.press(input.ActionInteract)
	assert.Equal(t, store.PanelAbout, e.store.ActivePanel())
	assert.Equal(t, StateInRange, c.State, "crystals are not one-shot")

	e.store.SetActivePanel(store.PanelNone)
	e.field.Update(mgl32.Vec3{0, 8, 0}, 2*time.Second)
	assert.Equal(t, StateIdle, c.State)
	assert.False(t, c.Listening())
	assert.Zero(t, e.disp.Listeners(input.ActionInteract))

	e.press(input.ActionInteract)
	assert.Equal(t, store.PanelNone, e.store.ActivePanel(), "removed listener never fires")
}

func TestQueuedPressAfterLeavingRange(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.field.AddCrystal("skills", mgl32.Vec3{}, store.PanelSkills, [3]uint8{})
	e.field.Update(mgl32.Vec3{}, 0)

	e.disp.Press(input.ActionInteract)
	e.field.Update(mgl32.Vec3{100, 0, 0}, 0)
	e.disp.Flush()
	assert.Equal(t, store.PanelNone, e.store.ActivePanel())
}

func TestCrystalRangeBoundary(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	c := e.field.AddCrystal("contact", mgl32.Vec3{}, store.PanelContact, [3]uint8{})
	e.field.Update(mgl32.Vec3{CrystalRadius, 0, 0}, 0)
	assert.Equal(t, StateIdle, c.State)
	assert.Zero(t, e.disp.Listeners(input.ActionInteract))

	e.field.Update(mgl32.Vec3{CrystalRadius - 0.01, 0, 0}, 0)
	assert.Equal(t, StateInRange, c.State)

	e.field.Update(mgl32.Vec3{CrystalRadius, 0, 0}, 0)
	assert.Equal(t, StateIdle, c.State)
}

func TestCollectibleRangeBoundary(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	c := e.field.AddCollectible("rust", mgl32.Vec3{}, [3]uint8{})
	e.field.Update(mgl32.Vec3{0, 0, PickupDistance}, time.Second)
	assert.Equal(t, StateIdle, c.State)
	assert.False(t, e.store.IsCollected("rust"))

	e.field.Update(mgl32.Vec3{0, 0, PickupDistance - 0.01}, time.Second)
	assert.Equal(t, StateConsumed, c.State)
	assert.True(t, e.store.IsCollected("rust"))
}

func TestLaunch(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.field.Update(mgl32.Vec3{}, time.Second)
	require.True(t, e.field.Launch())
	assert.Equal(t, store.PhaseTransitioning, e.store.Phase())
	assert.False(t, e.field.Launch())

	e.field.Update(mgl32.Vec3{}, 2500*time.Millisecond)
	assert.Equal(t, store.PhasePlaying, e.store.Phase())
	assert.False(t, e.field.Launch())
}

func TestTransitionEndRespectsForcedPhase(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	require.True(t, e.field.Launch())
	e.store.SetPhase(store.PhaseHangar)
	e.field.Update(mgl32.Vec3{}, 2*time.Second)
	assert.Equal(t, store.PhaseHangar, e.store.Phase())
	assert.Zero(t, e.field.TransitionProgress())
}

func TestPortalUnlocksOnce(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	notified := 0
	e.store.Subscribe(func(s store.Snapshot) { notified++ })
	p := e.field.AddPortal("drone-nav", mgl32.Vec3{0, 0, -10}, [3]uint8{})
	require.NotNil(t, p.Sensor())
	assert.Contains(t, e.world.Bodies, p.Sensor())

	e.player.SetPosition(mgl32.Vec3{0, 3, -10})
	for i := 0; i < 5; i++ {
		e.world.Step(1.0 / 60)
	}
	assert.True(t, e.store.IsUnlocked("drone-nav"))
	assert.Equal(t, "drone-nav", e.store.CurrentProject())
	assert.Equal(t, StateConsumed, p.State)
	assert.Equal(t, 2, notified, "one unlock and one open")

	p.sensor.OnEnter(p.sensor, e.player)
	assert.Equal(t, 2, notified, "duplicate enter without exit is ignored")
}

func TestPortalReentryReopensProject(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	p := e.field.AddPortal("brain-tumor", mgl32.Vec3{}, [3]uint8{})

	e.player.SetPosition(mgl32.Vec3{0, 3, 0})
	e.world.Step(1.0 / 60)
	e.press(input.ActionCancel)
	assert.Empty(t, e.store.CurrentProject())

	e.player.SetPosition(mgl32.Vec3{0, 3, 20})
	e.world.Step(1.0 / 60)
	e.player.SetPosition(mgl32.Vec3{0, 3, 0})
	e.world.Step(1.0 / 60)
	assert.Equal(t, "brain-tumor", e.store.CurrentProject())
	assert.Equal(t, []string{"brain-tumor"}, e.store.Snapshot().UnlockedProjects)
	assert.Equal(t, StateConsumed, p.State)
}

func TestPortalIgnoresOtherBodies(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.field.AddPortal("cyber-vedic", mgl32.Vec3{}, [3]uint8{})
	e.player.SetPosition(mgl32.Vec3{0, 0, 100})
	rock := physics.NewBody(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{0.5, 0.5, 0.5}, 1, false)
	rock.GravityScale = 0
	e.world.AddBody(rock)
	e.world.Step(1.0 / 60)
	assert.False(t, e.store.IsUnlocked("cyber-vedic"))
}

func TestPortalStartsConsumedWhenUnlocked(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.store.UnlockProject("drone-nav")
	p := e.field.AddPortal("drone-nav", mgl32.Vec3{}, [3]uint8{})
	assert.Equal(t, StateConsumed, p.State)
}

func TestCollectibleOneShot(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	c := e.field.AddCollectible("go", mgl32.Vec3{0, 30, -250}, [3]uint8{})

	e.field.Update(mgl32.Vec3{0, 30, -244}, time.Second)
	assert.Equal(t, StateIdle, c.State)

	e.field.Update(mgl32.Vec3{0, 30, -246}, time.Second)
	assert.Equal(t, StateConsumed, c.State)
	assert.True(t, e.store.IsCollected("go"))
	assert.Equal(t, "go", e.store.LastCollectedSkill())

	e.field.Update(mgl32.Vec3{0, 30, -500}, 2*time.Second)
	e.field.Update(mgl32.Vec3{0, 30, -250}, 2*time.Second)
	assert.Equal(t, StateConsumed, c.State, "consumed is irreversible")
	assert.Len(t, e.store.Snapshot().CollectedSkills, 1)
}

func TestCollectibleStartsConsumedWhenCollected(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.store.CollectSkill("rust", 0)
	c := e.field.AddCollectible("rust", mgl32.Vec3{}, [3]uint8{})
	assert.Equal(t, StateConsumed, c.State)
	assert.True(t, c.OneShot)
}

func TestToastExpiresOnFrameClock(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.field.AddCollectible("go", mgl32.Vec3{}, [3]uint8{})
	e.field.Update(mgl32.Vec3{}, time.Second)
	require.Equal(t, "go", e.store.LastCollectedSkill())

	e.field.Update(mgl32.Vec3{}, 3*time.Second)
	assert.Equal(t, "go", e.store.LastCollectedSkill())
	e.field.Update(mgl32.Vec3{}, 3500*time.Millisecond)
	assert.Empty(t, e.store.LastCollectedSkill())
}

func TestConfirmStartsGame(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.field.Update(mgl32.Vec3{}, time.Second)
	assert.Zero(t, e.field.TransitionProgress())

	e.press(input.ActionConfirm)
	assert.Equal(t, store.PhaseTransitioning, e.store.Phase())
	assert.Zero(t, e.field.TransitionProgress())

	e.press(input.ActionConfirm)
	e.field.Update(mgl32.Vec3{}, 2*time.Second)
	assert.Equal(t, store.PhaseTransitioning, e.store.Phase())
	assert.InDelta(t, 2.0/3, e.field.TransitionProgress(), 1e-4)

	e.field.Update(mgl32.Vec3{}, 2500*time.Millisecond)
	assert.Equal(t, store.PhasePlaying, e.store.Phase())
	assert.Equal(t, float32(1), e.field.TransitionProgress())

	e.press(input.ActionConfirm)
	assert.Equal(t, store.PhasePlaying, e.store.Phase())
}

func TestConfirmWithoutTransition(t *testing.T) {
	e := newEnv(t, Options{})
	e.press(input.ActionConfirm)
	assert.Equal(t, store.PhasePlaying, e.store.Phase())
}

func TestCancelClosesPanels(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.store.SetActivePanel(store.PanelSkills)
	e.store.OpenProject("drone-nav")
	e.press(input.ActionCancel)
	assert.Equal(t, store.PanelNone, e.store.ActivePanel())
	assert.Empty(t, e.store.CurrentProject())
}

func TestCloseRemovesListeners(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.field.AddCrystal("about", mgl32.Vec3{}, store.PanelAbout, [3]uint8{})
	p := e.field.AddPortal("drone-nav", mgl32.Vec3{0, 0, -50}, [3]uint8{})
	e.field.Update(mgl32.Vec3{}, 0)
	require.Equal(t, 1, e.disp.Listeners(input.ActionInteract))

	e.field.Close()
	e.field.Close()
	assert.Zero(t, e.disp.Listeners(input.ActionInteract))
	assert.Zero(t, e.disp.Listeners(input.ActionConfirm))
	assert.Zero(t, e.disp.Listeners(input.ActionCancel))
	assert.Nil(t, p.Sensor().OnEnter)

	e.field.Update(mgl32.Vec3{0, 0, -50}, time.Second)
	e.player.SetPosition(mgl32.Vec3{0, 3, -50})
	e.world.Step(1.0 / 60)
	assert.False(t, e.store.IsUnlocked("drone-nav"))
}

func TestEntityLookup(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	e.field.AddCollectible("go", mgl32.Vec3{}, [3]uint8{})
	got, ok := e.field.Entity("go")
	require.True(t, ok)
	assert.Equal(t, KindCollectible, got.Kind)
	_, ok = e.field.Entity("nope")
	assert.False(t, ok)
	assert.Len(t, e.field.Entities(), 1)
	assert.Equal(t, "inRange", StateInRange.String())
	assert.Equal(t, "portal", KindPortal.String())
}

func TestCollectByID(t *testing.T) {
	e := newEnv(t, DefaultOptions())
	c := e.field.AddCollectible("git", mgl32.Vec3{0, 0, -900}, [3]uint8{})
	e.field.AddCrystal("about", mgl32.Vec3{}, store.PanelAbout, [3]uint8{})

	assert.True(t, e.field.Collect("git", time.Second))
	assert.Equal(t, StateConsumed, c.State)
	assert.False(t, e.field.Collect("git", time.Second))
	assert.False(t, e.field.Collect("about", time.Second), "crystals are not collectible")
	assert.False(t, e.field.Collect("nope", time.Second))
}
