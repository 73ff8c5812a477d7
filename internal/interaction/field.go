package interaction

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"vimana/internal/input"
	"vimana/internal/physics"
	"vimana/internal/store"
)

// Options tunes the game flow timers.
type Options struct {
	TransitionDuration time.Duration
	ToastDuration      time.Duration
}

func DefaultOptions() Options {
	return Options{
		TransitionDuration: 1500 * time.Millisecond,
		ToastDuration:      2500 * time.Millisecond,
	}
}

// Field owns every interactable and the global confirm/cancel bindings.
// All methods must be called from the frame goroutine.
type Field struct {
	store  *store.Store
	disp   *input.Dispatcher
	world  *physics.World
	player *physics.Body
	opts   Options
	log    zerolog.Logger

	entities []*Entity
	byID     map[string]*Entity

	now           time.Duration
	transitioning bool
	transitionEnd time.Duration

	unsubs []func()
	closed bool
}

// NewField creates an empty field and installs the confirm and cancel listeners.
// world may be nil when the field has no portals.
func NewField(st *store.Store, disp *input.Dispatcher, world *physics.World, player *physics.Body, opts Options, log zerolog.Logger) *Field {
	f := &Field{
		store:  st,
		disp:   disp,
		world:  world,
		player: player,
		opts:   opts,
		log:    log,
		byID:   make(map[string]*Entity),
	}
	f.unsubs = append(f.unsubs,
		disp.Subscribe(input.ActionConfirm, f.confirm),
		disp.Subscribe(input.ActionCancel, f.cancel),
	)
	return f
}

func (f *Field) add(e *Entity) *Entity {
	f.entities = append(f.entities, e)
	f.byID[e.ID] = e
	return e
}

// AddCrystal places a proximity crystal revealing panel.
func (f *Field) AddCrystal(id string, pos mgl32.Vec3, panel store.Panel, color [3]uint8) *Entity {
	return f.add(&Entity{
		ID:       id,
		Kind:     KindCrystal,
		Position: pos,
		Radius:   CrystalRadius,
		Panel:    panel,
		Color:    color,
	})
}

// AddPortal places a project portal whose sensor sits above pos. A portal for a
// project that is already unlocked starts consumed.
func (f *Field) AddPortal(id string, pos mgl32.Vec3, color [3]uint8) *Entity {
	e := &Entity{
		ID:       id,
		Kind:     KindPortal,
		Position: pos,
		Radius:   PortalSensorHalfExtents.Len(),
		Color:    color,
	}
	if f.store.IsUnlocked(id) {
		e.State = StateConsumed
	}
	e.sensor = physics.NewSensor(pos.Add(PortalSensorOffset), PortalSensorHalfExtents)
	e.sensor.Name = "portal:" + id
	e.sensor.UserData = e
	e.sensor.OnEnter = func(_, other *physics.Body) { f.portalEnter(e, other) }
	e.sensor.OnExit = func(_, other *physics.Body) {
		if other == f.player {
			e.inside = false
		}
	}
	if f.world != nil {
		f.world.AddBody(e.sensor)
	}
	return f.add(e)
}

// AddCollectible places a one-shot skill crystal. A skill that is already collected
// starts consumed.
func (f *Field) AddCollectible(id string, pos mgl32.Vec3, color [3]uint8) *Entity {
	e := &Entity{
		ID:       id,
		Kind:     KindCollectible,
		Position: pos,
		Radius:   PickupDistance,
		OneShot:  true,
		Color:    color,
	}
	if f.store.IsCollected(id) {
		e.State = StateConsumed
	}
	return f.add(e)
}

// Entities returns the entities in placement order. The slice must not be modified.
func (f *Field) Entities() []*Entity { return f.entities }

// Entity looks up an entity by id.
func (f *Field) Entity(id string) (*Entity, bool) {
	e, ok := f.byID[id]
	return e, ok
}

// Update runs proximity checks against the post-step player position and advances
// the game flow timers. now is the session clock.
func (f *Field) Update(playerPos mgl32.Vec3, now time.Duration) {
	if f.closed {
		return
	}
	f.now = now
	for _, e := range f.entities {
		switch e.Kind {
		case KindCrystal:
			f.updateCrystal(e, playerPos)
		case KindCollectible:
			f.updateCollectible(e, playerPos, now)
		}
	}

	if f.transitioning && now >= f.transitionEnd {
		f.transitioning = false
		// the phase may have been forced elsewhere meanwhile
		if f.store.Phase() == store.PhaseTransitioning {
			f.store.SetPhase(store.PhasePlaying)
		}
	}
	f.store.ExpireToast(now, f.opts.ToastDuration)
}

func (f *Field) updateCrystal(e *Entity, playerPos mgl32.Vec3) {
	in := playerPos.Sub(e.Position).Len() < e.Radius
	switch {
	case in && e.State == StateIdle:
		e.State = StateInRange
		e.unsubscribe = f.disp.Subscribe(input.ActionInteract, func() {
			if e.State == StateInRange {
				f.store.SetActivePanel(e.Panel)
				f.log.Debug().Str("crystal", e.ID).Stringer("panel", e.Panel).Msg("panel opened")
			}
		})
		f.log.Debug().Str("crystal", e.ID).Msg("in range")
	case !in && e.State == StateInRange:
		f.releaseCrystal(e)
		f.log.Debug().Str("crystal", e.ID).Msg("out of range")
	}
}

func (f *Field) releaseCrystal(e *Entity) {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.State = StateIdle
}

func (f *Field) updateCollectible(e *Entity, playerPos mgl32.Vec3, now time.Duration) {
	if e.State == StateConsumed {
		return
	}
	if playerPos.Sub(e.Position).Len() >= e.Radius {
		return
	}
	f.store.CollectSkill(e.ID, now)
	e.State = StateConsumed
}

// Collect picks up a collectible by id regardless of distance. Returns whether the
// skill was new.
func (f *Field) Collect(id string, now time.Duration) bool {
	e, ok := f.byID[id]
	if !ok || e.Kind != KindCollectible {
		return false
	}
	e.State = StateConsumed
	return f.store.CollectSkill(id, now)
}

func (f *Field) portalEnter(e *Entity, other *physics.Body) {
	if f.closed || other != f.player || e.inside {
		return
	}
	e.inside = true
	f.store.UnlockProject(e.ID)
	f.store.OpenProject(e.ID)
	e.State = StateConsumed
}

func (f *Field) confirm() { f.Launch() }

// Launch starts the game from the hangar: Transitioning for the configured
// duration, then Playing. Returns false outside the hangar.
func (f *Field) Launch() bool {
	if f.closed || f.store.Phase() != store.PhaseHangar {
		return false
	}
	if f.opts.TransitionDuration <= 0 {
		f.store.SetPhase(store.PhasePlaying)
		return true
	}
	f.store.SetPhase(store.PhaseTransitioning)
	f.transitioning = true
	f.transitionEnd = f.now + f.opts.TransitionDuration
	return true
}

// TransitionProgress is how far the launch sequence has run, in [0,1]. It is 1
// once playing and 0 before launch.
func (f *Field) TransitionProgress() float32 {
	if !f.transitioning {
		if f.store.Phase() == store.PhasePlaying {
			return 1
		}
		return 0
	}
	left := f.transitionEnd - f.now
	p := 1 - float32(left.Seconds()/f.opts.TransitionDuration.Seconds())
	if p < 0 {
		return 0
	}
	return p
}

func (f *Field) cancel() {
	f.store.SetActivePanel(store.PanelNone)
	f.store.CloseProject()
}

// Close removes every listener and sensor callback the field installed. Entities
// keep their last state.
func (f *Field) Close() {
	if f.closed {
		return
	}
	f.closed = true
	for _, u := range f.unsubs {
		u()
	}
	f.unsubs = nil
	for _, e := range f.entities {
		if e.unsubscribe != nil {
			e.unsubscribe()
			e.unsubscribe = nil
		}
		if e.sensor != nil {
			e.sensor.OnEnter = nil
			e.sensor.OnExit = nil
		}
	}
}
