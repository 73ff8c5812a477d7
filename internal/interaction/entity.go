package interaction

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"vimana/internal/physics"
	"vimana/internal/store"
)

// Kind distinguishes how an entity is triggered.
type Kind uint8

const (
	// KindCrystal reveals a content panel on an explicit interact press while in range.
	KindCrystal Kind = iota
	// KindPortal unlocks a project when the player body enters its sensor.
	KindPortal
	// KindCollectible is picked up once by flying close to it.
	KindCollectible
)

func (k Kind) String() string {
	switch k {
	case KindCrystal:
		return "crystal"
	case KindPortal:
		return "portal"
	case KindCollectible:
		return "collectible"
	}
	return fmt.Sprintf("kind(%d)", k)
}

// State is the interaction state of one entity.
type State uint8

const (
	StateIdle State = iota
	StateInRange
	StateConsumed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInRange:
		return "inRange"
	case StateConsumed:
		return "consumed"
	}
	return fmt.Sprintf("state(%d)", s)
}

const (
	CrystalRadius  = 15
	PickupDistance = 5
)

// Portal trigger volume, relative to the portal's base position.
var (
	PortalSensorOffset      = mgl32.Vec3{0, 3, 0}
	PortalSensorHalfExtents = mgl32.Vec3{2, 3, 0.5}
)

// Entity is an interactable placed when the world is built. Entities are never
// destroyed; a consumed entity stays in the field as a ghost.
type Entity struct {
	ID       string
	Kind     Kind
	Position mgl32.Vec3
	Radius   float32
	OneShot  bool
	State    State

	// Panel is the content section a crystal reveals.
	Panel store.Panel
	// Color is an RGB tint for rendering.
	Color [3]uint8

	sensor      *physics.Body
	unsubscribe func()
	inside      bool
}

// Sensor returns the portal's trigger body, nil for other kinds.
func (e *Entity) Sensor() *physics.Body { return e.sensor }

// Listening reports whether a crystal currently has an interact listener installed.
func (e *Entity) Listening() bool { return e.unsubscribe != nil }
