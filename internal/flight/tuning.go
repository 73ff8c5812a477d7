package flight

import "github.com/go-gl/mathgl/mgl32"

// Flight tuning. Speeds are m/s, rates are 1/s.
const (
	MaxSpeed       = 20
	Acceleration   = 2
	LiftSpeed      = 8
	TurnSpeed      = 3
	TurnDamping    = 0.9
	BackwardFactor = 0.5
	StrafeFactor   = 0.8

	HoverRelaxRate      = 1.5
	GearDownHoverTarget = -1
	GearUpHoverTarget   = 0

	RayOriginDrop  = 0.2
	RayMaxDistance = 10

	CameraLerpSpeed = 4
	LookAhead       = 2
	LookHeight      = 0.5

	MaxPitchTilt = -0.22
	TiltSpeed    = 5

	// AltitudeBias is subtracted from the body height for the altitude readout.
	AltitudeBias = 0.5
)

// Hangar orbit camera.
const (
	IntroOrbitRate = 0.2
	IntroSwayX     = 4
	IntroSwayZ     = 2
	IntroHeight    = 1.5
	IntroDistance  = -8
)

var CameraOffset = mgl32.Vec3{0, 2.5, 6}

// GearShape is the collider used for one landing gear position.
type GearShape struct {
	HalfExtents mgl32.Vec3
	Offset      mgl32.Vec3
	Friction    float32
}

var (
	// GearDown is deeper so the craft lands on its legs.
	GearDown = GearShape{
		HalfExtents: mgl32.Vec3{0.55, 0.6, 0.7},
		Offset:      mgl32.Vec3{0, -0.45, 0},
		Friction:    1,
	}
	GearUp = GearShape{
		HalfExtents: mgl32.Vec3{0.45, 0.25, 0.55},
		Offset:      mgl32.Vec3{0, -0.15, 0},
		Friction:    0,
	}
)

// ShapeFor returns the collider shape for the given gear state.
func ShapeFor(deployed bool) GearShape {
	if deployed {
		return GearDown
	}
	return GearUp
}
