package flight

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"vimana/internal/input"
	"vimana/internal/physics"
	"vimana/internal/store"
)

// Vehicle is the body the controller drives.
type Vehicle interface {
	physics.RigidBody
	SetCollider(halfExtents, offset mgl32.Vec3)
	SetFriction(f float32)
}

// RayCaster answers ground-distance queries.
type RayCaster interface {
	CastRay(origin, dir mgl32.Vec3, maxDist float32, exclude physics.RigidBody) (float32, bool)
}

// Camera is a look-at camera pose.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
}

// VehicleState mirrors the attached body plus flight-only state.
type VehicleState struct {
	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3
	GearDeployed    bool
	GroundDistance  float32
}

// Controller turns held input into target velocities for one vehicle body and
// drives the follow camera. It runs once per frame, before the physics step.
type Controller struct {
	store *store.Store
	rays  RayCaster
	log   zerolog.Logger

	body Vehicle

	camera     Camera
	snapCamera bool

	prevToggle bool
	groundDist float32
	tilt       float32
	boost      bool
	thrust     bool
	strafe     int
}

// NewController returns a controller with no body attached. rays may be nil, in
// which case the ground is always out of range.
func NewController(st *store.Store, rays RayCaster, log zerolog.Logger) *Controller {
	return &Controller{
		store:      st,
		rays:       rays,
		log:        log,
		groundDist: RayMaxDistance,
		snapCamera: true,
	}
}

// Attach binds the controller to a body and shapes its collider for the current gear.
func (c *Controller) Attach(v Vehicle) {
	c.body = v
	c.snapCamera = true
	if v == nil {
		return
	}
	c.applyGear(c.store.GearDeployed())
	c.log.Debug().Msg("vehicle attached")
}

// SetGear deploys or retracts the landing gear outside of key input.
func (c *Controller) SetGear(deployed bool) {
	if c.store.GearDeployed() == deployed {
		return
	}
	c.store.ToggleGear()
	if c.body != nil {
		c.applyGear(deployed)
	}
}

func (c *Controller) applyGear(deployed bool) {
	s := ShapeFor(deployed)
	c.body.SetCollider(s.HalfExtents, s.Offset)
	c.body.SetFriction(s.Friction)
}

// Tick advances the controller by dt seconds. elapsed is the session clock used by
// the hangar camera. Without an attached body it does nothing.
func (c *Controller) Tick(dt, elapsed float32, in input.Flags) {
	if c.body == nil {
		return
	}
	playing := c.store.Phase() == store.PhasePlaying
	if !playing {
		in = input.Flags{}
	}

	pos := c.body.Position()
	q := c.body.Rotation()
	vel := c.body.LinearVelocity()
	forward := q.Rotate(mgl32.Vec3{0, 0, -1})
	right := q.Rotate(mgl32.Vec3{1, 0, 0})

	var target mgl32.Vec3
	var tiltTarget float32
	c.thrust, c.strafe = false, 0
	if in.Forward {
		target = target.Add(forward.Mul(MaxSpeed))
		tiltTarget = MaxPitchTilt
		c.thrust = true
	}
	if in.Backward {
		target = target.Add(forward.Mul(-MaxSpeed * BackwardFactor))
		tiltTarget = -MaxPitchTilt * 0.5
		c.thrust = true
	}
	if in.StrafeLeft {
		target = target.Add(right.Mul(-MaxSpeed * StrafeFactor))
		c.strafe = -1
		c.thrust = true
	}
	if in.StrafeRight {
		target = target.Add(right.Mul(MaxSpeed * StrafeFactor))
		c.strafe = 1
		c.thrust = true
	}

	next := vel
	next[0] = lerp(vel[0], target[0], Acceleration*dt)
	next[2] = lerp(vel[2], target[2], Acceleration*dt)

	gear := c.store.GearDeployed()
	c.boost = false
	switch {
	case in.Up:
		next[1] = lerp(vel[1], LiftSpeed, Acceleration*dt)
		c.boost = true
	case in.Down:
		next[1] = lerp(vel[1], -LiftSpeed, Acceleration*dt)
		c.thrust = true
	default:
		hover := float32(GearUpHoverTarget)
		if gear {
			hover = GearDownHoverTarget
		}
		next[1] = lerp(vel[1], hover, HoverRelaxRate*dt)
	}
	c.body.SetLinearVelocity(next)

	switch {
	case in.TurnLeft:
		c.body.SetAngularVelocity(mgl32.Vec3{0, TurnSpeed, 0})
	case in.TurnRight:
		c.body.SetAngularVelocity(mgl32.Vec3{0, -TurnSpeed, 0})
	default:
		c.body.SetAngularVelocity(mgl32.Vec3{0, c.body.AngularVelocity()[1] * TurnDamping, 0})
	}

	c.groundDist = RayMaxDistance
	if c.rays != nil {
		origin := pos.Sub(mgl32.Vec3{0, RayOriginDrop, 0})
		if d, ok := c.rays.CastRay(origin, mgl32.Vec3{0, -1, 0}, RayMaxDistance, c.body); ok {
			c.groundDist = d
		}
	}

	c.updateCamera(dt, elapsed, pos, q, forward, playing)

	if in.ToggleGear && !c.prevToggle {
		gear = c.store.ToggleGear()
		c.applyGear(gear)
	}
	c.prevToggle = in.ToggleGear

	c.tilt = lerp(c.tilt, tiltTarget, TiltSpeed*dt)

	c.store.SetTelemetry(store.Telemetry{
		Altitude:       math32.Max(0, pos[1]-AltitudeBias),
		Speed:          next.Len(),
		Boost:          c.boost,
		GroundDistance: c.groundDist,
		Tilt:           c.tilt,
	})
}

func (c *Controller) updateCamera(dt, elapsed float32, pos mgl32.Vec3, q mgl32.Quat, forward mgl32.Vec3, playing bool) {
	var want, look mgl32.Vec3
	if playing {
		want = pos.Add(q.Rotate(CameraOffset))
		look = pos.Add(mgl32.Vec3{forward[0] * LookAhead, LookHeight, forward[2] * LookAhead})
	} else {
		t := elapsed * IntroOrbitRate
		want = pos.Add(mgl32.Vec3{
			math32.Sin(t) * IntroSwayX,
			IntroHeight,
			IntroDistance + math32.Cos(t)*IntroSwayZ,
		})
		look = pos
	}
	if c.snapCamera {
		c.camera.Position = want
		c.snapCamera = false
	} else {
		c.camera.Position = lerpVec(c.camera.Position, want, CameraLerpSpeed*dt)
	}
	c.camera.Target = look
}

// Camera returns the camera pose computed by the last tick.
func (c *Controller) Camera() Camera { return c.camera }

// Tilt is the visual pitch of the craft model in radians.
func (c *Controller) Tilt() float32 { return c.tilt }

// Thrusting reports whether any thrust control was applied last tick.
func (c *Controller) Thrusting() bool { return c.thrust }

// Strafe is -1, 0 or 1 for the strafe direction applied last tick.
func (c *Controller) Strafe() int { return c.strafe }

// State returns the current vehicle state. Zero value without a body.
func (c *Controller) State() VehicleState {
	if c.body == nil {
		return VehicleState{GroundDistance: RayMaxDistance}
	}
	return VehicleState{
		Position:        c.body.Position(),
		Rotation:        c.body.Rotation(),
		LinearVelocity:  c.body.LinearVelocity(),
		AngularVelocity: c.body.AngularVelocity(),
		GearDeployed:    c.store.GearDeployed(),
		GroundDistance:  c.groundDist,
	}
}

func clamp01(t float32) float32 {
	return math32.Max(0, math32.Min(1, t))
}

// lerp interpolates with t clamped to [0, 1] so large frame deltas never overshoot.
func lerp(a, b, t float32) float32 {
	return a + (b-a)*clamp01(t)
}

func lerpVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(clamp01(t)))
}
