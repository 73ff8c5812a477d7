package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RigidBody is the part of a body a controller may read and drive.
type RigidBody interface {
	Position() mgl32.Vec3
	Rotation() mgl32.Quat
	LinearVelocity() mgl32.Vec3
	AngularVelocity() mgl32.Vec3
	SetLinearVelocity(v mgl32.Vec3)
	SetAngularVelocity(v mgl32.Vec3)
}

// ContactFunc is called with the sensor body and the body that entered or left it.
type ContactFunc func(sensor, other *Body)

// Body is a 3D rigid body with a single box collider. Static bodies never move.
// Sensor bodies never collide; they report overlap through OnEnter and OnExit.
type Body struct {
	Name           string
	Mass           float32
	Friction       float32
	LinearDamping  float32
	AngularDamping float32
	GravityScale   float32
	Static         bool
	Sensor         bool
	// YawOnly locks rotation about X and Z.
	YawOnly bool

	OnEnter ContactFunc
	OnExit  ContactFunc

	UserData any

	position       mgl32.Vec3
	rotation       mgl32.Quat
	linVel         mgl32.Vec3
	angVel         mgl32.Vec3
	halfExtents    mgl32.Vec3
	colliderOffset mgl32.Vec3
}

// NewBody returns a body at position with a box collider of the given half extents.
// mass is used for collision response; use 1 for default.
func NewBody(position, halfExtents mgl32.Vec3, mass float32, static bool) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{
		Mass:         mass,
		GravityScale: 1,
		Static:       static,
		position:     position,
		rotation:     mgl32.QuatIdent(),
		halfExtents:  sanitizeExtents(halfExtents),
	}
}

// NewSensor returns a static sensor volume.
func NewSensor(position, halfExtents mgl32.Vec3) *Body {
	b := NewBody(position, halfExtents, 1, true)
	b.Sensor = true
	return b
}

func sanitizeExtents(h mgl32.Vec3) mgl32.Vec3 {
	for i := range h {
		if h[i] <= 0 {
			h[i] = 0.5
		}
	}
	return h
}

func (b *Body) Position() mgl32.Vec3        { return b.position }
func (b *Body) Rotation() mgl32.Quat        { return b.rotation }
func (b *Body) LinearVelocity() mgl32.Vec3  { return b.linVel }
func (b *Body) AngularVelocity() mgl32.Vec3 { return b.angVel }
func (b *Body) HalfExtents() mgl32.Vec3     { return b.halfExtents }
func (b *Body) ColliderOffset() mgl32.Vec3  { return b.colliderOffset }

func (b *Body) SetPosition(p mgl32.Vec3) { b.position = p }

func (b *Body) SetRotation(q mgl32.Quat) { b.rotation = q.Normalize() }

// SetLinearVelocity is ignored for static bodies.
func (b *Body) SetLinearVelocity(v mgl32.Vec3) {
	if b.Static {
		return
	}
	b.linVel = v
}

// SetAngularVelocity is ignored for static bodies. With YawOnly, X and Z are dropped.
func (b *Body) SetAngularVelocity(v mgl32.Vec3) {
	if b.Static {
		return
	}
	if b.YawOnly {
		v[0], v[2] = 0, 0
	}
	b.angVel = v
}

// SetCollider replaces the box collider. offset is in body space.
func (b *Body) SetCollider(halfExtents, offset mgl32.Vec3) {
	b.halfExtents = sanitizeExtents(halfExtents)
	b.colliderOffset = offset
}

func (b *Body) SetFriction(f float32) { b.Friction = f }

// Bounds returns the world-space AABB enclosing the rotated collider.
func (b *Body) Bounds() (lo, hi mgl32.Vec3) {
	r := b.rotation.Mat4().Mat3()
	center := b.position.Add(b.rotation.Rotate(b.colliderOffset))
	var ext mgl32.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ext[i] += math32.Abs(r.At(i, j)) * b.halfExtents[j]
		}
	}
	return center.Sub(ext), center.Add(ext)
}
