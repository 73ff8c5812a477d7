package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// StandardGravity is the magnitude used for friction when a body has no gravity of its own.
const StandardGravity = 9.81

type contactKey struct {
	sensor, other *Body
}

// World holds a set of bodies and runs a simple 3D step: gravity, damping, integration,
// AABB collision, then sensor events.
type World struct {
	Gravity mgl32.Vec3
	Bodies  []*Body

	contacts map[contactKey]struct{}
}

// NewWorld returns a world with Y-up gravity (0, -9.81, 0).
func NewWorld() *World {
	return &World{
		Gravity:  mgl32.Vec3{0, -StandardGravity, 0},
		contacts: make(map[contactKey]struct{}),
	}
}

// SetGravity sets the gravity vector.
func (w *World) SetGravity(g mgl32.Vec3) {
	w.Gravity = g
}

// AddBody appends a body to the world. Order is preserved for syncing with scene objects.
func (w *World) AddBody(b *Body) {
	w.Bodies = append(w.Bodies, b)
}

// RemoveBody removes b and forgets its sensor contacts without firing OnExit.
func (w *World) RemoveBody(b *Body) {
	for i, x := range w.Bodies {
		if x == b {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			break
		}
	}
	for k := range w.contacts {
		if k.sensor == b || k.other == b {
			delete(w.contacts, k)
		}
	}
}

// penetrationAxis returns the overlap amount and axis index (0=X, 1=Y, 2=Z) for the minimum penetration.
// If no overlap, returns (0, -1).
func penetrationAxis(aLo, aHi, bLo, bHi mgl32.Vec3) (depth float32, axis int) {
	axis = -1
	for i := 0; i < 3; i++ {
		o := math32.Min(aHi[i], bHi[i]) - math32.Max(aLo[i], bLo[i])
		if o <= 0 {
			return 0, -1
		}
		if axis < 0 || o < depth {
			depth, axis = o, i
		}
	}
	return depth, axis
}

func overlaps(aLo, aHi, bLo, bHi mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if aHi[i] <= bLo[i] || bHi[i] <= aLo[i] {
			return false
		}
	}
	return true
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, b := range w.Bodies {
		if b.Static {
			continue
		}
		b.linVel = b.linVel.Add(w.Gravity.Mul(b.GravityScale * dt))
		// Same damping law as Rapier: v *= 1 / (1 + dt*damping).
		if b.LinearDamping > 0 {
			b.linVel = b.linVel.Mul(1 / (1 + dt*b.LinearDamping))
		}
		if b.AngularDamping > 0 {
			b.angVel = b.angVel.Mul(1 / (1 + dt*b.AngularDamping))
		}
		if b.YawOnly {
			b.angVel[0], b.angVel[2] = 0, 0
		}
		b.position = b.position.Add(b.linVel.Mul(dt))
		if l := b.angVel.Len(); l > 0 {
			dq := mgl32.QuatRotate(l*dt, b.angVel.Mul(1/l))
			b.rotation = dq.Mul(b.rotation).Normalize()
		}
	}

	w.resolveCollisions(dt)
	w.updateContacts()
}

// resolveCollisions pushes overlapping solid pairs apart along the minimum penetration axis.
func (w *World) resolveCollisions(dt float32) {
	for i := 0; i < len(w.Bodies); i++ {
		bi := w.Bodies[i]
		if bi.Sensor {
			continue
		}
		loI, hiI := bi.Bounds()
		for j := i + 1; j < len(w.Bodies); j++ {
			bj := w.Bodies[j]
			if bj.Sensor || (bi.Static && bj.Static) {
				continue
			}
			loJ, hiJ := bj.Bounds()
			depth, axis := penetrationAxis(loI, hiI, loJ, hiJ)
			if axis < 0 {
				continue
			}
			// sign is the direction j must move to separate from i.
			var sign float32 = 1
			if (loJ[axis] + hiJ[axis]) < (loI[axis] + hiI[axis]) {
				sign = -1
			}
			var moveI, moveJ float32
			switch {
			case bi.Static:
				moveJ = depth
			case bj.Static:
				moveI = depth
			default:
				total := bi.Mass + bj.Mass
				moveI = depth * (bj.Mass / total)
				moveJ = depth * (bi.Mass / total)
			}
			bi.position[axis] -= sign * moveI
			bj.position[axis] += sign * moveJ

			stopInto(bi, axis, -sign)
			stopInto(bj, axis, sign)
			if axis == 1 {
				mu := (bi.Friction + bj.Friction) / 2
				applyFriction(w, bi, mu, dt)
				applyFriction(w, bj, mu, dt)
			}
			loI, hiI = bi.Bounds()
		}
	}
}

// stopInto zeroes the velocity component that points against the separation direction.
func stopInto(b *Body, axis int, away float32) {
	if b.Static {
		return
	}
	if b.linVel[axis]*away < 0 {
		b.linVel[axis] = 0
	}
}

// applyFriction slows horizontal motion of a body resting on a surface.
func applyFriction(w *World, b *Body, mu, dt float32) {
	if b.Static || mu <= 0 {
		return
	}
	g := math32.Abs(w.Gravity[1] * b.GravityScale)
	if g == 0 {
		g = StandardGravity
	}
	h := mgl32.Vec2{b.linVel[0], b.linVel[2]}
	speed := h.Len()
	if speed == 0 {
		return
	}
	next := math32.Max(0, speed-mu*g*dt)
	h = h.Mul(next / speed)
	b.linVel[0], b.linVel[2] = h[0], h[1]
}

func (w *World) updateContacts() {
	if w.contacts == nil {
		w.contacts = make(map[contactKey]struct{})
	}
	seen := make(map[contactKey]struct{})
	for _, s := range w.Bodies {
		if !s.Sensor {
			continue
		}
		sLo, sHi := s.Bounds()
		for _, o := range w.Bodies {
			if o == s || o.Sensor || o.Static {
				continue
			}
			oLo, oHi := o.Bounds()
			if !overlaps(sLo, sHi, oLo, oHi) {
				continue
			}
			k := contactKey{s, o}
			seen[k] = struct{}{}
			if _, ok := w.contacts[k]; ok {
				continue
			}
			w.contacts[k] = struct{}{}
			if s.OnEnter != nil {
				s.OnEnter(s, o)
			}
		}
	}
	for k := range w.contacts {
		if _, ok := seen[k]; ok {
			continue
		}
		delete(w.contacts, k)
		if k.sensor.OnExit != nil {
			k.sensor.OnExit(k.sensor, k.other)
		}
	}
}

// InContact reports whether other is currently inside sensor.
func (w *World) InContact(sensor, other *Body) bool {
	_, ok := w.contacts[contactKey{sensor, other}]
	return ok
}

// CastRay returns the distance to the first solid collider hit by the ray, skipping
// sensors and exclude. An origin inside a collider hits at distance 0. dir need not
// be normalized. On a miss the distance is maxDist and ok is false.
func (w *World) CastRay(origin, dir mgl32.Vec3, maxDist float32, exclude RigidBody) (dist float32, ok bool) {
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	} else {
		return maxDist, false
	}
	best := maxDist
	for _, b := range w.Bodies {
		if b.Sensor || (exclude != nil && RigidBody(b) == exclude) {
			continue
		}
		lo, hi := b.Bounds()
		t, hit := raySlab(origin, dir, lo, hi)
		if hit && t <= best {
			best, ok = t, true
		}
	}
	return best, ok
}

// raySlab intersects a ray with an AABB using the slab method.
func raySlab(origin, dir, lo, hi mgl32.Vec3) (float32, bool) {
	tmin, tmax := float32(0), math32.Inf(1)
	for i := 0; i < 3; i++ {
		if math32.Abs(dir[i]) < 1e-8 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (lo[i] - origin[i]) * inv
		t2 := (hi[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
