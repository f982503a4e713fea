package physics

import (
	"errors"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultGravity points down the Z axis; the physics frame is Z-up.
var DefaultGravity = rl.NewVector3(0, 0, -9.82)

var (
	ErrBodyInWorld    = errors.New("physics: body already belongs to a world")
	ErrBodyNotInWorld = errors.New("physics: body does not belong to this world")
)

// World holds a set of bodies and runs a simple step: gravity, integration, AABB collision.
type World struct {
	Gravity rl.Vector3
	bodies  []*Body
}

// NewWorld returns an empty world with DefaultGravity.
func NewWorld() *World {
	return &World{Gravity: DefaultGravity}
}

// SetGravity sets the gravity vector (physics frame, Z-up).
func (w *World) SetGravity(x, y, z float32) {
	w.Gravity = rl.NewVector3(x, y, z)
}

// AddBody appends a body. Order is preserved for stepping and collision resolution.
func (w *World) AddBody(b *Body) error {
	if b.world != nil {
		return ErrBodyInWorld
	}
	b.world = w
	w.bodies = append(w.bodies, b)
	return nil
}

// RemoveBody removes b from the world and clears its back-reference.
func (w *World) RemoveBody(b *Body) error {
	if b.world != w {
		return ErrBodyNotInWorld
	}
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	b.world = nil
	return nil
}

// Bodies returns the bodies in insertion order. The slice must not be modified.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Reset puts every dynamic body's velocities back to their init slots.
func (w *World) Reset() {
	for _, b := range w.bodies {
		b.Velocity = b.InitVelocity
		b.AngularVelocity = b.InitAngularVelocity
	}
}

// penetrationAxis returns the overlap amount and axis index (0=X, 1=Y, 2=Z) of the minimum
// penetration, or (0, -1) when the boxes do not overlap.
func penetrationAxis(a, b rl.BoundingBox) (depth float32, axis int) {
	overlapX := math32.Min(a.Max.X, b.Max.X) - math32.Max(a.Min.X, b.Min.X)
	overlapY := math32.Min(a.Max.Y, b.Max.Y) - math32.Max(a.Min.Y, b.Min.Y)
	overlapZ := math32.Min(a.Max.Z, b.Max.Z) - math32.Max(a.Min.Z, b.Min.Z)
	if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
		return 0, -1
	}
	depth, axis = overlapX, 0
	if overlapY < depth {
		depth, axis = overlapY, 1
	}
	if overlapZ < depth {
		depth, axis = overlapZ, 2
	}
	return depth, axis
}

// integrateRotation advances q by angular velocity w over dt and renormalizes.
func integrateRotation(q rl.Quaternion, w rl.Vector3, dt float32) rl.Quaternion {
	if w.X == 0 && w.Y == 0 && w.Z == 0 {
		return q
	}
	half := 0.5 * dt
	// dq = 0.5 * (w, 0) * q
	dx := half * (w.X*q.W + w.Y*q.Z - w.Z*q.Y)
	dy := half * (w.Y*q.W + w.Z*q.X - w.X*q.Z)
	dz := half * (w.Z*q.W + w.X*q.Y - w.Y*q.X)
	dw := half * (-w.X*q.X - w.Y*q.Y - w.Z*q.Z)
	q.X += dx
	q.Y += dy
	q.Z += dz
	q.W += dw
	n := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if n == 0 {
		return rl.QuaternionIdentity()
	}
	q.X /= n
	q.Y /= n
	q.Z /= n
	q.W /= n
	return q
}

func component(v *rl.Vector3, axis int) *float32 {
	switch axis {
	case 0:
		return &v.X
	case 1:
		return &v.Y
	default:
		return &v.Z
	}
}

// Step advances the simulation by dt seconds: apply gravity, integrate position and
// orientation, then push overlapping pairs apart along the minimum penetration axis.
func (w *World) Step(dt float32) {
	for _, b := range w.bodies {
		if b.Static() {
			continue
		}
		b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(w.Gravity, dt))
		b.Position = rl.Vector3Add(b.Position, rl.Vector3Scale(b.Velocity, dt))
		b.Quaternion = integrateRotation(b.Quaternion, b.AngularVelocity, dt)
	}

	for i := 0; i < len(w.bodies); i++ {
		bi := w.bodies[i]
		boxI := bi.aabb()
		for j := i + 1; j < len(w.bodies); j++ {
			bj := w.bodies[j]
			if bi.Static() && bj.Static() {
				continue
			}
			boxJ := bj.aabb()
			if !rl.CheckCollisionBoxes(boxI, boxJ) {
				continue
			}
			depth, axis := penetrationAxis(boxI, boxJ)
			if axis < 0 {
				continue
			}
			// Push bi toward the negative side when its center is below bj's on this axis.
			sign := float32(1)
			if *component(&bi.Position, axis) > *component(&bj.Position, axis) {
				sign = -1
			}
			var moveI, moveJ float32
			switch {
			case bi.Static():
				moveJ = sign * depth
			case bj.Static():
				moveI = -sign * depth
			default:
				total := bi.Mass + bj.Mass
				moveI = -sign * depth * (bj.Mass / total)
				moveJ = sign * depth * (bi.Mass / total)
			}
			*component(&bi.Position, axis) += moveI
			*component(&bj.Position, axis) += moveJ
			if !bi.Static() {
				*component(&bi.Velocity, axis) = 0
			}
			if !bj.Static() {
				*component(&bj.Velocity, axis) = 0
			}
			boxI = bi.aabb()
		}
	}
}
