package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Body is a rigid box in the physics world's Z-up frame. Mass 0 makes the body static:
// it is never integrated and only pushes dynamic bodies out of itself.
type Body struct {
	Position        rl.Vector3
	Velocity        rl.Vector3
	AngularVelocity rl.Vector3
	// InitVelocity and InitAngularVelocity are the reset slots restored by a world reset.
	InitVelocity        rl.Vector3
	InitAngularVelocity rl.Vector3
	Quaternion          rl.Quaternion
	HalfExtents         rl.Vector3
	Mass                float32

	world *World
}

// NewBody returns a body at position with the given box half extents. Velocities are zero and
// the orientation is identity. A mass <= 0 yields a static body.
func NewBody(position, halfExtents rl.Vector3, mass float32) *Body {
	if mass < 0 {
		mass = 0
	}
	return &Body{
		Position:    position,
		Quaternion:  rl.QuaternionIdentity(),
		HalfExtents: halfExtents,
		Mass:        mass,
	}
}

// Static reports whether the body has zero mass.
func (b *Body) Static() bool {
	return b.Mass == 0
}

// World returns the world the body was added to, or nil.
func (b *Body) World() *World {
	return b.world
}

func (b *Body) aabb() rl.BoundingBox {
	hx, hy, hz := b.HalfExtents.X, b.HalfExtents.Y, b.HalfExtents.Z
	if hx == 0 {
		hx = 0.5
	}
	if hy == 0 {
		hy = 0.5
	}
	if hz == 0 {
		hz = 0.5
	}
	return rl.NewBoundingBox(
		rl.NewVector3(b.Position.X-hx, b.Position.Y-hy, b.Position.Z-hz),
		rl.NewVector3(b.Position.X+hx, b.Position.Y+hy, b.Position.Z+hz),
	)
}
