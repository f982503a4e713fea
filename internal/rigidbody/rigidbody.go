// Package rigidbody couples a visual scene object to a physics body.
//
// The scene is Y-up and the physics world is Z-up, with opposite rotational handedness.
// Positions and velocities cross the boundary with Y and Z swapped; orientations additionally
// have their vector part negated. The two rules differ on purpose and must stay that way.
package rigidbody

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/physics"
	"meshworld/internal/scene"
)

var (
	// ErrConfiguration is wrapped by every construction failure.
	ErrConfiguration = errors.New("rigidbody: invalid configuration")
	ErrMissingObject = fmt.Errorf("%w: object not defined", ErrConfiguration)
	ErrMissingBody   = fmt.Errorf("%w: physics body not defined; use a static body (mass 0) for objects without physics", ErrConfiguration)

	// ErrPrecondition is wrapped by calls made in a state that does not allow them.
	ErrPrecondition       = errors.New("rigidbody: precondition failed")
	ErrNoSnapshot         = fmt.Errorf("%w: no cached state to restore", ErrPrecondition)
	ErrNotInitialized     = fmt.Errorf("%w: not initialized", ErrPrecondition)
	ErrAlreadyInitialized = fmt.Errorf("%w: already initialized", ErrPrecondition)
	ErrDeleted            = fmt.Errorf("%w: deleted", ErrPrecondition)
)

// Scene is the part of the scene graph a rigid body registers with.
type Scene interface {
	Add(obj *scene.Object)
	Remove(obj *scene.Object)
}

// PhysicsWorld is the part of the physics world a rigid body registers with.
type PhysicsWorld interface {
	AddBody(b *physics.Body) error
}

// State is the lifecycle position of a RigidBody.
type State int

const (
	Uninitialized State = iota
	Initialized
	Deleted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Deleted:
		return "deleted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Snapshot is a captured physics state. Position and Velocity are in scene axes (Y-up);
// Quaternion is the physics body's own orientation.
type Snapshot struct {
	Position   rl.Vector3
	Velocity   rl.Vector3
	Quaternion rl.Quaternion
}

// RigidBody keeps a scene object's transform in step with its physics body.
// Neither handle is owned exclusively: the scene and the physics world track them too.
type RigidBody struct {
	object *scene.Object
	body   *physics.Body
	state  State
	snap   *Snapshot
}

// New couples object and body. Both are required.
func New(object *scene.Object, body *physics.Body) (*RigidBody, error) {
	if object == nil {
		return nil, ErrMissingObject
	}
	if body == nil {
		return nil, ErrMissingBody
	}
	return &RigidBody{object: object, body: body}, nil
}

// Object returns the visual object.
func (r *RigidBody) Object() *scene.Object { return r.object }

// Body returns the physics body.
func (r *RigidBody) Body() *physics.Body { return r.body }

// State returns the lifecycle state.
func (r *RigidBody) State() State { return r.state }

// Position aliases the visual object's position.
func (r *RigidBody) Position() *rl.Vector3 { return &r.object.Position }

// Quaternion aliases the visual object's orientation.
func (r *RigidBody) Quaternion() *rl.Quaternion { return &r.object.Quaternion }

// Snapshot returns the cached state, if any.
func (r *RigidBody) Snapshot() (Snapshot, bool) {
	if r.snap == nil {
		return Snapshot{}, false
	}
	return *r.snap, true
}

func (r *RigidBody) requireInitialized() error {
	switch r.state {
	case Uninitialized:
		return ErrNotInitialized
	case Deleted:
		return ErrDeleted
	}
	return nil
}

// swapYZ converts between the scene's Y-up and the physics Z-up axes. It is its own inverse.
func swapYZ(v rl.Vector3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Z, v.Y)
}

// CacheState captures the body's position, velocity and orientation, replacing any earlier
// snapshot.
func (r *RigidBody) CacheState() error {
	if err := r.requireInitialized(); err != nil {
		return err
	}
	r.snap = &Snapshot{
		Position:   swapYZ(r.body.Position),
		Velocity:   swapYZ(r.body.Velocity),
		Quaternion: r.body.Quaternion,
	}
	return nil
}

// SetSnapshot replaces the cached snapshot with s, e.g. one saved by an earlier run.
func (r *RigidBody) SetSnapshot(s Snapshot) error {
	if err := r.requireInitialized(); err != nil {
		return err
	}
	r.snap = &s
	return nil
}

// Restore writes the cached snapshot back onto the body.
func (r *RigidBody) Restore() error {
	if err := r.requireInitialized(); err != nil {
		return err
	}
	if r.snap == nil {
		return ErrNoSnapshot
	}
	s := r.snap
	r.SetPosition(s.Position.X, s.Position.Y, s.Position.Z)
	r.SetVelocity(s.Velocity.X, s.Velocity.Y, s.Velocity.Z)
	r.body.Quaternion = s.Quaternion
	return nil
}

// SetPosition moves the body to (x, y, z) given in scene axes.
func (r *RigidBody) SetPosition(x, y, z float32) {
	r.body.Position = swapYZ(rl.NewVector3(x, y, z))
}

// SetVelocity clears every velocity slot of the body, including angular and initial ones,
// then sets its linear velocity to (x, y, z) given in scene axes.
func (r *RigidBody) SetVelocity(x, y, z float32) {
	zero := rl.NewVector3(0, 0, 0)
	r.body.Velocity = zero
	r.body.InitVelocity = zero
	r.body.AngularVelocity = zero
	r.body.InitAngularVelocity = zero
	r.body.Velocity = swapYZ(rl.NewVector3(x, y, z))
}

// Synchronize copies the body's transform onto the visual object. Called once per frame
// after the physics step.
func (r *RigidBody) Synchronize() error {
	if err := r.requireInitialized(); err != nil {
		return err
	}
	q := r.body.Quaternion
	r.object.Quaternion.X = -q.X
	r.object.Quaternion.Y = -q.Z
	r.object.Quaternion.Z = -q.Y
	r.object.Quaternion.W = q.W

	p := r.body.Position
	r.object.Position.X = p.X
	r.object.Position.Y = p.Z
	r.object.Position.Z = p.Y
	return nil
}

// Initialize adds the object to scn and the body to world. It must be called once before the
// body takes part in the frame loop.
func (r *RigidBody) Initialize(scn Scene, world PhysicsWorld) error {
	switch r.state {
	case Initialized:
		return ErrAlreadyInitialized
	case Deleted:
		return ErrDeleted
	}
	if err := world.AddBody(r.body); err != nil {
		return fmt.Errorf("rigidbody: initialize: %w", err)
	}
	scn.Add(r.object)
	r.state = Initialized
	return nil
}

// Delete removes the object from scn and the body from the world that owns it. scn is passed
// in because objects keep no reference to their scene.
func (r *RigidBody) Delete(scn Scene) error {
	if err := r.requireInitialized(); err != nil {
		return err
	}
	scn.Remove(r.object)
	if w := r.body.World(); w != nil {
		if err := w.RemoveBody(r.body); err != nil {
			return fmt.Errorf("rigidbody: delete: %w", err)
		}
	}
	r.state = Deleted
	return nil
}
