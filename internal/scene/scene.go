// Package scene is the visual side of the world: objects with a Y-up transform, lights and
// the camera. It holds no GPU state; graphics draws it.
package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/primitives"
)

// Object is a node in the scene: a mesh (geometry + material) with a transform.
// Position and Quaternion are mutated in place by rigid-body synchronization, so callers may
// keep pointers to them.
type Object struct {
	Name       string
	Position   rl.Vector3
	Quaternion rl.Quaternion
	Scale      rl.Vector3

	Visible       bool
	CastShadow    bool
	ReceiveShadow bool
	FrustumCulled bool
	RenderOrder   int

	Geometry            *primitives.Geometry
	Material            *primitives.Material
	CustomDepthMaterial *primitives.Material

	// UserData holds descriptor properties that have no field on Object.
	UserData map[string]any
}

// NewObject returns a visible mesh object at the origin with identity rotation and unit scale.
func NewObject(g *primitives.Geometry, m *primitives.Material) *Object {
	return &Object{
		Position:      rl.NewVector3(0, 0, 0),
		Quaternion:    rl.QuaternionIdentity(),
		Scale:         rl.NewVector3(1, 1, 1),
		Visible:       true,
		FrustumCulled: true,
		Geometry:      g,
		Material:      m,
	}
}

// LightKind distinguishes ambient from directional lights.
type LightKind int

const (
	AmbientLight LightKind = iota
	DirectionalLight
)

// ShadowCamera is the orthographic box a directional light renders its shadow map from.
type ShadowCamera struct {
	Left, Right, Top, Bottom float32
	MapWidth, MapHeight      int
}

// Light is an ambient or directional light. Directional lights point from Position at the origin.
type Light struct {
	Kind       LightKind
	Color      primitives.Color
	Intensity  float32
	Position   rl.Vector3
	CastShadow bool
	Shadow     ShadowCamera
}

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position rl.Vector3
	Target   rl.Vector3
	Up       rl.Vector3
	Fovy     float32
}

// NewCamera returns a camera at (0,0,0) looking at the origin, Y up.
func NewCamera(fovy float32) *Camera {
	return &Camera{
		Target: rl.NewVector3(0, 0, 0),
		Up:     rl.NewVector3(0, 1, 0),
		Fovy:   fovy,
	}
}

// Raylib returns the camera as a raylib perspective camera.
func (c *Camera) Raylib() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position,
		Target:     c.Target,
		Up:         c.Up,
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// SetFromRaylib copies a raylib camera (e.g. after UpdateCamera) back.
func (c *Camera) SetFromRaylib(rc rl.Camera3D) {
	c.Position = rc.Position
	c.Target = rc.Target
	c.Up = rc.Up
	c.Fovy = rc.Fovy
}

// Scene holds objects and lights in insertion order.
type Scene struct {
	Background primitives.Color
	objects    []*Object
	lights     []*Light
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends obj unless it is already in the scene.
func (s *Scene) Add(obj *Object) {
	if obj == nil || s.Contains(obj) {
		return
	}
	s.objects = append(s.objects, obj)
}

// Remove drops obj from the scene. Removing an object that is not present does nothing.
func (s *Scene) Remove(obj *Object) {
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

// Contains reports whether obj is in the scene.
func (s *Scene) Contains(obj *Object) bool {
	for _, o := range s.objects {
		if o == obj {
			return true
		}
	}
	return false
}

// Objects returns the objects in insertion order. The slice must not be modified.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// AddLight appends a light.
func (s *Scene) AddLight(l *Light) {
	s.lights = append(s.lights, l)
}

// Lights returns the lights in insertion order.
func (s *Scene) Lights() []*Light {
	return s.lights
}
