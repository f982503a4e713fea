package primitives

import (
	"encoding/json"
	"fmt"
	"sort"
)

// GeometryFunc builds a geometry from positional descriptor arguments.
type GeometryFunc func(args []float64) (*Geometry, error)

// MaterialFunc builds a material from a descriptor's options bag.
type MaterialFunc func(options map[string]any) (*Material, error)

// Registry maps geometry and material kinds to their constructors. It is filled by
// NewRegistry and never mutated afterwards, so one instance can be shared by every parser.
type Registry struct {
	geometries map[GeometryKind]GeometryFunc
	materials  map[MaterialKind]MaterialFunc
}

// NewRegistry returns a registry with every supported geometry and material.
func NewRegistry() *Registry {
	r := &Registry{
		geometries: map[GeometryKind]GeometryFunc{
			BoxGeometry:       newBox,
			SphereGeometry:    newSphere,
			CylinderGeometry:  newCylinder,
			ConeGeometry:      newCone,
			PlaneGeometry:     newPlane,
			CircleGeometry:    newCircle,
			TorusGeometry:     newTorus,
			TorusKnotGeometry: newTorusKnot,
		},
		materials: make(map[MaterialKind]MaterialFunc, len(materialNames)),
	}
	for kind := range materialNames {
		r.materials[kind] = materialConstructor(kind)
	}
	return r
}

// NewGeometry looks up typeName and calls its constructor with args.
func (r *Registry) NewGeometry(typeName string, args []float64) (*Geometry, error) {
	kind, ok := ParseGeometryKind(typeName)
	if !ok {
		return nil, &UnknownTypeError{Category: "geometry", Name: typeName}
	}
	fn, ok := r.geometries[kind]
	if !ok {
		return nil, &UnknownTypeError{Category: "geometry", Name: typeName}
	}
	g, err := fn(args)
	if err != nil {
		return nil, fmt.Errorf("primitives: %s: %w", typeName, err)
	}
	return g, nil
}

// NewMaterial looks up typeName and calls its constructor with options.
func (r *Registry) NewMaterial(typeName string, options map[string]any) (*Material, error) {
	kind, ok := ParseMaterialKind(typeName)
	if !ok {
		return nil, &UnknownTypeError{Category: "material", Name: typeName}
	}
	fn, ok := r.materials[kind]
	if !ok {
		return nil, &UnknownTypeError{Category: "material", Name: typeName}
	}
	m, err := fn(options)
	if err != nil {
		return nil, fmt.Errorf("primitives: %s: %w", typeName, err)
	}
	return m, nil
}

// GeometryTypes returns the registered geometry type names, sorted.
func (r *Registry) GeometryTypes() []string {
	out := make([]string, 0, len(r.geometries))
	for k := range r.geometries {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}

// MaterialTypes returns the registered material type names, sorted.
func (r *Registry) MaterialTypes() []string {
	out := make([]string, 0, len(r.materials))
	for k := range r.materials {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}

// fill returns args padded with defaults. More args than defaults is an error.
func fill(args []float64, defaults ...float64) ([]float64, error) {
	if len(args) > len(defaults) {
		return nil, fmt.Errorf("expected at most %d arguments, got %d", len(defaults), len(args))
	}
	out := make([]float64, len(defaults))
	copy(out, defaults)
	copy(out, args)
	return out, nil
}

func positive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %v", name, v)
	}
	return nil
}

func segments(name string, v float64, min int) (int, error) {
	n := int(v)
	if n < min {
		return 0, fmt.Errorf("%s must be at least %d, got %v", name, min, v)
	}
	return n, nil
}

// Constructor defaults follow the usual scene-graph conventions: unit box, unit sphere with
// 32x16 segments, and so on.

func newBox(args []float64) (*Geometry, error) {
	a, err := fill(args, 1, 1, 1, 1, 1, 1)
	if err != nil {
		return nil, err
	}
	for i, name := range []string{"width", "height", "depth"} {
		if err := positive(name, a[i]); err != nil {
			return nil, err
		}
	}
	g := &Geometry{Kind: BoxGeometry, Width: float32(a[0]), Height: float32(a[1]), Depth: float32(a[2])}
	if g.WidthSegments, err = segments("widthSegments", a[3], 1); err != nil {
		return nil, err
	}
	if g.HeightSegments, err = segments("heightSegments", a[4], 1); err != nil {
		return nil, err
	}
	if g.DepthSegments, err = segments("depthSegments", a[5], 1); err != nil {
		return nil, err
	}
	return g, nil
}

func newSphere(args []float64) (*Geometry, error) {
	a, err := fill(args, 1, 32, 16)
	if err != nil {
		return nil, err
	}
	if err := positive("radius", a[0]); err != nil {
		return nil, err
	}
	g := &Geometry{Kind: SphereGeometry, Radius: float32(a[0])}
	if g.WidthSegments, err = segments("widthSegments", a[1], 3); err != nil {
		return nil, err
	}
	if g.HeightSegments, err = segments("heightSegments", a[2], 2); err != nil {
		return nil, err
	}
	return g, nil
}

func newCylinder(args []float64) (*Geometry, error) {
	a, err := fill(args, 1, 1, 1, 32)
	if err != nil {
		return nil, err
	}
	if a[0] < 0 || a[1] < 0 || a[0]+a[1] == 0 {
		return nil, fmt.Errorf("radii must be non-negative and not both zero, got %v and %v", a[0], a[1])
	}
	if err := positive("height", a[2]); err != nil {
		return nil, err
	}
	g := &Geometry{Kind: CylinderGeometry, RadiusTop: float32(a[0]), RadiusBottom: float32(a[1]), Height: float32(a[2])}
	if g.RadialSegments, err = segments("radialSegments", a[3], 3); err != nil {
		return nil, err
	}
	return g, nil
}

func newCone(args []float64) (*Geometry, error) {
	a, err := fill(args, 1, 1, 32)
	if err != nil {
		return nil, err
	}
	if err := positive("radius", a[0]); err != nil {
		return nil, err
	}
	if err := positive("height", a[1]); err != nil {
		return nil, err
	}
	g := &Geometry{Kind: ConeGeometry, Radius: float32(a[0]), Height: float32(a[1])}
	if g.RadialSegments, err = segments("radialSegments", a[2], 3); err != nil {
		return nil, err
	}
	return g, nil
}

func newPlane(args []float64) (*Geometry, error) {
	a, err := fill(args, 1, 1, 1, 1)
	if err != nil {
		return nil, err
	}
	if err := positive("width", a[0]); err != nil {
		return nil, err
	}
	if err := positive("height", a[1]); err != nil {
		return nil, err
	}
	g := &Geometry{Kind: PlaneGeometry, Width: float32(a[0]), Height: float32(a[1])}
	if g.WidthSegments, err = segments("widthSegments", a[2], 1); err != nil {
		return nil, err
	}
	if g.HeightSegments, err = segments("heightSegments", a[3], 1); err != nil {
		return nil, err
	}
	return g, nil
}

func newCircle(args []float64) (*Geometry, error) {
	a, err := fill(args, 1, 32)
	if err != nil {
		return nil, err
	}
	if err := positive("radius", a[0]); err != nil {
		return nil, err
	}
	g := &Geometry{Kind: CircleGeometry, Radius: float32(a[0])}
	if g.RadialSegments, err = segments("segments", a[1], 3); err != nil {
		return nil, err
	}
	return g, nil
}

func newTorus(args []float64) (*Geometry, error) {
	a, err := fill(args, 1, 0.4, 12, 48)
	if err != nil {
		return nil, err
	}
	if err := positive("radius", a[0]); err != nil {
		return nil, err
	}
	if err := positive("tube", a[1]); err != nil {
		return nil, err
	}
	g := &Geometry{Kind: TorusGeometry, Radius: float32(a[0]), Tube: float32(a[1])}
	if g.RadialSegments, err = segments("radialSegments", a[2], 2); err != nil {
		return nil, err
	}
	if g.TubularSegments, err = segments("tubularSegments", a[3], 3); err != nil {
		return nil, err
	}
	return g, nil
}

func newTorusKnot(args []float64) (*Geometry, error) {
	a, err := fill(args, 1, 0.4, 64, 8, 2, 3)
	if err != nil {
		return nil, err
	}
	if err := positive("radius", a[0]); err != nil {
		return nil, err
	}
	if err := positive("tube", a[1]); err != nil {
		return nil, err
	}
	g := &Geometry{Kind: TorusKnotGeometry, Radius: float32(a[0]), Tube: float32(a[1]), P: int(a[4]), Q: int(a[5])}
	if g.TubularSegments, err = segments("tubularSegments", a[2], 3); err != nil {
		return nil, err
	}
	if g.RadialSegments, err = segments("radialSegments", a[3], 3); err != nil {
		return nil, err
	}
	return g, nil
}

// knownMaterialOptions are the option keys Material decodes; anything else goes to Extra.
var knownMaterialOptions = map[string]bool{
	"color": true, "emissive": true, "opacity": true, "transparent": true, "visible": true,
	"wireframe": true, "flatShading": true, "roughness": true, "metalness": true,
	"shininess": true, "size": true, "linewidth": true, "name": true,
}

func defaultMaterial(kind MaterialKind) *Material {
	m := &Material{
		Kind:    kind,
		Color:   0xffffff,
		Opacity: 1,
		Visible: true,
	}
	switch kind {
	case MeshStandardMaterial, MeshPhysicalMaterial:
		m.Roughness = 1
	case MeshPhongMaterial:
		m.Shininess = 30
	case ShadowMaterial:
		m.Color = 0x000000
		m.Transparent = true
	case PointsMaterial:
		m.Size = 1
	case LineBasicMaterial:
		m.LineWidth = 1
	}
	return m
}

func materialConstructor(kind MaterialKind) MaterialFunc {
	return func(options map[string]any) (*Material, error) {
		m := defaultMaterial(kind)
		if len(options) == 0 {
			return m, nil
		}
		data, err := json.Marshal(options)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, err
		}
		m.Kind = kind
		for k, v := range options {
			if !knownMaterialOptions[k] {
				if m.Extra == nil {
					m.Extra = make(map[string]any)
				}
				m.Extra[k] = v
			}
		}
		return m, nil
	}
}
