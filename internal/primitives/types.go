package primitives

import "fmt"

// GeometryKind enumerates the geometry constructors the registry knows about.
type GeometryKind int

const (
	BoxGeometry GeometryKind = iota + 1
	SphereGeometry
	CylinderGeometry
	ConeGeometry
	PlaneGeometry
	CircleGeometry
	TorusGeometry
	TorusKnotGeometry
)

var geometryNames = map[GeometryKind]string{
	BoxGeometry:       "BoxGeometry",
	SphereGeometry:    "SphereGeometry",
	CylinderGeometry:  "CylinderGeometry",
	ConeGeometry:      "ConeGeometry",
	PlaneGeometry:     "PlaneGeometry",
	CircleGeometry:    "CircleGeometry",
	TorusGeometry:     "TorusGeometry",
	TorusKnotGeometry: "TorusKnotGeometry",
}

func (k GeometryKind) String() string {
	if s, ok := geometryNames[k]; ok {
		return s
	}
	return fmt.Sprintf("GeometryKind(%d)", int(k))
}

// ParseGeometryKind maps a descriptor type name (e.g. "BoxGeometry") to its kind.
func ParseGeometryKind(name string) (GeometryKind, bool) {
	for k, s := range geometryNames {
		if s == name {
			return k, true
		}
	}
	return 0, false
}

// MaterialKind enumerates the material constructors the registry knows about.
type MaterialKind int

const (
	MeshBasicMaterial MaterialKind = iota + 1
	MeshLambertMaterial
	MeshPhongMaterial
	MeshStandardMaterial
	MeshPhysicalMaterial
	MeshToonMaterial
	MeshNormalMaterial
	MeshDepthMaterial
	ShadowMaterial
	LineBasicMaterial
	PointsMaterial
)

var materialNames = map[MaterialKind]string{
	MeshBasicMaterial:    "MeshBasicMaterial",
	MeshLambertMaterial:  "MeshLambertMaterial",
	MeshPhongMaterial:    "MeshPhongMaterial",
	MeshStandardMaterial: "MeshStandardMaterial",
	MeshPhysicalMaterial: "MeshPhysicalMaterial",
	MeshToonMaterial:     "MeshToonMaterial",
	MeshNormalMaterial:   "MeshNormalMaterial",
	MeshDepthMaterial:    "MeshDepthMaterial",
	ShadowMaterial:       "ShadowMaterial",
	LineBasicMaterial:    "LineBasicMaterial",
	PointsMaterial:       "PointsMaterial",
}

func (k MaterialKind) String() string {
	if s, ok := materialNames[k]; ok {
		return s
	}
	return fmt.Sprintf("MaterialKind(%d)", int(k))
}

// ParseMaterialKind maps a descriptor type name (e.g. "MeshStandardMaterial") to its kind.
func ParseMaterialKind(name string) (MaterialKind, bool) {
	for k, s := range materialNames {
		if s == name {
			return k, true
		}
	}
	return 0, false
}

// Lit reports whether the material responds to scene lights.
func (k MaterialKind) Lit() bool {
	switch k {
	case MeshLambertMaterial, MeshPhongMaterial, MeshStandardMaterial, MeshPhysicalMaterial, MeshToonMaterial:
		return true
	}
	return false
}

// Geometry is a resolved geometry description. Only the fields relevant to Kind are set.
// It is a plain value so it can key the GPU mesh cache.
type Geometry struct {
	Kind GeometryKind

	Width  float32
	Height float32
	Depth  float32

	Radius       float32
	RadiusTop    float32
	RadiusBottom float32
	Tube         float32

	WidthSegments   int
	HeightSegments  int
	DepthSegments   int
	RadialSegments  int
	TubularSegments int

	// P and Q are the torus knot winding numbers.
	P int
	Q int
}

// Material is a resolved material description built from a descriptor's options bag.
type Material struct {
	Kind MaterialKind `json:"-"`

	Color       Color   `json:"color"`
	Emissive    Color   `json:"emissive"`
	Opacity     float32 `json:"opacity"`
	Transparent bool    `json:"transparent"`
	Visible     bool    `json:"visible"`
	Wireframe   bool    `json:"wireframe"`
	FlatShading bool    `json:"flatShading"`
	Roughness   float32 `json:"roughness"`
	Metalness   float32 `json:"metalness"`
	Shininess   float32 `json:"shininess"`
	Size        float32 `json:"size"`
	LineWidth   float32 `json:"linewidth"`
	Name        string  `json:"name"`

	// Extra keeps options the material does not define, keyed as given.
	Extra map[string]any `json:"-"`
}

// UnknownTypeError is returned when a descriptor names a geometry or material type that is
// not in the registry.
type UnknownTypeError struct {
	Category string // "geometry" or "material"
	Name     string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("primitives: unknown %s type %q", e.Category, e.Name)
}
