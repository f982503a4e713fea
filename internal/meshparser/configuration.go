// Package meshparser builds scene meshes from JSON mesh descriptors.
//
// A descriptor names a geometry type with positional arguments, a material type with an
// options bag, and any number of extra mesh properties:
//
//	{"mesh": {
//	    "geometry": {"type": "BoxGeometry", "args": [1, 1, 1]},
//	    "material": {"type": "MeshStandardMaterial", "properties": {"color": "0x777777"}},
//	    "position": [0, 2, 0],
//	    "castShadow": true
//	}}
package meshparser

import (
	"encoding/json"
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/primitives"
)

// DepthMaterialKey is the mesh property whose value is an options bag for a depth material.
const DepthMaterialKey = "customDepthMaterial"

// ErrMissingMesh is returned for documents without a "mesh" object.
var ErrMissingMesh = errors.New("meshparser: document has no mesh object")

// MeshConfiguration is a parsed descriptor: resolved geometry and material plus every other
// mesh property, with arrays of three numbers turned into vectors.
type MeshConfiguration struct {
	Geometry   *primitives.Geometry
	Material   *primitives.Material
	Properties map[string]any
}

type geometryJSON struct {
	Type string    `json:"type"`
	Args []float64 `json:"args"`
}

type materialJSON struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// Parser resolves descriptors against a registry. It is safe for concurrent use because the
// registry is read-only.
type Parser struct {
	registry *primitives.Registry
}

// NewParser returns a parser that looks up types in reg.
func NewParser(reg *primitives.Registry) *Parser {
	return &Parser{registry: reg}
}

// Registry returns the registry the parser resolves against.
func (p *Parser) Registry() *primitives.Registry {
	return p.registry
}

// Parse decodes a single-mesh JSON document.
func (p *Parser) Parse(data []byte) (*MeshConfiguration, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("meshparser: %w", err)
	}
	return p.FromJSON(doc)
}

// FromJSON builds a configuration from a decoded document. The document is not modified.
func (p *Parser) FromJSON(doc map[string]any) (*MeshConfiguration, error) {
	mesh, ok := doc["mesh"].(map[string]any)
	if !ok {
		return nil, ErrMissingMesh
	}
	return p.fromMesh(mesh)
}

func (p *Parser) fromMesh(mesh map[string]any) (*MeshConfiguration, error) {
	geometry, err := p.ParseGeometry(mesh["geometry"])
	if err != nil {
		return nil, err
	}
	material, err := p.ParseMaterial(mesh["material"])
	if err != nil {
		return nil, err
	}
	cfg := &MeshConfiguration{
		Geometry:   geometry,
		Material:   material,
		Properties: make(map[string]any, len(mesh)),
	}
	for key, value := range mesh {
		if key == "geometry" || key == "material" {
			continue
		}
		if v, ok := toVector3(value); ok {
			value = v
		}
		if key == DepthMaterialKey {
			opts, _ := value.(map[string]any)
			if value != nil && opts == nil {
				return nil, fmt.Errorf("meshparser: %s must be an object", DepthMaterialKey)
			}
			depth, err := p.registry.NewMaterial(primitives.MeshDepthMaterial.String(), opts)
			if err != nil {
				return nil, fmt.Errorf("meshparser: %s: %w", DepthMaterialKey, err)
			}
			value = depth
		}
		cfg.Properties[key] = value
	}
	return cfg, nil
}

// ParseGeometry resolves a {"type", "args"} geometry object.
func (p *Parser) ParseGeometry(raw any) (*primitives.Geometry, error) {
	var g geometryJSON
	if err := decodeInto(raw, &g); err != nil {
		return nil, fmt.Errorf("meshparser: geometry: %w", err)
	}
	return p.registry.NewGeometry(g.Type, g.Args)
}

// ParseMaterial resolves a {"type", "properties"} material object. String properties that look
// like "0x777777" are turned into integers before the material is built.
func (p *Parser) ParseMaterial(raw any) (*primitives.Material, error) {
	var m materialJSON
	if err := decodeInto(raw, &m); err != nil {
		return nil, fmt.Errorf("meshparser: material: %w", err)
	}
	props := make(map[string]any, len(m.Properties))
	for k, v := range m.Properties {
		if s, ok := v.(string); ok {
			if n, ok := primitives.ParseHexColor(s); ok {
				v = n
			}
		}
		props[k] = v
	}
	return p.registry.NewMaterial(m.Type, props)
}

// decodeInto re-decodes an already parsed JSON value into a typed struct.
func decodeInto(raw any, dst any) error {
	if raw == nil {
		return errors.New("missing")
	}
	if _, ok := raw.(map[string]any); !ok {
		return fmt.Errorf("expected object, got %T", raw)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// toVector3 converts an array of exactly three numbers.
func toVector3(v any) (rl.Vector3, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) != 3 {
		return rl.Vector3{}, false
	}
	var out [3]float32
	for i, e := range arr {
		n, ok := e.(float64)
		if !ok {
			return rl.Vector3{}, false
		}
		out[i] = float32(n)
	}
	return rl.NewVector3(out[0], out[1], out[2]), true
}
