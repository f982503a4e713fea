package meshparser

import (
	"encoding/json"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshworld/internal/primitives"
)

const cubeDoc = `{
	"mesh": {
		"geometry": {"type": "BoxGeometry", "args": [1, 1, 1]},
		"material": {"type": "MeshStandardMaterial", "properties": {"color": "0x777777", "flatShading": true}},
		"position": [1, 2, 3],
		"castShadow": true,
		"name": "cube",
		"customDepthMaterial": {"opacity": 0.5},
		"tags": ["a", "b"]
	}
}`

func newParser() *Parser {
	return NewParser(primitives.NewRegistry())
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	return doc
}

func TestFromJSON(t *testing.T) {
	doc := decode(t, cubeDoc)
	cfg, err := newParser().FromJSON(doc)
	require.NoError(t, err)

	assert.Equal(t, primitives.BoxGeometry, cfg.Geometry.Kind)
	assert.Equal(t, primitives.MeshStandardMaterial, cfg.Material.Kind)
	assert.Equal(t, primitives.Color(7829367), cfg.Material.Color)
	assert.True(t, cfg.Material.FlatShading)

	assert.Equal(t, rl.NewVector3(1, 2, 3), cfg.Properties["position"])
	assert.Equal(t, true, cfg.Properties["castShadow"])
	assert.Equal(t, "cube", cfg.Properties["name"])
	assert.Equal(t, []any{"a", "b"}, cfg.Properties["tags"])
	assert.NotContains(t, cfg.Properties, "geometry")
	assert.NotContains(t, cfg.Properties, "material")

	depth, ok := cfg.Properties[DepthMaterialKey].(*primitives.Material)
	require.True(t, ok)
	assert.Equal(t, primitives.MeshDepthMaterial, depth.Kind)
	assert.Equal(t, float32(0.5), depth.Opacity)

	mesh := doc["mesh"].(map[string]any)
	assert.Contains(t, mesh, "geometry")
	assert.Equal(t, []any{1.0, 2.0, 3.0}, mesh["position"])
}

func TestFromJSONMissingMesh(t *testing.T) {
	_, err := newParser().FromJSON(map[string]any{"meshes": []any{}})
	assert.ErrorIs(t, err, ErrMissingMesh)
}

func TestParseGeometry(t *testing.T) {
	p := newParser()
	g, err := p.ParseGeometry(map[string]any{"type": "BoxGeometry", "args": []any{1.0, 1.0, 1.0}})
	require.NoError(t, err)
	assert.Equal(t, float32(1), g.Width)
	assert.Equal(t, float32(1), g.Height)
	assert.Equal(t, float32(1), g.Depth)

	_, err = p.ParseGeometry(map[string]any{"type": "NoSuchGeometry", "args": []any{}})
	var ute *primitives.UnknownTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "NoSuchGeometry", ute.Name)

	_, err = p.ParseGeometry(nil)
	assert.Error(t, err)
	_, err = p.ParseGeometry(map[string]any{"type": "BoxGeometry", "args": []any{"wide"}})
	assert.Error(t, err)
}

func TestParseMaterialHexCoercion(t *testing.T) {
	p := newParser()
	props := map[string]any{"color": "0x777777", "name": "0xdeadbeef"}
	m, err := p.ParseMaterial(map[string]any{"type": "MeshBasicMaterial", "properties": props})
	require.NoError(t, err)
	assert.Equal(t, primitives.Color(7829367), m.Color)
	assert.Equal(t, "0xdeadbeef", m.Name)
	assert.Equal(t, "0x777777", props["color"])

	_, err = p.ParseMaterial(map[string]any{"type": "NoSuchMaterial", "properties": map[string]any{}})
	var ute *primitives.UnknownTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "material", ute.Category)
}

func TestParseMaterialWithoutProperties(t *testing.T) {
	m, err := newParser().ParseMaterial(map[string]any{"type": "MeshNormalMaterial"})
	require.NoError(t, err)
	assert.Equal(t, primitives.Color(0xffffff), m.Color)
}

func TestToVector3(t *testing.T) {
	v, ok := toVector3([]any{1.0, 2.0, 3.0})
	assert.True(t, ok)
	assert.Equal(t, rl.NewVector3(1, 2, 3), v)

	_, ok = toVector3([]any{1.0, 2.0})
	assert.False(t, ok)
	_, ok = toVector3([]any{1.0, "2", 3.0})
	assert.False(t, ok)
	_, ok = toVector3("1,2,3")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	cfg, err := newParser().Parse([]byte(cubeDoc))
	require.NoError(t, err)
	assert.Equal(t, primitives.BoxGeometry, cfg.Geometry.Kind)

	_, err = newParser().Parse([]byte(`{`))
	assert.Error(t, err)
}
