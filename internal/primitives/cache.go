package primitives

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Cache turns geometry descriptions into GPU meshes and draws them. Meshes are generated on
// first use so GPU resources are allocated after the window/OpenGL context exists.
type Cache struct {
	meshes   map[Geometry]rl.Mesh
	mtl      rl.Material
	shader   rl.Shader
	loaded   bool
	viewPos  rl.Vector3
	lightDir rl.Vector3 // direction to light, set each frame
	ambient  float32
	light    float32
}

// NewCache returns an empty cache. Nothing touches the GPU until the first Draw.
func NewCache() *Cache {
	return &Cache{
		meshes:   make(map[Geometry]rl.Mesh),
		lightDir: rl.NewVector3(0.5, 1, 0.5),
		ambient:  0.25,
		light:    0.75,
	}
}

// SetView sets camera position, direction to the light and light intensities for this frame.
func (c *Cache) SetView(viewPos, lightDir rl.Vector3, ambient, light float32) {
	c.viewPos = viewPos
	c.lightDir = rl.Vector3Normalize(lightDir)
	c.ambient = ambient
	c.light = light
}

func (c *Cache) ensureMaterial() {
	if c.loaded {
		return
	}
	c.loaded = true
	c.mtl = rl.LoadMaterialDefault()
	c.shader = rl.LoadShaderFromMemory(litVS, litFS)
	if rl.IsShaderValid(c.shader) {
		c.mtl.Shader = c.shader
	}
}

// genMesh builds the raylib mesh for g. Segment counts map onto raylib's rings/slices.
func genMesh(g Geometry) rl.Mesh {
	switch g.Kind {
	case BoxGeometry:
		return rl.GenMeshCube(g.Width, g.Height, g.Depth)
	case SphereGeometry:
		return rl.GenMeshSphere(g.Radius, g.HeightSegments, g.WidthSegments)
	case CylinderGeometry:
		if g.RadiusTop == 0 {
			return rl.GenMeshCone(g.RadiusBottom, g.Height, g.RadialSegments)
		}
		return rl.GenMeshCylinder(max(g.RadiusTop, g.RadiusBottom), g.Height, g.RadialSegments)
	case ConeGeometry:
		return rl.GenMeshCone(g.Radius, g.Height, g.RadialSegments)
	case PlaneGeometry:
		return rl.GenMeshPlane(g.Width, g.Height, g.WidthSegments, g.HeightSegments)
	case CircleGeometry:
		return rl.GenMeshPoly(g.RadialSegments, g.Radius)
	case TorusGeometry:
		return rl.GenMeshTorus(g.Tube/g.Radius, g.Radius, g.TubularSegments, g.RadialSegments)
	case TorusKnotGeometry:
		return rl.GenMeshKnot(g.Tube/g.Radius, g.Radius, g.TubularSegments, g.RadialSegments)
	}
	return rl.GenMeshCube(1, 1, 1)
}

// modelOffset corrects raylib's generated mesh placement to a centered, Y-up mesh with flat
// shapes facing +Z.
func modelOffset(g Geometry) rl.Matrix {
	switch g.Kind {
	case CylinderGeometry, ConeGeometry:
		// raylib cylinders and cones have their base at Y=0.
		return rl.MatrixTranslate(0, -g.Height/2, 0)
	case PlaneGeometry, CircleGeometry:
		return rl.MatrixRotateX(math.Pi / 2)
	}
	return rl.MatrixIdentity()
}

func (c *Cache) mesh(g Geometry) rl.Mesh {
	m, ok := c.meshes[g]
	if !ok {
		m = genMesh(g)
		c.meshes[g] = m
	}
	return m
}

func (c *Cache) setUniforms(lit bool) {
	if !rl.IsShaderValid(c.shader) {
		return
	}
	viewPos := []float32{c.viewPos.X, c.viewPos.Y, c.viewPos.Z}
	lightDir := []float32{c.lightDir.X, c.lightDir.Y, c.lightDir.Z}
	ambient, light := c.ambient, c.light
	if !lit {
		ambient, light = 1, 0
	}
	if loc := rl.GetShaderLocation(c.shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(c.shader, loc, viewPos, rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(c.shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(c.shader, loc, lightDir, rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(c.shader, "ambientStrength"); loc >= 0 {
		rl.SetShaderValue(c.shader, loc, []float32{ambient}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(c.shader, "lightStrength"); loc >= 0 {
		rl.SetShaderValue(c.shader, loc, []float32{light}, rl.ShaderUniformFloat)
	}
}

// Draw draws geometry g with material m at the given position, orientation and scale.
// Must be called between BeginMode3D and EndMode3D.
func (c *Cache) Draw(g *Geometry, m *Material, position rl.Vector3, rotation rl.Quaternion, scale rl.Vector3) {
	if g == nil || m == nil || !m.Visible {
		return
	}
	c.ensureMaterial()
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		opacity := m.Opacity
		if !m.Transparent {
			opacity = 1
		}
		albedo.Color = m.Color.RGBA(opacity)
	}
	c.setUniforms(m.Kind.Lit())

	// Row-vector order: offset, scale, rotate, translate.
	transform := rl.MatrixMultiply(modelOffset(*g), rl.MatrixScale(scale.X, scale.Y, scale.Z))
	transform = rl.MatrixMultiply(transform, rl.QuaternionToMatrix(rotation))
	transform = rl.MatrixMultiply(transform, rl.MatrixTranslate(position.X, position.Y, position.Z))
	rl.DrawMesh(c.mesh(*g), c.mtl, transform)
}

// Unload frees every GPU mesh and the shader.
func (c *Cache) Unload() {
	for g, m := range c.meshes {
		rl.UnloadMesh(&m)
		delete(c.meshes, g)
	}
	if c.loaded && rl.IsShaderValid(c.shader) {
		rl.UnloadShader(c.shader)
	}
	c.loaded = false
}

// One shader serves lit and unlit materials; unlit draws set ambientStrength=1, lightStrength=0.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(mat3(matModel) * vertexNormal);
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform float ambientStrength;
uniform float lightStrength;
out vec4 finalColor;
void main() {
  vec3 n = normalize(fragNormal);
  vec3 l = normalize(lightDir);
  vec3 v = normalize(viewPos - fragPosition);
  float diffuse = max(dot(n, l), 0.0) * lightStrength;
  float spec = pow(max(dot(n, normalize(l + v)), 0.0), 32.0) * 0.25 * lightStrength;
  vec3 rgb = colDiffuse.rgb * (ambientStrength + diffuse) + vec3(spec);
  finalColor = vec4(min(rgb, vec3(1.0)), colDiffuse.a);
}
`
)
