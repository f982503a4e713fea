package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/primitives"
	"meshworld/internal/scene"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220

	// Scene light intensities are scaled into the shader's 0..1 budget.
	ambientShare = 0.3
	diffuseShare = 0.7
)

// Renderer draws a scene with raylib. Create it before the window opens; GPU resources are
// allocated on the first Render.
type Renderer struct {
	GridVisible bool
	cache       *primitives.Cache
}

// NewRenderer returns a renderer with an empty mesh cache.
func NewRenderer(gridVisible bool) *Renderer {
	return &Renderer{GridVisible: gridVisible, cache: primitives.NewCache()}
}

// Render clears to the scene background and draws every visible object from cam.
func (r *Renderer) Render(scn *scene.Scene, cam *scene.Camera) {
	rl.ClearBackground(scn.Background.RGBA(1))

	lightDir, ambient, diffuse := lighting(scn.Lights())
	r.cache.SetView(cam.Position, lightDir, ambient, diffuse)

	rl.BeginMode3D(cam.Raylib())
	for _, obj := range scn.Objects() {
		if !obj.Visible {
			continue
		}
		r.cache.Draw(obj.Geometry, obj.Material, obj.Position, obj.Quaternion, obj.Scale)
	}
	if r.GridVisible {
		drawEditorGrid()
	}
	rl.EndMode3D()
}

// Unload frees the GPU meshes. Call before the window closes.
func (r *Renderer) Unload() {
	r.cache.Unload()
}

// lighting folds the scene lights into the single directional light the shader supports.
// The first directional light wins; without one the scene is lit from above.
func lighting(lights []*scene.Light) (dir rl.Vector3, ambient, diffuse float32) {
	dir = rl.NewVector3(0, 1, 0)
	haveDir := false
	for _, l := range lights {
		switch l.Kind {
		case scene.AmbientLight:
			ambient += l.Intensity * ambientShare
		case scene.DirectionalLight:
			if haveDir {
				continue
			}
			haveDir = true
			diffuse = l.Intensity * diffuseShare
			if rl.Vector3Length(l.Position) > 0 {
				dir = rl.Vector3Normalize(l.Position)
			}
		}
	}
	if len(lights) == 0 {
		ambient, diffuse = ambientShare, diffuseShare
	}
	return dir, min(ambient, 1), min(diffuse, 1)
}

// OrbitCamera moves cam with raylib's orbital camera mode.
func OrbitCamera(cam *scene.Camera) {
	rc := cam.Raylib()
	rl.UpdateCamera(&rc, rl.CameraOrbital)
	cam.SetFromRaylib(rc)
}

// drawEditorGrid draws a grid on the XZ plane with major/minor lines and axis lines.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY := rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), 0, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, 0, float32(i)
		end.X, end.Y, end.Z = gridExtent, 0, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	rl.DrawLine3D(rl.NewVector3(-gridExtent, 0, 0), rl.NewVector3(gridExtent, 0, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, -gridExtent, 0), rl.NewVector3(0, gridExtent, 0), axisY)
	rl.DrawLine3D(rl.NewVector3(0, 0, -gridExtent), rl.NewVector3(0, 0, gridExtent), axisZ)
}
