package graphics

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	hudFontSize   = 20
	hudPadding    = 12
	hudLineHeight = hudFontSize + 4
	// Text is rebuilt every updateInterval frames to limit allocations.
	updateInterval = 30
)

// HUD draws the FPS, memory and body counters in the top-right corner. All lines are off by
// default.
type HUD struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowBodies   bool

	frameCount   uint32
	lastFPSText  string
	lastMemText  string
	lastBodyText string
	lastMemStats runtime.MemStats
}

// NewHUD returns a HUD with every line hidden.
func NewHUD() *HUD {
	return &HUD{}
}

// lines returns the text lines to draw this frame, rebuilding them when due.
func (h *HUD) lines(fps int32, bodies, meshes int) []string {
	h.frameCount++
	update := h.frameCount%updateInterval == 0 ||
		(h.ShowFPS && h.lastFPSText == "") ||
		(h.ShowMemAlloc && h.lastMemText == "") ||
		(h.ShowBodies && h.lastBodyText == "")

	var out []string
	if h.ShowFPS {
		if update {
			h.lastFPSText = fmt.Sprintf("FPS: %d", fps)
		}
		out = append(out, h.lastFPSText)
	}
	if h.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&h.lastMemStats)
			h.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(h.lastMemStats.Alloc)/(1024*1024))
		}
		out = append(out, h.lastMemText)
	}
	if h.ShowBodies {
		if update {
			h.lastBodyText = fmt.Sprintf("Bodies: %d  Meshes: %d", bodies, meshes)
		}
		out = append(out, h.lastBodyText)
	}
	return out
}

// Draw renders the enabled lines. Call after the scene, outside 3D mode.
func (h *HUD) Draw(bodies, meshes int) {
	screenW := int32(rl.GetScreenWidth())
	y := int32(hudPadding)
	for _, text := range h.lines(rl.GetFPS(), bodies, meshes) {
		w := rl.MeasureText(text, hudFontSize)
		rl.DrawText(text, screenW-w-hudPadding, y, hudFontSize, rl.Green)
		y += hudLineHeight
	}
}
