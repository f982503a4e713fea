// Package graphics is the raylib side of the demo: the window loop, the scene renderer and the
// HUD overlay.
package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"meshworld/internal/engineconfig"
)

// Run opens the window described by cfg and runs the main loop until the window is closed.
// Each frame it calls update (input, camera), then draw between BeginDrawing and EndDrawing.
// draw is responsible for clearing the screen; Renderer.Render does that.
func Run(cfg engineconfig.Window, update, draw func()) {
	if cfg.Antialias {
		rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}
	rl.InitWindow(width, height, cfg.Title)
	defer rl.CloseWindow()

	fps := cfg.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(fps)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		draw()
		rl.EndDrawing()
	}
}
