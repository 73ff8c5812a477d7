// Package graphics owns the raylib window, the main loop and keyboard polling.
package graphics

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"vimana/internal/engineconfig"
)

// Run opens the window described by w and runs the main loop until the window is
// closed. Each frame it calls update with the frame time, then clears the screen
// and calls draw.
func Run(w engineconfig.WindowPrefs, update func(dt time.Duration), draw func()) {
	width, height := int32(w.Width), int32(w.Height)
	if w.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode | rl.FlagMsaa4xHint)
		width, height = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	}
	rl.InitWindow(width, height, w.Title)
	defer rl.CloseWindow()

	// ESC cancels panels in game; quit with the window button
	rl.SetExitKey(rl.KeyNull)
	if w.TargetFPS > 0 {
		rl.SetTargetFPS(int32(w.TargetFPS))
	}

	for !rl.WindowShouldClose() {
		update(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}
