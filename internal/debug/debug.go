// Package debug draws the 2D overlay: the heads-up display built by hud and the
// optional FPS and memory counters.
package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"vimana/internal/hud"
)

const (
	fontSize     = 20
	smallFont    = 16
	padding      = 12
	lineHeight   = fontSize + 4
	smallLine    = smallFont + 4
	cardWidth    = 560
	cardMaxLines = 26
	// counters are only re-formatted every updateInterval frames
	updateInterval = 30
)

var (
	hudText   = rl.NewColor(0, 255, 255, 230)
	cardBg    = rl.NewColor(4, 8, 16, 220)
	statusFg  = rl.NewColor(255, 200, 0, 255)
	toastBg   = rl.NewColor(0, 40, 30, 200)
	curtainFg = rl.NewColor(0, 0, 0, 255)
)

// Debug draws the overlay. The counters are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

// New returns an overlay with the counters hidden.
func New() *Debug {
	return &Debug{}
}

func (d *Debug) SetShowFPS(show bool)      { d.ShowFPS = show }
func (d *Debug) SetShowMemAlloc(show bool) { d.ShowMemAlloc = show }

// Draw renders v and the enabled counters. Call after the scene and before the
// terminal.
func (d *Debug) Draw(v hud.View) {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	if v.Fade > 0 {
		c := curtainFg
		c.A = uint8(255 * v.Fade)
		rl.DrawRectangle(0, 0, screenW, screenH, c)
	}
	if v.Prompt != "" {
		w := rl.MeasureText(v.Prompt, fontSize*2)
		rl.DrawText(v.Prompt, (screenW-w)/2, screenH/2, fontSize*2, hudText)
	}

	y := int32(padding)
	for _, line := range v.Telemetry {
		rl.DrawText(line, padding, y, fontSize, hudText)
		y += lineHeight
	}
	if v.Status != "" {
		rl.DrawText(v.Status, padding, y+lineHeight/2, fontSize, statusFg)
	}

	if v.Toast != "" {
		w := rl.MeasureText(v.Toast, fontSize)
		x := (screenW - w) / 2
		ty := screenH - 4*lineHeight
		rl.DrawRectangle(x-padding, ty-padding/2, w+2*padding, lineHeight+padding, toastBg)
		rl.DrawText(v.Toast, x, ty, fontSize, rl.White)
	}

	if v.Panel != nil {
		drawCard(v.Panel, screenW-cardWidth-padding, padding*4)
	}
	if v.Project != nil {
		drawCard(v.Project, (screenW-cardWidth)/2, screenH/6)
	}

	d.drawCounters(screenW)
}

func drawCard(c *hud.Card, x, y int32) {
	accent := rl.NewColor(c.Accent[0], c.Accent[1], c.Accent[2], 255)
	lines := c.Lines
	if len(lines) > cardMaxLines {
		lines = lines[:cardMaxLines]
	}
	h := int32(lineHeight*2+len(lines)*smallLine+lineHeight) + 2*padding
	rl.DrawRectangle(x, y, cardWidth, h, cardBg)
	rl.DrawRectangleLines(x, y, cardWidth, h, accent)

	ty := y + padding
	rl.DrawText(c.Title, x+padding, ty, fontSize+4, accent)
	ty += lineHeight * 2
	for _, line := range lines {
		rl.DrawText(line, x+padding, ty, smallFont, rl.LightGray)
		ty += smallLine
	}
	if c.Hint != "" {
		rl.DrawText(c.Hint, x+padding, ty+smallLine/2, smallFont, accent)
	}
}

func (d *Debug) drawCounters(screenW int32) {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	if (d.ShowFPS && d.lastFpsText == "") || (d.ShowMemAlloc && d.lastMemText == "") {
		update = true
	}

	y := int32(padding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(d.lastFpsText, screenW, y)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(d.lastMemStats.Alloc)/(1024*1024))
		}
		drawRight(d.lastMemText, screenW, y)
	}
}

func drawRight(text string, screenW, y int32) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
}
