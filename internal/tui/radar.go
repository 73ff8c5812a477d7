package tui

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultScale is metres per column at the default zoom.
const DefaultScale = 4

// Radar projects world XZ onto a north-up character grid centred on a point.
// Rows are about twice as tall as columns, so Z uses twice the scale.
type Radar struct {
	Scale float32
}

// Project returns the cell for p, and false when it falls outside a w×h grid.
func (r Radar) Project(center, p mgl32.Vec3, w, h int) (x, y int, ok bool) {
	scale := r.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	x = w/2 + int(math32.Round((p[0]-center[0])/scale))
	y = h/2 + int(math32.Round((p[2]-center[2])/(2*scale)))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// Zoom multiplies the scale by f, keeping it within [1, 64].
func (r *Radar) Zoom(f float32) {
	s := r.Scale * f
	if s < 1 {
		s = 1
	}
	if s > 64 {
		s = 64
	}
	r.Scale = s
}

// HeadingGlyph picks an arrow for the craft's forward direction (-Z is up).
func HeadingGlyph(rot mgl32.Quat) rune {
	f := rot.Rotate(mgl32.Vec3{0, 0, -1})
	if math32.Abs(f[0]) > math32.Abs(f[2]) {
		if f[0] > 0 {
			return '▶'
		}
		return '◀'
	}
	if f[2] > 0 {
		return '▼'
	}
	return '▲'
}
