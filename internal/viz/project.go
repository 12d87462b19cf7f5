package viz

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Viewport maps positions in metres onto canvas sub-pixels. One-dimensional
// systems lie along the x axis, two-dimensional systems map directly, and
// higher dimensions show their first three axes through Camera.
type Viewport struct {
	Width, Height int
	// Scale is sub-pixels per metre.
	Scale float64
	// PanX and PanY are the plane coordinates, in metres, shown at the centre.
	PanX, PanY float64
	Camera     *Camera
}

func NewViewport(width, height int, scale float64) *Viewport {
	return &Viewport{Width: width, Height: height, Scale: scale, Camera: NewCamera()}
}

// Plane returns the screen-plane coordinates of pos before panning and
// scaling.
func (v *Viewport) Plane(pos dynamo.Vec) (float64, float64) {
	switch len(pos) {
	case 0:
		return 0, 0
	case 1:
		return pos[0], 0
	case 2:
		return pos[0], pos[1]
	default:
		return v.Camera.View(Vec3{pos[0], pos[1], pos[2]})
	}
}

// Project returns the sub-pixel for pos and whether it falls on screen.
func (v *Viewport) Project(pos dynamo.Vec) (int, int, bool) {
	x, y := v.Plane(pos)
	sx := math.Floor(float64(v.Width)/2 + (x-v.PanX)*v.Scale)
	sy := math.Floor(float64(v.Height)/2 - (y-v.PanY)*v.Scale)
	if math.IsNaN(sx) || math.IsNaN(sy) || math.Abs(sx) > 1e9 || math.Abs(sy) > 1e9 {
		return 0, 0, false
	}
	ix, iy := int(sx), int(sy)
	return ix, iy, ix >= 0 && ix < v.Width && iy >= 0 && iy < v.Height
}

// Fit centres the positions and picks the largest scale that keeps them all
// on screen with a margin. A single point is centred at the current scale.
func (v *Viewport) Fit(positions []dynamo.Vec) {
	if len(positions) == 0 {
		return
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range positions {
		x, y := v.Plane(p)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	if math.IsInf(minX, 0) || math.IsNaN(minX) {
		return
	}

	v.PanX, v.PanY = (minX+maxX)/2, (minY+maxY)/2

	sx, sy := math.Inf(1), math.Inf(1)
	if w := maxX - minX; w > 0 {
		sx = 0.8 * float64(v.Width) / w
	}
	if h := maxY - minY; h > 0 {
		sy = 0.8 * float64(v.Height) / h
	}
	if s := math.Min(sx, sy); !math.IsInf(s, 1) {
		v.Scale = s
	}
}

// Pan moves the view by a fraction of the visible width or height.
func (v *Viewport) Pan(fx, fy float64) {
	v.PanX += fx * float64(v.Width) / v.Scale
	v.PanY += fy * float64(v.Height) / v.Scale
}

func (v *Viewport) ZoomIn()  { v.Scale *= 1.25 }
func (v *Viewport) ZoomOut() { v.Scale /= 1.25 }
