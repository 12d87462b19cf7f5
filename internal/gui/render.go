package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// bodyRadius maps a mass onto a disc radius in pixels. The heaviest body in
// the system gets 8 px and the rest shrink with the cube root of their mass.
func bodyRadius(m, heaviest float64) float32 {
	if heaviest <= 0 || m <= 0 {
		return 2
	}
	return float32(max(2, 8*math.Cbrt(m/heaviest)))
}

func (a *App) drawBodies() {
	heaviest := 0.0
	for i := 0; i < a.Sys.Len(); i++ {
		heaviest = max(heaviest, a.Sys.Mass(i))
	}
	for i := 0; i < a.Sys.Len(); i++ {
		x, y, ok := a.View.Project(a.Sys.Position(i))
		if !ok {
			continue
		}
		v := a.Sys.Velocity(i).Norm()
		shade := uint8(math.Min(150+math.Log1p(v)*10, 255))
		rl.DrawCircle(int32(x), int32(y), bodyRadius(a.Sys.Mass(i), heaviest), rl.NewColor(shade, shade, shade, 255))
	}
}

func (a *App) drawTrails() {
	for _, trail := range a.History {
		for j := 1; j < len(trail); j++ {
			x0, y0, ok0 := a.View.Project(trail[j-1])
			x1, y1, ok1 := a.View.Project(trail[j])
			if !ok0 || !ok1 {
				continue
			}
			alpha := uint8(30 + 150*j/len(trail))
			rl.DrawLine(int32(x0), int32(y0), int32(x1), int32(y1), rl.NewColor(180, 180, 180, alpha))
		}
	}
}

// drawGrid draws lines through the world origin and at powers of ten that
// leave roughly 100 px between lines.
func (a *App) drawGrid() {
	spacing := math.Pow(10, math.Round(math.Log10(100/a.View.Scale)))
	if math.IsInf(spacing, 0) || math.IsNaN(spacing) || spacing <= 0 {
		return
	}
	halfW := float64(a.View.Width) / 2 / a.View.Scale
	halfH := float64(a.View.Height) / 2 / a.View.Scale
	if halfW/spacing > 200 || halfH/spacing > 200 {
		return
	}

	for x := math.Floor((a.View.PanX-halfW)/spacing) * spacing; x <= a.View.PanX+halfW; x += spacing {
		sx := int32(float64(a.View.Width)/2 + (x-a.View.PanX)*a.View.Scale)
		rl.DrawLine(sx, 0, sx, int32(a.View.Height), colGrid)
	}
	for y := math.Floor((a.View.PanY-halfH)/spacing) * spacing; y <= a.View.PanY+halfH; y += spacing {
		sy := int32(float64(a.View.Height)/2 - (y-a.View.PanY)*a.View.Scale)
		rl.DrawLine(0, sy, int32(a.View.Width), sy, colGrid)
	}
}

func (a *App) drawAxes() {
	l := 0.1 * float64(a.View.Width) / a.View.Scale
	ox, oy, _ := a.View.Project(dynamo.Vec{0, 0, 0})
	cols := []rl.Color{rl.Red, rl.Green, rl.Blue}
	for i, end := range []dynamo.Vec{{l, 0, 0}, {0, l, 0}, {0, 0, l}} {
		ex, ey, _ := a.View.Project(end)
		rl.DrawLine(int32(ox), int32(oy), int32(ex), int32(ey), cols[i])
	}
}
