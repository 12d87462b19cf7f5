package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

// Window palette. Bodies are shaded by mass instead.
var (
	colSpace  = rl.NewColor(6, 8, 14, 255)
	colGrid   = rl.NewColor(24, 30, 44, 255)
	colEnergy = rl.NewColor(120, 200, 160, 255)
	colTitle  = rl.NewColor(235, 235, 240, 255)
	colLabel  = rl.NewColor(150, 155, 170, 255)
	colMuted  = rl.NewColor(70, 75, 90, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720

	maxHistory   = 300
	maxTelemetry = 400
	maxSpeed     = 4096
)

type App struct {
	Build     viz.Builder
	Sys       *sim.System
	Title     string
	Dt        float64
	Speed     int
	Running   bool
	Fit       bool
	View      *viz.Viewport
	History   [][]dynamo.Vec // per-body trails
	Telemetry []float64      // total energy
	E0        float64
	Err       error
	ShowTrail bool
	Font      rl.Font
}

// initWindow opens a 1280x720 window at 60 FPS and disables the default exit key.
func initWindow(title string) {
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when it is installed and falls back to
// raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the first system. The view starts at System.Scale pixels
// per metre unless fit is set.
func NewApp(build viz.Builder, title string, dt float64, fit bool) (*App, error) {
	a := &App{
		Build:     build,
		Title:     title,
		Dt:        dt,
		Speed:     1,
		Fit:       fit,
		View:      viz.NewViewport(screenWidth, screenHeight, 1),
		ShowTrail: true,
	}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(build viz.Builder, title string, dt float64, fit bool) error {
	initWindow("gravsim :: " + title)
	defer rl.CloseWindow()

	a, err := NewApp(build, title, dt, fit)
	if err != nil {
		return err
	}
	a.Font = loadFont()
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) reset() error {
	sys, err := a.Build()
	if err != nil {
		return err
	}
	a.Sys = sys
	a.Err = nil
	a.Running = true
	a.E0 = sys.TotalEnergy()
	a.Telemetry = append(a.Telemetry[:0], a.E0)
	a.History = make([][]dynamo.Vec, sys.Len())
	a.View.Camera.Reset()
	a.View.Scale = sys.Scale
	a.View.PanX, a.View.PanY = 0, 0
	if a.Fit {
		a.View.Fit(a.positions())
	}
	a.record()
	return nil
}

// step advances the system by n steps and pauses on the first non-finite
// state.
func (a *App) step(n int) {
	for i := 0; i < n; i++ {
		a.Sys.Advance(a.Dt)
	}
	if !a.Sys.Snapshot().IsValid() {
		a.Err = dynamo.SimError{Time: a.Sys.Time(), Step: a.Sys.Steps(), Message: "invalid state (NaN/Inf)"}
		a.Running = false
		return
	}

	a.Telemetry = append(a.Telemetry, a.Sys.TotalEnergy())
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	a.record()
}

func (a *App) record() {
	for i := range a.History {
		a.History[i] = append(a.History[i], a.Sys.Position(i))
		if len(a.History[i]) > maxHistory {
			a.History[i] = a.History[i][1:]
		}
	}
}

func (a *App) positions() []dynamo.Vec {
	ps := make([]dynamo.Vec, a.Sys.Len())
	for i := range ps {
		ps[i] = a.Sys.Position(i)
	}
	return ps
}

// Update handles input and steps the system. It returns false when the user
// quits.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running && a.Err == nil
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && !a.Running && a.Err == nil {
		a.step(1)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil {
			a.Err = err
		}
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		a.Speed = min(a.Speed*2, maxSpeed)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		a.Speed = max(a.Speed/2, 1)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.View.Fit(a.positions())
	}
	if rl.IsKeyPressed(rl.KeyT) {
		a.ShowTrail = !a.ShowTrail
	}

	pan := 0.01
	if rl.IsKeyDown(rl.KeyLeftShift) {
		pan = 0.05
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.View.Pan(-pan, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		a.View.Pan(pan, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.View.Pan(0, pan)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.View.Pan(0, -pan)
	}

	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		a.View.ZoomIn()
	} else if wheel < 0 {
		a.View.ZoomOut()
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) && a.Sys.Dim() >= 3 {
		delta := rl.GetMouseDelta()
		a.View.Camera.RotateY(float64(delta.X) * 0.01)
		a.View.Camera.RotateX(float64(delta.Y) * 0.01)
	}

	if a.Running {
		a.step(a.Speed)
	}
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colSpace)

	a.drawGrid()
	if a.Sys.Dim() >= 3 {
		a.drawAxes()
	}
	if a.ShowTrail {
		a.drawTrails()
	}
	a.drawBodies()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("gravsim", 30, 30, 24, colTitle)
	a.drawText(fmt.Sprintf(":: %s", a.Title), 150, 34, 16, colLabel)

	a.DrawTelemetry()

	status, col := "RUNNING", colTitle
	switch {
	case a.Err != nil:
		status, col = "HALTED", rl.Red
		a.drawText(a.Err.Error(), 30, 70, 14, rl.Red)
	case !a.Running:
		status, col = "PAUSED", colMuted
	}
	a.drawText(status, 1150, 30, 16, col)

	e := a.Telemetry[len(a.Telemetry)-1]
	lines := []string{
		fmt.Sprintf("t      %.4gs", a.Sys.Time()),
		fmt.Sprintf("steps  %d (x%d)", a.Sys.Steps(), a.Speed),
		fmt.Sprintf("bodies %d in %dD", a.Sys.Len(), a.Sys.Dim()),
		fmt.Sprintf("integ  %s dt=%g", a.Sys.IntegratorName(), a.Dt),
		fmt.Sprintf("scale  %.3g px/m", a.View.Scale),
		fmt.Sprintf("drift  %+.3e", sim.Drift(a.E0, e)),
	}
	for i, l := range lines {
		a.drawText(l, 1030, 70+i*20, 14, colLabel)
	}

	a.drawText("[SPACE] PAUSE  [.] STEP  [R] RESET  [ ] SPEED  [F] FIT  [T] TRAILS  [Q] QUIT", 560, 680, 14, colMuted)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, colMuted)
}

// DrawTelemetry plots the recent total energy as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, colEnergy)
	a.drawText(fmt.Sprintf("E: %.4e J", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, colLabel)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
