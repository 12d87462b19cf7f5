package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 200
	maxStepsPerTick = 4096
)

// Builder creates a fresh system. The live view calls it at start and on
// every reset.
type Builder func() (*sim.System, error)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a system on a timer and draws it on a braille canvas.
type Model struct {
	build         Builder
	sys           *sim.System
	title         string
	dt            float64
	stepsPerTick  int
	running       bool
	fit           bool
	canvas        *Canvas
	view          *Viewport
	trails        [][]dynamo.Vec
	showTrails    bool
	e0            float64
	energyHistory []float64
	theme         int
	styles        styleSet
	showHelp      bool
	err           error
}

// NewModel builds the first system and sets up the view. With fit set the
// view is scaled to the initial positions; otherwise it uses System.Scale.
func NewModel(build Builder, title string, dt float64, fit bool) (Model, error) {
	m := Model{
		build:        build,
		title:        title,
		dt:           dt,
		stepsPerTick: 1,
		running:      true,
		fit:          fit,
		canvas:       NewCanvas(width, height),
		showTrails:   true,
		styles:       newStyleSet(Themes[0]),
	}
	m.view = NewViewport(m.canvas.SubWidth(), m.canvas.SubHeight(), 1)
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running && m.err == nil
	case ".":
		if !m.running {
			m.advance(1)
		}
	case "r":
		if err := m.reset(); err != nil {
			m.err = err
		}
	case "+", "=":
		m.view.ZoomIn()
	case "-", "_":
		m.view.ZoomOut()
	case "f":
		m.view.Fit(m.positions())
	case "left", "h":
		m.view.Pan(-0.1, 0)
	case "right", "l":
		m.view.Pan(0.1, 0)
	case "up", "k":
		m.view.Pan(0, 0.1)
	case "down", "j":
		m.view.Pan(0, -0.1)
	case "]":
		m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
	case "[":
		m.stepsPerTick = max(m.stepsPerTick/2, 1)
	case "x":
		m.view.Camera.RotateX(0.1)
	case "X":
		m.view.Camera.RotateX(-0.1)
	case "y":
		m.view.Camera.RotateY(0.1)
	case "Y":
		m.view.Camera.RotateY(-0.1)
	case "z":
		m.view.Camera.RotateZ(0.1)
	case "Z":
		m.view.Camera.RotateZ(-0.1)
	case "t":
		m.showTrails = !m.showTrails
	case "c":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyleSet(Themes[m.theme])
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := max(w-52, 20)
	ch := max(h-4, 8)
	m.canvas = NewCanvas(cw, ch)
	m.view.Width, m.view.Height = m.canvas.SubWidth(), m.canvas.SubHeight()
}

func (m *Model) reset() error {
	sys, err := m.build()
	if err != nil {
		return err
	}
	m.sys = sys
	m.err = nil
	m.running = true
	m.e0 = sys.TotalEnergy()
	m.energyHistory = append(m.energyHistory[:0], m.e0)
	m.trails = make([][]dynamo.Vec, sys.Len())
	m.view.Camera.Reset()
	m.view.Scale = sys.Scale
	m.view.PanX, m.view.PanY = 0, 0
	if m.fit {
		m.view.Fit(m.positions())
	}
	m.record()
	return nil
}

// advance steps the system n times and stops on the first non-finite state.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		m.sys.Advance(m.dt)
	}
	if !m.sys.Snapshot().IsValid() {
		m.err = dynamo.SimError{Time: m.sys.Time(), Step: m.sys.Steps(), Message: "invalid state (NaN/Inf)"}
		m.running = false
		return
	}

	m.energyHistory = append(m.energyHistory, m.sys.TotalEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.record()
}

func (m *Model) record() {
	for i := range m.trails {
		m.trails[i] = append(m.trails[i], m.sys.Position(i))
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

func (m *Model) positions() []dynamo.Vec {
	ps := make([]dynamo.Vec, m.sys.Len())
	for i := range ps {
		ps[i] = m.sys.Position(i)
	}
	return ps
}

func (m *Model) draw() {
	m.canvas.Clear()

	if m.sys.Dim() >= 3 {
		m.drawAxes()
	}

	if m.showTrails {
		for _, trail := range m.trails {
			for _, p := range trail {
				if x, y, ok := m.view.Project(p); ok {
					m.canvas.Set(x, y)
				}
			}
		}
	}

	for i := 0; i < m.sys.Len(); i++ {
		if x, y, ok := m.view.Project(m.sys.Position(i)); ok {
			m.canvas.Dot(x, y, 1)
		}
	}
}

// drawAxes draws the three coordinate axes through the origin, one tenth of
// the visible width long.
func (m *Model) drawAxes() {
	l := 0.1 * float64(m.view.Width) / m.view.Scale
	ox, oy, _ := m.view.Project(dynamo.Vec{0, 0, 0})
	for _, end := range []dynamo.Vec{{l, 0, 0}, {0, l, 0}, {0, 0, l}} {
		ex, ey, _ := m.view.Project(end)
		if absInt(ex-ox)+absInt(ey-oy) > 4*(m.view.Width+m.view.Height) {
			continue
		}
		m.canvas.DrawLine(ox, oy, ex, ey)
	}
}

func (m Model) View() string {
	m.draw()
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.errText.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	energy := m.energyHistory[len(m.energyHistory)-1]
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.4gs", m.sys.Time()))
	row("Steps", fmt.Sprintf("%d (×%d/tick)", m.sys.Steps(), m.stepsPerTick))
	row("Bodies", fmt.Sprintf("%d in %dD", m.sys.Len(), m.sys.Dim()))
	row("Integrator", fmt.Sprintf("%s, dt=%g", m.sys.IntegratorName(), m.dt))
	row("Scale", fmt.Sprintf("%.3g px/m", m.view.Scale))
	row("Energy", fmt.Sprintf("%.6e J", energy))
	row("Drift", fmt.Sprintf("%+.3e", sim.Drift(m.e0, energy)))

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	s.WriteString(st.label.Render("Trend") + SparklineChart(m.energyHistory, 30) + "\n")

	s.WriteString(st.help.Render("SP:pause .:step R:reset Q:quit\n+/-:zoom F:fit hjkl:pan [ ]:speed\nxyz:rotate T:trails C:theme ?:help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
  Space     pause or resume
  .         single step while paused
  R         rebuild the initial system
  + / -     zoom in / out
  F         fit every body on screen
  arrows    pan (also h j k l)
  [ / ]     halve / double steps per frame
  x y z     rotate 3-D view (shift reverses)
  T         toggle trails
  C         cycle colour theme
  Q         quit`

// Run starts the live view full screen and blocks until it exits.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
