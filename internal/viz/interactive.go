package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Factory builds a system for a scenario and integrator picked in the menu.
type Factory func(scenario, integrator string) Builder

// Entry is one menu line.
type Entry struct {
	Name, Description string
}

// Picker is a scenario menu that hands over to the live view.
type Picker struct {
	entries     []Entry
	integrators []string
	cursor      int
	integ       int
	dt          float64
	factory     Factory
	live        *Model
	err         error
	w, h        int
}

func NewPicker(entries []Entry, integrators []string, dt float64, factory Factory) Picker {
	return Picker{entries: entries, integrators: integrators, dt: dt, factory: factory}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.w, p.h = size.Width, size.Height
		return p, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "tab":
		p.integ = (p.integ + 1) % len(p.integrators)
	case "h", "left":
		p.dt /= 2
	case "l", "right":
		p.dt *= 2
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (tea.Model, tea.Cmd) {
	entry := p.entries[p.cursor]
	build := p.factory(entry.Name, p.integrators[p.integ])
	live, err := NewModel(build, entry.Name, p.dt, true)
	if err != nil {
		p.err = err
		return p, nil
	}
	if p.w > 0 {
		live.resize(p.w, p.h)
	}
	p.live = &live
	return p, live.Init()
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	t := Themes[0]
	title := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.Muted)
	sel := lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.Accent)
	key := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + title.Render("GRAVSIM") + "\n    " + sub.Render("newtonian n-body simulator") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, e := range p.entries {
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", key.Render("▸"), sel.Render(fmt.Sprintf("%-10s", e.Name)), desc.Render(e.Description)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-10s", e.Name)), sub.Render(e.Description)))
		}
	}
	b.WriteString(fmt.Sprintf("\n    integrator %s   dt %s\n", sel.Render(p.integrators[p.integ]), sel.Render(fmt.Sprintf("%g", p.dt))))
	if p.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(t.Bad).Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("tab") + sub.Render(" integrator  ") +
		key.Render("h/l") + sub.Render(" dt  ") + key.Render("enter") + sub.Render(" start  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}
