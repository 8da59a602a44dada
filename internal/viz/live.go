package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/interact"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
)

const (
	frameRate       = 60
	historyCapacity = 240
	headerRows      = 1
	panelWidth      = 46
	gaugeWidth      = 24
	// gaugeSpeed is the node speed that fills the gauge.
	gaugeSpeed = 20.0
)

type TickMsg time.Time

type Options struct {
	// Width and Height are the canvas size in terminal cells.
	Width, Height int
	Theme         string
}

// Model is the live view: it drives the simulator from a 60 Hz tick,
// forwards mouse presses, drags and releases as pointer events, and draws
// the chain on a braille canvas.
type Model struct {
	sim    *sim.Simulator
	layout physics.Layout
	canvas *Canvas
	keys   keyMap
	help   help.Model
	theme  Theme
	styles styles

	paramKeys []string
	selected  int
	running   bool
	status    string
	statusErr bool
	pointer   dynamo.Vec
	frame     sim.Frame
	energy    []float64

	gauge              harmonica.Spring
	gaugePos, gaugeVel float64
}

func NewModel(s *sim.Simulator, l physics.Layout, opts Options) Model {
	if opts.Width <= 0 {
		opts.Width = 60
	}
	if opts.Height <= 0 {
		opts.Height = 20
	}
	theme := GetTheme(opts.Theme)
	keys := make([]string, 0, len(params.Names()))
	for _, n := range params.Names() {
		if n != params.NodeCount {
			keys = append(keys, n)
		}
	}
	m := Model{
		sim:       s,
		layout:    l,
		canvas:    NewCanvas(opts.Width, opts.Height),
		keys:      defaultKeyMap(),
		help:      help.New(),
		theme:     theme,
		styles:    newStyles(theme),
		paramKeys: keys,
		running:   true,
		energy:    make([]float64, 0, historyCapacity),
		gauge:     harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 1.0),
	}
	m.fit()
	m.frame = s.Snapshot()
	DrawChain(m.canvas, m.frame)
	return m
}

// Run opens the live view and blocks until the user quits.
func Run(s *sim.Simulator, l physics.Layout, opts Options) error {
	p := tea.NewProgram(NewModel(s, l, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) fit() {
	lo, hi := LayoutBounds(m.layout, m.sim.Params().Snapshot().RestLength)
	m.canvas.View = FitViewport(lo, hi, float64(m.canvas.SubWidth()), float64(m.canvas.SubHeight()))
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		w := max(msg.Width-panelWidth, 10)
		h := max(msg.Height-headerRows-2, 5)
		m.canvas = NewCanvas(w, h)
		m.help.Width = msg.Width
		m.fit()
		DrawChain(m.canvas, m.frame)
		return m, nil
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.running = !m.running
	case key.Matches(msg, m.keys.Reset):
		m.report(m.sim.Reset(), "reset")
		m.energy = m.energy[:0]
	case key.Matches(msg, m.keys.NextParam):
		m.selected = (m.selected + 1) % len(m.paramKeys)
	case key.Matches(msg, m.keys.Increase):
		m.adjustParam(1.05)
	case key.Matches(msg, m.keys.Decrease):
		m.adjustParam(0.95)
	case key.Matches(msg, m.keys.AddNode):
		m.adjustNodes(1)
	case key.Matches(msg, m.keys.DropNode):
		m.adjustNodes(-1)
	case key.Matches(msg, m.keys.Pin):
		a, i := m.sim.TogglePinNearest(m.pointer)
		m.report(nil, fmt.Sprintf("node %d %s", i, a))
	case key.Matches(msg, m.keys.Theme):
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.frame = m.sim.Snapshot()
	DrawChain(m.canvas, m.frame)
	return m, nil
}

// pointerAt maps a mouse cell to model coordinates at the cell centre.
func (m Model) pointerAt(x, y int) dynamo.Vec {
	sub := dynamo.V(float64(x*2)+1, float64((y-headerRows)*4)+2)
	return m.canvas.View.ToModel(sub)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := m.pointerAt(msg.X, msg.Y)
	m.pointer = p

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		a, i := m.sim.PointerDown(p, msg.Ctrl || msg.Alt)
		if a == interact.Pinned || a == interact.Unpinned {
			m.report(nil, fmt.Sprintf("node %d %s", i, a))
		}
	case tea.MouseActionMotion:
		m.sim.PointerMove(p)
	case tea.MouseActionRelease:
		m.sim.PointerUp(p)
	}
}

func (m *Model) step(now time.Time) {
	if m.running {
		if err := m.sim.Tick(now); err != nil {
			m.report(err, "")
		}
	}
	m.frame = m.sim.Snapshot()
	DrawChain(m.canvas, m.frame)

	if m.running {
		e := physics.Energy(m.frame.Nodes, m.frame.Params)
		if len(m.energy) == historyCapacity {
			copy(m.energy, m.energy[1:])
			m.energy = m.energy[:historyCapacity-1]
		}
		m.energy = append(m.energy, e)
	}

	target := math.Min(physics.MaxSpeed(m.frame.Nodes)/gaugeSpeed, 1)
	m.gaugePos, m.gaugeVel = m.gauge.Update(m.gaugePos, m.gaugeVel, target)
}

func (m *Model) adjustParam(factor float64) {
	name := m.paramKeys[m.selected]
	val := m.sim.Params().GetParams()[name]
	newVal := val * factor
	if val == 0 {
		newVal = factor - 1
	}
	m.report(m.sim.Params().SetParam(name, newVal), fmt.Sprintf("%s = %.3f", name, newVal))
}

func (m *Model) adjustNodes(delta int) {
	n := m.sim.Params().Snapshot().NodeCount + delta
	m.report(m.sim.Params().SetNodeCount(n), fmt.Sprintf("nodes = %d", n))
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return
	}
	m.status, m.statusErr = ok, false
}

func (m Model) View() string {
	f := m.frame
	state := m.styles.ok.Render("running")
	switch {
	case f.Frozen:
		state = m.styles.err.Render("frozen")
	case !m.running:
		state = m.styles.warn.Render("paused")
	}
	header := fmt.Sprintf("%s  t=%.2fs  frame %d  %s  %s",
		m.styles.header.Render("springchain"), f.Time/1000, f.Index, state, m.styles.muted.Render(f.Mode.String()))

	canvas := m.styles.chain.Render(m.canvas.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.styles.panel.Render(m.panel()))

	status := m.styles.muted.Render(m.status)
	if m.statusErr {
		status = m.styles.err.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, m.help.View(m.keys))
}

func (m Model) panel() string {
	var b strings.Builder
	b.WriteString(m.styles.header.Render("parameters") + "\n")
	values := m.sim.Params().GetParams()
	for i, name := range m.paramKeys {
		line := m.styles.label.Render(name) + m.styles.value.Render(fmt.Sprintf("%.3f", values[name]))
		if i == m.selected {
			line = m.styles.active.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("  " + m.styles.label.Render(params.NodeCount) + m.styles.value.Render(fmt.Sprint(len(m.frame.Nodes))) + "\n")
	b.WriteString("  " + m.styles.label.Render("pinned") + m.styles.value.Render(fmt.Sprint(m.frame.Pinned)) + "\n\n")

	b.WriteString(m.styles.header.Render("speed") + "\n")
	filled := int(math.Round(math.Max(0, math.Min(1, m.gaugePos)) * gaugeWidth))
	b.WriteString(m.styles.graph.Render(strings.Repeat("█", filled)) + m.styles.muted.Render(strings.Repeat("░", gaugeWidth-filled)) + "\n\n")

	if len(m.energy) > 1 {
		b.WriteString(m.styles.header.Render("energy") + "\n")
		b.WriteString(m.styles.graph.Render(asciigraph.Plot(m.energy, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Precision(0))))
	}
	return b.String()
}
