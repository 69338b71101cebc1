// Package tui provides the BubbleTea-based overlay playground.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/timjonaswechler/ui/anchor"
	"github.com/timjonaswechler/ui/focus"
	"github.com/timjonaswechler/ui/geometry"
	"github.com/timjonaswechler/ui/internal/config"
	"github.com/timjonaswechler/ui/overlay"
	"github.com/timjonaswechler/ui/position"
)

// overlaySize is the rendered size of every playground overlay.
var overlaySize = geometry.Size{W: 26, H: 7}

// chrome is the number of terminal rows reserved below the canvas for
// the status bar, event log and help line.
const chrome = 6

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	logStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// anchorSpot is one trigger box on the canvas. Spots are shared by
// pointer so the anchor rect callbacks observe layout changes.
type anchorSpot struct {
	id   anchor.ID
	rect geometry.Rect
}

type logLine struct {
	at   time.Time
	text string
}

type engineEventMsg struct {
	line string
}

// Model is the main playground model.
type Model struct {
	cfg    *config.Config
	engine *overlay.Engine

	anchors  []*anchorSpot
	selected int

	presets   []string
	presetIdx int

	layers []string

	cursor geometry.Point

	width  int
	height int
	ready  bool

	log    []logLine
	events chan string

	keys KeyMap
	help help.Model

	statusMsg string
}

// New creates a new playground model wired to a fresh engine.
func New(cfg *config.Config) Model {
	events := make(chan string, 64)
	push := func(line string) {
		select {
		case events <- line:
		default:
		}
	}

	engine := overlay.NewEngine(overlay.Options{Viewport: cfg.Viewport.Bounds()})
	engine.OnStateChange(func(c overlay.StateChange) {
		push(fmt.Sprintf("%s → %s", c.Anchor, c.State))
	})
	engine.OnPositionChange(func(c overlay.PositionChange) {
		if c.Detached {
			push(fmt.Sprintf("%s detached", c.Anchor))
			return
		}
		push(fmt.Sprintf("%s placed %s at (%.0f,%.0f)",
			c.Anchor, c.Side, c.Position.X, c.Position.Y))
	})

	presets := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		presets = append(presets, name)
	}
	sort.Strings(presets)

	// The render pass walks every portal layer the presets can mount
	// into, default layer first.
	seen := map[string]bool{"": true}
	layers := []string{""}
	for _, name := range presets {
		l := cfg.Presets[name].Layer
		if !seen[l] {
			seen[l] = true
			layers = append(layers, l)
		}
	}

	spots := []*anchorSpot{
		{id: "alpha"},
		{id: "beta"},
		{id: "gamma"},
	}
	for _, spot := range spots {
		s := spot
		engine.RegisterAnchor(s.id, func() geometry.Rect { return s.rect })
	}

	return Model{
		cfg:     cfg,
		engine:  engine,
		anchors: spots,
		presets: presets,
		layers:  layers,
		events:  events,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

// Init starts listening for engine events.
func (m Model) Init() tea.Cmd {
	return m.watchEvents
}

// watchEvents blocks on the engine event channel.
func (m Model) watchEvents() tea.Msg {
	return engineEventMsg{line: <-m.events}
}

// Update handles TUI messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layoutAnchors()
		m.engine.SetViewportBounds(geometry.Rect{
			W: float64(m.width),
			H: float64(m.canvasHeight()),
		})
		m.engine.Reposition()
		m.clampCursor()
		m.ready = true
		return m, nil

	case engineEventMsg:
		m.log = append(m.log, logLine{at: time.Now(), text: msg.line})
		if len(m.log) > 50 {
			m.log = m.log[len(m.log)-50:]
		}
		return m, m.watchEvents

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.cursor.Y--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor.Y++
		m.clampCursor()
	case key.Matches(msg, m.keys.Left):
		m.cursor.X--
		m.clampCursor()
	case key.Matches(msg, m.keys.Right):
		m.cursor.X++
		m.clampCursor()

	case key.Matches(msg, m.keys.NextAnchor):
		m.selected = (m.selected + 1) % len(m.anchors)

	case key.Matches(msg, m.keys.NextPreset):
		m.presetIdx = (m.presetIdx + 1) % len(m.presets)

	case key.Matches(msg, m.keys.Open):
		m.openSelected()

	case key.Matches(msg, m.keys.Close):
		m.engine.Close(m.anchors[m.selected].id)

	case key.Matches(msg, m.keys.Click):
		m.engine.PointerDown(m.cursor)

	case key.Matches(msg, m.keys.Escape):
		if !m.engine.Escape() {
			m.statusMsg = "nothing to dismiss"
		}

	case key.Matches(msg, m.keys.FocusNext):
		m.engine.FocusNext()
	case key.Matches(msg, m.keys.FocusPrev):
		m.engine.FocusPrev()
	}

	return m, nil
}

// openSelected opens the current preset on the selected anchor. The
// pointer event first simulates the trigger click, so open overlays
// elsewhere dismiss the way they would in a real scene.
func (m *Model) openSelected() {
	spot := m.anchors[m.selected]
	preset := m.presets[m.presetIdx]

	spec, err := m.cfg.Spec(preset, overlaySize)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}

	tree := focus.NewTree(string(spot.id) + "-panel")
	for _, item := range []string{"confirm", "cancel"} {
		_ = tree.Append(tree.ContainerID(), focus.Element{
			ID:       string(spot.id) + "-" + item,
			TabIndex: 0,
		})
	}
	spec.Content = tree
	spec.Payload = preset

	m.engine.PointerDown(spot.rect.Center())
	if _, err := m.engine.Open(spot.id, spec); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = ""
}

func (m *Model) canvasHeight() int {
	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	return h
}

// layoutAnchors spreads the trigger boxes proportionally over the
// canvas.
func (m *Model) layoutAnchors() {
	w := float64(m.width)
	h := float64(m.canvasHeight())

	fractions := [][2]float64{
		{0.12, 0.15},
		{0.45, 0.5},
		{0.72, 0.8},
	}
	for i, spot := range m.anchors {
		bw := float64(len(spot.id) + 4)
		spot.rect = geometry.Rect{
			X: clampf(w*fractions[i][0], 0, w-bw),
			Y: clampf(h*fractions[i][1], 0, h-3),
			W: bw,
			H: 3,
		}
	}
}

func (m *Model) clampCursor() {
	m.cursor.X = clampf(m.cursor.X, 0, float64(m.width-1))
	m.cursor.Y = clampf(m.cursor.Y, 0, float64(m.canvasHeight()-1))
}

func clampf(v, lo, hi float64) float64 {
	return geometry.Clamp(v, lo, hi)
}

// View renders the playground.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	c := newCanvas(m.width, m.canvasHeight())

	for i, spot := range m.anchors {
		label := string(spot.id)
		if i == m.selected {
			label = "▸" + label
		}
		c.drawBox(spot.rect, label, boxOutline)
	}

	for _, layerName := range m.layers {
		for _, mnt := range m.engine.Mounts(layerName) {
			m.drawMount(c, mnt.OwnerID, mnt.Content)
		}
	}

	c.set(int(m.cursor.X), int(m.cursor.Y), '+')

	return lipgloss.JoinVertical(lipgloss.Left,
		c.String(),
		m.statusBar(),
		m.eventLog(),
		m.help.View(m.keys),
	)
}

// drawMount renders one overlay box plus its directional arrow.
func (m Model) drawMount(c *canvas, ownerID string, content any) {
	anchorID := anchor.ID(ownerID)
	pos, ok := m.engine.Position(anchorID)
	if !ok || pos.Detached {
		return
	}

	preset, _ := content.(string)
	label := preset
	if focused, ok := m.engine.Focused(); ok &&
		strings.HasPrefix(focused, ownerID+"-") {
		label = label + " [" + focused + "]"
	}

	rect := geometry.RectAt(pos.Position, overlaySize)
	c.drawBox(rect, label, variantFor(preset))

	spot := m.spotFor(anchorID)
	if spot == nil {
		return
	}
	res := position.Result{Position: pos.Position, Side: pos.Side}
	c.drawArrow(res, spot.rect, overlaySize)
}

// variantFor maps a preset to its box styling.
func variantFor(preset string) boxVariant {
	switch preset {
	case "dialog", "menu":
		return boxSolid
	case "tooltip", "hover-card":
		return boxSoft
	default:
		return boxOutline
	}
}

func (m Model) spotFor(id anchor.ID) *anchorSpot {
	for _, spot := range m.anchors {
		if spot.id == id {
			return spot
		}
	}
	return nil
}

func (m Model) statusBar() string {
	spot := m.anchors[m.selected]
	state := m.engine.State(spot.id)

	s := fmt.Sprintf("anchor: %s  preset: %s  state: %s  open: %d  cursor: (%.0f,%.0f)",
		spot.id, m.presets[m.presetIdx], state, m.engine.OpenCount(),
		m.cursor.X, m.cursor.Y)
	if m.statusMsg != "" {
		s += "  " + m.statusMsg
	}
	return statusStyle.Render(s)
}

func (m Model) eventLog() string {
	const shown = 3
	start := len(m.log) - shown
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, shown)
	for _, entry := range m.log[start:] {
		lines = append(lines, fmt.Sprintf("%s  %s", humanize.Time(entry.at), entry.text))
	}
	for len(lines) < shown {
		lines = append(lines, "")
	}
	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Run starts the playground TUI.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
