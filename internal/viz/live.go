package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"

	"github.com/san-kum/navcom/internal/config"
	"github.com/san-kum/navcom/internal/experiment"
	"github.com/san-kum/navcom/internal/nav"
	"github.com/san-kum/navcom/internal/sim"
)

const (
	canvasWidth     = 40
	canvasHeight    = 16
	historyCapacity = 300
	orbitStep       = math.Pi / 24
)

type TickMsg time.Time

// Model drives one experiment a tick per frame and renders it.
type Model struct {
	cfg    *config.Config
	logger zerolog.Logger

	exp     *experiment.Experiment
	simCfg  sim.Config
	tick    int
	t       float64
	last    nav.Snapshot
	err     error
	history []float64

	canvas   *Canvas
	camera   *Camera
	theme    Theme
	styles   styles
	running  bool
	showHelp bool
	speed    float64
}

// NewModel builds the experiment for cfg. speed scales the frame rate
// relative to real time; values <= 0 mean real time.
func NewModel(cfg *config.Config, logger zerolog.Logger, speed float64) (Model, error) {
	if speed <= 0 {
		speed = 1
	}
	m := Model{
		cfg:     cfg,
		logger:  logger,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		camera:  NewCamera(),
		theme:   ThemeCyberpunk,
		styles:  newStyles(ThemeCyberpunk),
		running: true,
		speed:   speed,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	exp, err := experiment.New(m.cfg.Clone(), m.logger)
	if err != nil {
		return err
	}
	simCfg := exp.SimConfig()
	if err := sim.Validate(simCfg); err != nil {
		return err
	}
	m.exp, m.simCfg = exp, simCfg
	m.tick, m.t = 0, 0
	m.last = exp.Computer().Snapshot()
	m.err = nil
	m.history = make([]float64, 0, historyCapacity)
	return nil
}

// Computer exposes the nav computer so callers can dispatch commands to it.
func (m Model) Computer() *nav.Computer { return m.exp.Computer() }

func (m Model) frame() time.Duration {
	return time.Duration(float64(time.Second) / (m.simCfg.UpdatesPerSecond * m.speed))
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(m.frame(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg.String())
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(m.frame(), func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) handleKey(key string) {
	c := m.exp.Computer()
	switch key {
	case " ":
		m.running = !m.running
	case "n":
		if c.Status() == nav.On {
			c.SetStatus(nav.Off)
		} else {
			c.SetStatus(nav.On)
		}
	case "a":
		modes := nav.AlignModes()
		c.SetAlignMode(modes[(int(c.AlignMode())+1)%len(modes)])
	case "l":
		c.SetAutoLevel(!c.AutoLevel())
	case "r":
		if err := m.reset(); err != nil {
			m.err = err
		}
	case "left", "h":
		m.camera.Orbit(-orbitStep, 0)
	case "right":
		m.camera.Orbit(orbitStep, 0)
	case "up", "k":
		m.camera.Orbit(0, orbitStep)
	case "down", "j":
		m.camera.Orbit(0, -orbitStep)
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
}

// step advances the closed loop by one controller tick.
func (m *Model) step() {
	if m.err != nil {
		return
	}
	sample, t := m.exp.Simulator().Step(m.tick, m.t, m.simCfg)
	m.tick++
	m.t = t
	m.last = sample.Nav

	if !m.exp.Ship().State().IsValid() {
		m.err = sim.SimError{Time: t, Step: m.tick, Message: "invalid state (NaN/Inf)"}
		m.running = false
		return
	}

	m.history = append(m.history, sample.AttitudeError())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	s := m.styles
	c := m.exp.Computer()

	m.canvas.Clear()
	m.camera.DrawAttitude(m.canvas, m.exp.Ship().Frame().Orientation, c.ForwardVector())
	canvasView := s.canvas.Render(m.canvas.String())

	var b strings.Builder
	title := "NAVCOM"
	if m.cfg.Name != "" {
		title += " · " + strings.ToUpper(m.cfg.Name)
	}
	b.WriteString(s.header.Render(title) + "\n")

	status := s.off.Render("OFF")
	if c.Status() == nav.On {
		status = s.on.Render("ON")
	}
	if !m.running {
		status += "  " + s.paused.Render("PAUSED")
	}
	b.WriteString(status + "\n\n")

	b.WriteString(m.row("Time", fmt.Sprintf("%.1fs  tick %d", m.t, m.tick)))
	b.WriteString(m.row("Align", c.AlignMode().String()))
	b.WriteString(m.row("Level", onOff(c.AutoLevel())))
	b.WriteString(m.row("Gyros", fmt.Sprintf("%d", c.Gyros())))
	b.WriteString(m.row("Thrusters", fmt.Sprintf("%d", c.Thrusters().Len())))
	b.WriteString("\n" + s.value.Render(m.last.String()))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(40),
			asciigraph.LowerBound(0),
			asciigraph.Precision(3),
			asciigraph.Caption("attitude error (rad)"))
		b.WriteString(s.graph.Render(chart) + "\n")
		b.WriteString(s.Sparkline(m.history, 40, math.Pi) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + s.off.Render(m.err.Error()) + "\n")
	}

	b.WriteString(s.help.Render("SP:Pause N:Nav A:Align L:Level\nR:Restart T:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, s.panel.Render(b.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Nav computer on/off      ║
║  A        - Cycle alignment mode     ║
║  L        - Toggle auto-level        ║
║  R        - Restart run              ║
║  Arrows   - Orbit camera             ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`

// Run starts the dashboard on the terminal and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
