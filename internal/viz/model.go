package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballpit/internal/arena"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/logging"
	"github.com/san-kum/ballpit/internal/metrics"
)

const (
	canvasCols      = 64
	canvasRows      = 32
	historyCapacity = 600
)

type TickMsg time.Time

// Model hosts an arena session in the terminal. The animation runs while
// the mouse is over the arena and the terminal has focus; space pauses it.
type Model struct {
	ctx      context.Context
	cfg      config.Config
	log      *logging.Logger
	session  *arena.Session
	renderer *Renderer
	view     Viewport
	energy   *metrics.KineticEnergy
	interval time.Duration

	theme         Theme
	seed          int64
	inside        bool
	paused        bool
	showHelp      bool
	energyHistory []float64
}

// NewModel builds the world from cfg and draws it once.
func NewModel(ctx context.Context, cfg config.Config, log *logging.Logger) Model {
	view := NewViewport(canvasCols, canvasRows, cfg.Arena.Width, cfg.Arena.Height)
	view.Left, view.Top = canvasLeft, canvasTop

	renderer := NewRenderer(view)
	session := arena.New(ctx, cfg.NewWorld(), renderer, log)
	energy := metrics.NewKineticEnergy()
	session.AddObserver(energy)
	session.Draw()

	fps := cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}

	return Model{
		ctx:           ctx,
		cfg:           cfg,
		log:           log,
		session:       session,
		renderer:      renderer,
		view:          view,
		energy:        energy,
		interval:      time.Second / time.Duration(fps),
		theme:         GetTheme(cfg.Theme),
		seed:          cfg.Seed,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// enter starts the animation unless paused, returning the first tick.
func (m *Model) enter() tea.Cmd {
	if m.paused || !m.session.Enter() {
		return nil
	}
	return m.tick()
}

func (m *Model) leave() {
	if !m.inside {
		return
	}
	m.inside = false
	m.session.Leave()
}

// Update handles input events and delivers ticks to the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.session.Leave()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if m.paused {
				m.session.Stop()
			} else if m.inside {
				return m, m.enter()
			}
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.BlurMsg:
		m.leave()

	case tea.MouseMsg:
		return m, m.mouse(msg)

	case TickMsg:
		again := m.session.Tick()
		m.energyHistory = append(m.energyHistory, m.energy.Last())
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
		if again {
			return m, m.tick()
		}
	}
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) tea.Cmd {
	pos, ok := m.view.ToArena(msg.X, msg.Y)
	if !ok {
		m.leave()
		return nil
	}

	var cmd tea.Cmd
	if !m.inside {
		m.inside = true
		cmd = m.enter()
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.session.Move(pos)
		if msg.Button == tea.MouseButtonLeft {
			m.session.Press(pos)
		}
	case tea.MouseActionRelease:
		m.session.Move(pos)
		m.session.Release()
	case tea.MouseActionMotion:
		m.session.Move(pos)
	}

	if !m.session.Running() {
		m.session.Draw()
	}
	return cmd
}

// reset reseeds the world with the next seed.
func (m *Model) reset() {
	m.seed++
	cfg := m.cfg
	cfg.Seed = m.seed
	m.session.Reset(cfg.NewWorld())
	m.energy.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.session.Draw()
}

func (m Model) status() string {
	switch {
	case m.session.Running():
		return lipgloss.NewStyle().Bold(true).Foreground(m.theme.Success).Render("RUNNING")
	case m.paused:
		return lipgloss.NewStyle().Bold(true).Foreground(m.theme.Warning).Render("PAUSED")
	default:
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("IDLE - move the mouse over the arena")
	}
}

// View renders the arena on the left and the stats panel on the right.
func (m Model) View() string {
	header := GradientText("BALLPIT", m.theme.Primary, m.theme.Secondary) + "  " + m.status()

	canvasView := canvasStyle.BorderForeground(m.theme.Muted).Render(m.renderer.Render(m.theme))

	w := m.session.World
	var s strings.Builder
	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Ticks", fmt.Sprintf("%d", m.session.Ticks()))
	row("Bodies", fmt.Sprintf("%d", w.Len()))
	row("Seed", fmt.Sprintf("%d", m.seed))
	row("Energy", fmt.Sprintf("%.3f", metrics.Kinetic(w)))
	row("Contacts", fmt.Sprintf("%d", metrics.Overlaps(w)))
	row("On walls", fmt.Sprintf("%d", metrics.Resting(w)))
	if i, ok := m.session.Pointer().Captured(); ok {
		row("Holding", lipgloss.NewStyle().Foreground(m.theme.Accent).Render(fmt.Sprintf("body %d", i)))
	} else {
		row("Holding", "-")
	}
	row("Theme", m.theme.Name)

	if m.showHelp {
		s.WriteString("\n" + helpBox.BorderForeground(m.theme.Primary).Render(strings.Join([]string{
			"Mouse    - Enter the arena to animate",
			"Drag     - Grab a body and pull it",
			"Space    - Pause/Resume",
			"R        - Reseed the world",
			"T        - Cycle themes",
			"?        - Toggle this help",
			"Q        - Quit",
		}, "\n")))
	} else {
		s.WriteString(helpStyle.Render("SP:Pause R:Reset T:Theme ?:Help Q:Quit"))
	}

	statsView := statsStyle.Render(s.String())
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the terminal UI with mouse motion and focus reporting.
func Run(ctx context.Context, cfg config.Config, log *logging.Logger) error {
	p := tea.NewProgram(NewModel(ctx, cfg, log),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
