package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/home"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctrl   *dashboard.Controller
	router *router.Router
	width  int
	height int

	// ticking is true while a spinner tick is scheduled. Only ticks
	// carrying the current tickID are honored, so at most one chain runs.
	ticking bool
	tickID  int
}

// tickMsg drives the spinner animation while work is in flight.
type tickMsg struct {
	id int
}

func tick(id int) tea.Cmd {
	return tea.Tick(components.SpinnerInterval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(ctrl *dashboard.Controller) AppModel {
	return AppModel{
		ctrl:   ctrl,
		router: router.New(home.New(ctrl)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), tick(m.tickID))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	msg = actions.Settle(m.ctrl, msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if msg.id != m.tickID {
			return m, nil
		}
		cmd := m.router.Update(components.SpinnerTickMsg(time.Now()))
		if m.ctrl.AnyBusy() {
			m.ticking = true
			return m, tea.Batch(cmd, tick(m.tickID))
		}
		m.ticking = false
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.ctrl.Banner() != "" {
				m.ctrl.ClearBanner()
				return m, nil
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "x":
			if m.ctrl.Banner() != "" && !m.capturesInput() {
				m.ctrl.ClearBanner()
				return m, nil
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, m.keepTicking(cmd)
}

// keepTicking starts the spinner when work may have been started. Status
// refreshes mark themselves busy inside their command, so any command is
// treated as possible work; the tick chain stops once nothing is busy.
func (m *AppModel) keepTicking(cmd tea.Cmd) tea.Cmd {
	if m.ticking || (cmd == nil && !m.ctrl.AnyBusy()) {
		return cmd
	}
	m.ticking = true
	m.tickID++
	return tea.Batch(cmd, tick(m.tickID))
}

func (m AppModel) capturesInput() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturesInput()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	snap, known := m.ctrl.Status()
	header := layout.RenderHeader(title, layout.APIIndicator{
		State:   snap.API,
		Known:   known,
		Loading: m.ctrl.Busy(dashboard.ActionStatus),
	}, m.width)
	banner := layout.RenderBanner(m.ctrl.Banner(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	if len(footerHints) == 0 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	used := lipgloss.Height(header) + lipgloss.Height(footer)
	if banner != "" {
		used += lipgloss.Height(banner)
	}
	contentHeight := m.height - used
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, banner, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program on ctrl's session.
func Run(ctrl *dashboard.Controller) error {
	p := tea.NewProgram(newAppModel(ctrl))
	_, err := p.Run()
	return err
}
