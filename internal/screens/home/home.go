package home

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/chat"
	"github.com/abhisek/studybuddy/internal/screens/history"
	"github.com/abhisek/studybuddy/internal/screens/quiz"
	"github.com/abhisek/studybuddy/internal/screens/upload"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// HomeScreen shows the service status and the main menu.
type HomeScreen struct {
	ctrl    *dashboard.Controller
	menu    components.Menu
	spinner components.Spinner
	now     func() time.Time
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(ctrl *dashboard.Controller) *HomeScreen {
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}

	items := []components.MenuItem{
		{Label: "Ask a question", Key: "a", Action: push(func() screen.Screen { return chat.New(ctrl) })},
		{Label: "Take a quiz", Key: "q", Action: push(func() screen.Screen { return quiz.New(ctrl) })},
		{Label: "Upload notes", Key: "u", Action: push(func() screen.Screen { return upload.New(ctrl) })},
		{Label: "History", Key: "h", Action: push(func() screen.Screen { return history.New(ctrl) })},
		{Label: "Refresh status", Key: "r", Action: func() tea.Cmd { return actions.RefreshStatus(ctrl) }},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		ctrl: ctrl,
		menu: components.NewMenu(items),
		now:  time.Now,
	}
}

// Init loads the status once. It is refreshed again only on request or
// after an upload or clear.
func (h *HomeScreen) Init() tea.Cmd {
	return actions.RefreshStatus(h.ctrl)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		h.spinner = h.spinner.Advance()
		return h, nil
	case actions.StatusMsg:
		return h, nil
	case tea.KeyMsg:
		if msg.String() == "r" && h.ctrl.Busy(dashboard.ActionStatus) {
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 24 || width < 100
	cw := contentWidth(width)

	snap, known := h.ctrl.Status()
	card := renderStatusCard(statusView{
		snapshot:   snap,
		known:      known,
		refreshing: h.ctrl.Busy(dashboard.ActionStatus),
		age:        h.now().Sub(h.ctrl.StatusAge()),
		spinner:    h.spinner.View(),
	}, cw)

	menu := lipgloss.NewStyle().Width(cw).Render(h.menu.View())

	sections := []string{renderTitle(cw, compact), card, menu}
	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
