package chat

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/conversation"
	"github.com/abhisek/studybuddy/internal/correlate"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// ChatScreen is the question and answer view. Several questions may be in
// flight at once; each answer lands on its own turn.
type ChatScreen struct {
	ctrl    *dashboard.Controller
	input   components.TextInput
	spinner components.Spinner

	// scroll is how many lines the view is scrolled up from the bottom.
	scroll int

	renderer      *glamour.TermRenderer
	rendererWidth int
	rendered      map[correlate.Token]string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.InputCapturer = (*ChatScreen)(nil)

// New creates a new ChatScreen.
func New(ctrl *dashboard.Controller) *ChatScreen {
	return &ChatScreen{
		ctrl:     ctrl,
		input:    components.NewTextInput("", "Ask about your notes...", false, 500),
		rendered: make(map[correlate.Token]string),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *ChatScreen) Title() string {
	return "Ask"
}

func (s *ChatScreen) CapturesInput() bool {
	return true
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actions.AskSettledMsg:
		return s, nil

	case components.SpinnerTickMsg:
		s.spinner = s.spinner.Advance()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd, err := actions.Ask(s.ctrl, s.input.Value())
			if err != nil {
				// The controller has already set the banner.
				return s, nil
			}
			s.input.Reset()
			s.scroll = 0
			return s, cmd
		case "pgup":
			s.scroll += 5
			return s, nil
		case "pgdown":
			s.scroll -= 5
			if s.scroll < 0 {
				s.scroll = 0
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) View(width, height int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var lines []string
	turns := s.ctrl.Conversation()
	if len(turns) == 0 {
		lines = append(lines, "", theme.Hint.Render("  Ask anything about the documents you've uploaded."))
	}
	for _, t := range turns {
		lines = append(lines, s.renderTurn(t, inner)...)
	}

	inputLine := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(inner).
		Render(s.input.View())
	inputHeight := lipgloss.Height(inputLine)

	avail := height - inputHeight - 1
	if avail < 1 {
		avail = 1
	}
	lines = window(lines, avail, &s.scroll)

	body := lipgloss.NewStyle().Height(avail).Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().Padding(0, 1).Render(body + "\n" + inputLine)
}

func (s *ChatScreen) renderTurn(t conversation.Turn, width int) []string {
	out := []string{
		"",
		theme.Label.Render("You  ") + lipgloss.NewStyle().Foreground(theme.Text).Width(width-5).Render(t.Query),
	}

	switch t.State {
	case conversation.Pending:
		out = append(out, theme.Pending.Render(s.spinner.View()+" Thinking..."))
	case conversation.Failed:
		out = append(out, theme.Incorrect.Render("✗ "+t.FailureReason))
	case conversation.Resolved:
		answer, ok := s.rendered[t.ID]
		if !ok || s.rendererWidth != width {
			answer = s.renderMarkdown(deref(t.Answer), width)
			s.rendered[t.ID] = answer
		}
		out = append(out, strings.Split(strings.TrimRight(answer, "\n"), "\n")...)
		if label := t.Source.Label(); label != "" {
			out = append(out, theme.Hint.Render("  source: "+label))
		}
	}
	return out
}

// renderMarkdown renders an answer with glamour, falling back to plain
// wrapped text.
func (s *ChatScreen) renderMarkdown(md string, width int) string {
	if s.renderer == nil || s.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return lipgloss.NewStyle().Width(width).Render(md)
		}
		s.renderer = r
		s.rendererWidth = width
		s.rendered = make(map[correlate.Token]string)
	}
	out, err := s.renderer.Render(md)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(md)
	}
	return out
}

// window returns the n lines ending scroll lines above the bottom, clamping
// scroll to the available range.
func window(lines []string, n int, scroll *int) []string {
	maxScroll := len(lines) - n
	if maxScroll < 0 {
		maxScroll = 0
	}
	if *scroll > maxScroll {
		*scroll = maxScroll
	}
	end := len(lines) - *scroll
	start := end - n
	if start < 0 {
		start = 0
	}
	return lines[start:end]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
