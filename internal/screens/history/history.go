package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const historyLimit = 200

// HistoryScreen lists this session's journaled actions, newest first.
type HistoryScreen struct {
	ctrl     *dashboard.Controller
	events   []journal.RequestEventRecord
	selected int
	expanded map[int64]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(ctrl *dashboard.Controller) *HistoryScreen {
	return &HistoryScreen{
		ctrl:     ctrl,
		expanded: make(map[int64]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return actions.LoadHistory(s.ctrl, historyLimit)
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actions.HistoryMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.events = msg.Events
			if s.selected >= len(s.events) {
				s.selected = 0
			}
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.events) {
				seq := s.events[s.selected].Sequence
				s.expanded[seq] = !s.expanded[seq]
			}
			return s, nil
		case "r":
			return s, actions.LoadHistory(s.ctrl, historyLimit)
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing yet. Ask a question or take a quiz!")
	}

	var lines []string
	for i, ev := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		mark := theme.Correct.Render("✓")
		if !ev.Success {
			mark = theme.Incorrect.Render("✗")
		}

		text := ev.Summary
		if !ev.Success {
			text = ev.ErrorMessage
		}
		if !ev.Applied && ev.Success {
			text += " (discarded)"
		}

		line := fmt.Sprintf("%s%s  %-10s %6dms  %s",
			prefix, ev.Timestamp.Format("15:04:05"), ev.Action, ev.LatencyMs, text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		lines = append(lines, mark+" "+style.MaxWidth(width-4).Render(line))

		if s.expanded[ev.Sequence] {
			lines = append(lines, detailLines(ev)...)
		}
	}

	// Keep the selection visible.
	start := 0
	if avail := height - 2; avail > 0 && s.selected >= avail {
		start = s.selected - avail + 1
	}
	if start > len(lines) {
		start = len(lines)
	}
	return "\n" + strings.Join(lines[start:], "\n")
}

func detailLines(ev journal.RequestEventRecord) []string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var out []string
	add := func(k, v string) {
		if v != "" {
			out = append(out, dim.Render(fmt.Sprintf("      %-8s %s", k, v)))
		}
	}
	add("token", ev.Token)
	add("shape", ev.Shape)
	add("applied", fmt.Sprintf("%v", ev.Applied))
	add("error", ev.ErrorMessage)
	add("seq", fmt.Sprintf("%d", ev.Sequence))
	return out
}
