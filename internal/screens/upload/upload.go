package upload

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/normalize"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// UploadScreen indexes a local file and manages the temporary store.
type UploadScreen struct {
	ctrl    *dashboard.Controller
	path    components.TextInput
	mode    components.Toggle
	spinner components.Spinner

	// result is the last outcome line; ok marks it as a success.
	result string
	ok     bool
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)
var _ screen.InputCapturer = (*UploadScreen)(nil)

// New creates a new UploadScreen.
func New(ctrl *dashboard.Controller) *UploadScreen {
	return &UploadScreen{
		ctrl: ctrl,
		path: components.NewTextInput("File", "path/to/notes.pdf", false, 0),
		mode: components.NewToggle("Temporary", "Permanent"),
	}
}

func (s *UploadScreen) Init() tea.Cmd {
	return s.path.Focus()
}

func (s *UploadScreen) Title() string {
	return "Upload"
}

func (s *UploadScreen) CapturesInput() bool {
	return s.path.Focused()
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	if s.path.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Upload"},
			{Key: "Tab", Description: "Options"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Temporary/Permanent"},
		{Key: "c", Description: "Clear temporary store"},
		{Key: "Tab", Description: "File"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UploadScreen) permanent() bool {
	return s.mode.Selected == 1
}

func (s *UploadScreen) busy() bool {
	return s.ctrl.Busy(dashboard.ActionUpload) || s.ctrl.Busy(dashboard.ActionClearTemp)
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actions.UploadDoneMsg:
		if msg.Err != nil {
			s.result, s.ok = dashboard.UserMessage(msg.Err), false
			return s, nil
		}
		s.result, s.ok = uploadLine(msg.Result), true
		s.path.Reset()
		return s, nil

	case actions.ClearDoneMsg:
		if msg.Err != nil {
			s.result, s.ok = dashboard.UserMessage(msg.Err), false
			return s, nil
		}
		s.result, s.ok = msg.Message, true
		return s, nil

	case components.SpinnerTickMsg:
		s.spinner = s.spinner.Advance()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			if s.path.Focused() {
				s.path.Blur()
				return s, nil
			}
			return s, s.path.Focus()
		case "enter":
			if s.busy() {
				return s, nil
			}
			s.result = ""
			return s, actions.Upload(s.ctrl, s.path.Value(), s.permanent())
		}
		if !s.path.Focused() {
			switch msg.String() {
			case "space", "left", "right", "p":
				s.mode = s.mode.Next()
			case "c":
				if !s.busy() {
					s.result = ""
					return s, actions.ClearTemp(s.ctrl)
				}
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.path, cmd = s.path.Update(msg)
	return s, cmd
}

func uploadLine(r normalize.UploadResult) string {
	where := "permanently"
	if r.Temporary {
		where = "temporarily"
	}
	line := fmt.Sprintf("%s indexed %s", r.Filename, where)
	switch {
	case r.ChunksIndexed > 0:
		line += fmt.Sprintf(" (%d chunks)", r.ChunksIndexed)
	case r.DocumentsIndexed > 0:
		line += fmt.Sprintf(" (%d documents)", r.DocumentsIndexed)
	}
	return line
}

func (s *UploadScreen) View(width, height int) string {
	inner := width - 6
	if inner > 80 {
		inner = 80
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(inner).Render("Upload notes"))
	b.WriteString("\n\n")
	b.WriteString(s.path.View())
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if !s.path.Focused() {
		label = theme.Label
	}
	b.WriteString(label.Render("Store: ") + s.mode.View())
	b.WriteString("\n")
	if s.permanent() {
		b.WriteString(theme.Hint.Render("  Added to the main library for every session."))
	} else {
		b.WriteString(theme.Hint.Render("  Replaces the temporary document; answers will prefer it."))
	}
	b.WriteString("\n\n")

	b.WriteString(s.renderTempStore())
	b.WriteString("\n\n")

	switch {
	case s.ctrl.Busy(dashboard.ActionUpload):
		b.WriteString(theme.Pending.Render(s.spinner.View() + " Uploading and indexing..."))
	case s.ctrl.Busy(dashboard.ActionClearTemp):
		b.WriteString(theme.Pending.Render(s.spinner.View() + " Clearing temporary store..."))
	case s.result != "" && s.ok:
		b.WriteString(theme.Correct.Render("✓ " + s.result))
	case s.result != "":
		b.WriteString(theme.Incorrect.Render("✗ " + s.result))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 3).Render(b.String())
}

func (s *UploadScreen) renderTempStore() string {
	snap, known := s.ctrl.Status()
	text := "unknown"
	if known {
		text = "empty"
		if t := snap.TempStore; t.Active {
			name := "unnamed document"
			if t.DocumentName != nil {
				name = *t.DocumentName
			}
			text = fmt.Sprintf("%s · %d chunks", name, t.ChunkCount)
		}
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render("Temporary store: ") + theme.Body.Render(text)
}
