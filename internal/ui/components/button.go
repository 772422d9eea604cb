package components

import (
	"strings"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// Toggle is a small segmented selector, e.g. topic/mock or
// temporary/permanent.
type Toggle struct {
	Options  []string
	Selected int
}

// NewToggle creates a toggle with the first option selected.
func NewToggle(options ...string) Toggle {
	return Toggle{Options: options}
}

// Next advances to the next option, wrapping around.
func (t Toggle) Next() Toggle {
	if len(t.Options) > 0 {
		t.Selected = (t.Selected + 1) % len(t.Options)
	}
	return t
}

// Value returns the selected option.
func (t Toggle) Value() string {
	if t.Selected < 0 || t.Selected >= len(t.Options) {
		return ""
	}
	return t.Options[t.Selected]
}

// View renders the toggle.
func (t Toggle) View() string {
	parts := make([]string, len(t.Options))
	for i, o := range t.Options {
		if i == t.Selected {
			parts[i] = theme.ToggleOn.Render(o)
		} else {
			parts[i] = theme.ToggleOff.Render(o)
		}
	}
	return strings.Join(parts, " ")
}
