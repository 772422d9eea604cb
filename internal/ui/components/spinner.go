package components

import (
	"time"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerInterval is the time between frames.
const SpinnerInterval = 100 * time.Millisecond

// SpinnerTickMsg advances a Spinner by one frame.
type SpinnerTickMsg time.Time

// Spinner is a frame counter driven by SpinnerTickMsg. Ticks are scheduled
// by the app, not by the screens that show a spinner.
type Spinner struct {
	frame int
}

// Advance moves to the next frame.
func (s Spinner) Advance() Spinner {
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s
}

// View renders the current frame.
func (s Spinner) View() string {
	return theme.Pending.Render(spinnerFrames[s.frame])
}
