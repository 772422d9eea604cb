package home

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/status"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const titleFull = `┏━┓╺┳╸╻ ╻╺┳┓╻ ╻┏┓ ╻ ╻╺┳┓╺┳┓╻ ╻
┗━┓ ┃ ┃ ┃ ┃┃┗┳┛┣┻┓┃ ┃ ┃┃ ┃┃┗┳┛
┗━┛ ╹ ┗━┛╺┻┛ ╹ ┗━┛┗━┛╺┻┛╺┻┛ ╹ `

const titleCompact = "S T U D Y B U D D Y"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6 // frame border + padding
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

// statusView is what the status card shows.
type statusView struct {
	snapshot   status.Snapshot
	known      bool
	refreshing bool
	age        time.Duration
	spinner    string
}

func renderStatusCard(v statusView, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var lines []string
	switch {
	case !v.known:
		lines = append(lines, theme.Pending.Render(v.spinner+" Checking the study service..."))
	case v.snapshot.API == status.Online:
		lines = append(lines,
			theme.Label.Render("Service   ")+theme.Online.Render("● Online"),
			theme.Label.Render("Library   ")+theme.Body.Render(docCount(v.snapshot.PermanentDocCount)),
			theme.Label.Render("Temporary ")+theme.Body.Render(tempStoreText(v.snapshot.TempStore)),
		)
	default:
		lines = append(lines,
			theme.Label.Render("Service   ")+theme.Offline.Render("● Offline"),
			dim.Render("Start the study service, then press r."),
		)
	}

	if v.known {
		footer := "updated " + ago(v.age)
		if v.refreshing {
			footer = v.spinner + " refreshing"
		}
		lines = append(lines, "", dim.Render(footer))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func docCount(n int) string {
	if n == 1 {
		return "1 document"
	}
	return fmt.Sprintf("%d documents", n)
}

func tempStoreText(t status.TempStore) string {
	if !t.Active {
		return "empty"
	}
	name := "unnamed document"
	if t.DocumentName != nil {
		name = *t.DocumentName
	}
	return fmt.Sprintf("%s · %d chunks", name, t.ChunkCount)
}

func ago(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// renderFrame wraps content in a double-border frame, centered within the
// given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
