package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/status"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// Smallest terminal the dashboard will draw into.
const (
	MinWidth  = 72
	MinHeight = 20
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.TextDim).
		Width(width).
		Height(height).
		Render(fmt.Sprintf("StudyBuddy needs at least %dx%d.\nThis terminal is %dx%d.",
			MinWidth, MinHeight, width, height))
}

// APIIndicator is the header's view of the service state. Known is false
// until the first status refresh completes.
type APIIndicator struct {
	State   status.APIState
	Known   bool
	Loading bool
}

func (a APIIndicator) render() string {
	switch {
	case a.Loading && !a.Known:
		return theme.Pending.Render("● checking")
	case !a.Known:
		return theme.Hint.Render("● unknown")
	case a.State == status.Online:
		return theme.Online.Render("● Online")
	}
	return theme.Offline.Render("● Offline")
}

// RenderHeader renders the application header bar: app name, screen title
// and the API state.
func RenderHeader(title string, api APIIndicator, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  StudyBuddy")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := api.render()

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := width - 4 // border + padding
	if innerWidth < 0 {
		innerWidth = 0
	}

	leftGap := (innerWidth-centerLen)/2 - leftLen
	if leftGap < 1 {
		leftGap = 1
	}

	rightGap := innerWidth - leftLen - leftGap - centerLen - rightLen
	if rightGap < 1 {
		rightGap = 1
	}

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderBanner renders the one-line error banner, or "" when msg is empty.
func RenderBanner(msg string, width int) string {
	if msg == "" {
		return ""
	}
	text := "✗ " + msg + "   (x to dismiss)"
	if limit := width - 2; limit > 1 {
		if r := []rune(text); len(r) > limit {
			text = string(r[:limit-1]) + "…"
		}
	}
	return theme.Banner.Width(width).Render(text)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	content := "  " + strings.Join(parts, "   ")

	box := lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)

	return box
}

// RenderFrame composes the full frame: header, optional banner, content and
// footer.
func RenderFrame(header, banner, content, footer string, width, height int) string {
	if banner != "" {
		header += "\n" + banner
	}
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)

	contentHeight := height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}
