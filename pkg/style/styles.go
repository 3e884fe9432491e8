package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)

	TargetStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	AddedStyle = lipgloss.NewStyle().
			Foreground(AddedColor)

	RemovedStyle = lipgloss.NewStyle().
			Foreground(RemovedColor)
)

// Indicators prefix status lines.
func SuccessIndicator() string { return SuccessStyle.Render("✓") }
func ErrorIndicator() string   { return ErrorStyle.Render("✗") }
func WarningIndicator() string { return WarningStyle.Render("!") }
func PendingIndicator() string { return MutedStyle.Render("○") }

// Bold renders s in bold.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}

// Diff colors the added and removed lines of a unified diff. Header lines
// are muted.
func Diff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"), strings.HasPrefix(body, "@@"):
			b.WriteString(MutedStyle.Render(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(AddedStyle.Render(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(RemovedStyle.Render(body))
		default:
			b.WriteString(body)
		}
		b.WriteString(nl)
	}
	return b.String()
}
