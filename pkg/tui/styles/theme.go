package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds the palette and the few styles the run panel needs.
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color

	Border     lipgloss.Style
	Title      lipgloss.Style
	Dim        lipgloss.Style
	Command    lipgloss.Style
	KeybindKey lipgloss.Style
	Ok         lipgloss.Style
	Failed     lipgloss.Style
	Warn       lipgloss.Style
}

func DefaultTheme() Theme {
	primary := lipgloss.Color("#7C3AED")
	accent := lipgloss.Color("#06B6D4")
	success := lipgloss.Color("#22C55E")
	warning := lipgloss.Color("#EAB308")
	errorC := lipgloss.Color("#EF4444")
	muted := lipgloss.Color("#6B7280")
	text := lipgloss.Color("#F9FAFB")

	return Theme{
		Primary: primary,
		Accent:  accent,
		Success: success,
		Warning: warning,
		Error:   errorC,
		Muted:   muted,
		Text:    text,

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(primary).
			Padding(0, 1),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Command:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		KeybindKey: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Ok:         lipgloss.NewStyle().Foreground(success),
		Failed:     lipgloss.NewStyle().Foreground(errorC),
		Warn:       lipgloss.NewStyle().Foreground(warning),
	}
}
