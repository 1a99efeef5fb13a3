package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/inferctl/pkg/tui/styles"
)

type Keybind struct {
	Key   string
	Label string
}

// RenderKeybinds renders hints as "[k] label" pairs.
func RenderKeybinds(keybinds []Keybind, theme styles.Theme) string {
	parts := make([]string, 0, len(keybinds)*2)
	for i, kb := range keybinds {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, theme.KeybindKey.Render("["+kb.Key+"]"), theme.Dim.Render(" "+kb.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
