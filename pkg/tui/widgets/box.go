package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/inferctl/pkg/tui/styles"
)

// Box is a rounded border with a title line above its content.
type Box struct {
	Title      string
	TitleRight string
	Content    string
	Width      int
	Height     int
	theme      styles.Theme
}

func NewBox(title string) Box {
	return Box{Title: title, theme: styles.DefaultTheme()}
}

func (b Box) WithContent(content string) Box {
	b.Content = content
	return b
}

func (b Box) WithTitleRight(text string) Box {
	b.TitleRight = text
	return b
}

func (b Box) WithSize(width, height int) Box {
	b.Width, b.Height = width, height
	return b
}

func (b Box) Render() string {
	inner := b.Width - 2
	if inner < 0 {
		inner = 0
	}

	left := lipgloss.NewStyle().Bold(true).Render(b.Title)
	right := b.theme.Dim.Render(b.TitleRight)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)

	style := b.theme.Border
	if b.Width > 0 {
		style = style.Width(inner)
	}
	if b.Height > 0 {
		h := b.Height - 3
		if h < 0 {
			h = 0
		}
		style = style.Height(h + 1)
	}
	return style.Render(header + "\n" + b.Content)
}
