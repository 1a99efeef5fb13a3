package widgets

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/inferctl/pkg/tui/styles"
)

// Header shows the run title, a status and the elapsed time on one line.
type Header struct {
	Title   string
	Icon    string
	Status  string
	Ok      bool
	Elapsed time.Duration
	Width   int
	theme   styles.Theme
}

func NewHeader(title string) Header {
	return Header{Title: title, theme: styles.DefaultTheme()}
}

func (h Header) WithStatus(icon, status string, ok bool) Header {
	h.Icon, h.Status, h.Ok = icon, status, ok
	return h
}

func (h Header) WithElapsed(d time.Duration) Header {
	h.Elapsed = d
	return h
}

func (h Header) WithWidth(w int) Header {
	h.Width = w
	return h
}

func (h Header) Render() string {
	t := h.theme
	left := t.Title.Render(h.Title)
	if h.Status != "" {
		st := t.Failed
		if h.Ok {
			st = t.Ok
		}
		left = lipgloss.JoinHorizontal(lipgloss.Center, left, "  ", st.Render(h.Icon), " ", h.Status)
	}
	right := ""
	if h.Elapsed > 0 {
		right = t.Dim.Render(FormatElapsed(h.Elapsed))
	}
	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)
}

func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d - m*time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
