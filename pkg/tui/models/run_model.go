package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/inferctl/pkg/engine"
	"github.com/go-go-golems/inferctl/pkg/events"
	"github.com/go-go-golems/inferctl/pkg/tui"
	"github.com/go-go-golems/inferctl/pkg/tui/styles"
	"github.com/go-go-golems/inferctl/pkg/tui/widgets"
)

const maxLines = 5000

// RunModel is the output panel for one request. Every named run replaces
// the panel contents; warnings stay visible across runs.
type RunModel struct {
	title   string
	started time.Time
	now     time.Time

	current  string
	lines    []string
	notes    []string
	result   *engine.ExecutionResult
	done     bool
	opErr    error
	follow   bool
	quitting bool

	width  int
	height int

	spin spinner.Model
	vp   viewport.Model
}

func NewRunModel(title string) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.DefaultTheme().Command
	m := RunModel{
		title:  title,
		follow: true,
		spin:   s,
		vp:     viewport.New(80, 20),
		width:  80,
		height: 24,
	}
	return m.resize()
}

func (m RunModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m RunModel) Done() bool { return m.done }

func (m RunModel) Lines() []string { return append([]string{}, m.lines...) }

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		if m.width <= 0 {
			m.width = 80
		}
		if m.height <= 0 {
			m.height = 24
		}
		return m.resize(), nil
	case tea.KeyMsg:
		switch v.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "f":
			m.follow = !m.follow
			if m.follow {
				m.vp.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(v)
		return m, cmd
	case spinner.TickMsg:
		m.now = time.Now()
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(v)
		return m, cmd
	case tui.RunStartedMsg:
		m.title = v.Run.Name
		m.started = v.Run.At
		m.now = v.Run.At
		m.current = ""
		m.lines = nil
		m.result = nil
		return m.refresh(), nil
	case tui.CommandStartedMsg:
		m.current = v.Command.Description
		m = m.appendLine(styles.DefaultTheme().Command.Render(styles.IconPrompt + " " + v.Command.Description))
		return m, nil
	case tui.RunTextMsg:
		return m.appendLine(v.Text.Line), nil
	case tui.RunFinishedMsg:
		res := v.Run.Result
		m.result = &res
		m.current = ""
		m.now = v.Run.At
		return m.appendLine(events.FinishedText(res)), nil
	case tui.NotificationMsg:
		m.notes = append(m.notes, v.Notification.Text)
		return m.resize(), nil
	case tui.OperationDoneMsg:
		m.done = true
		m.opErr = v.Err
		m.current = ""
		return m, nil
	}
	return m, nil
}

func (m RunModel) appendLine(line string) RunModel {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLines {
		m.lines = append([]string{}, m.lines[len(m.lines)-maxLines:]...)
	}
	return m.refresh()
}

func (m RunModel) resize() RunModel {
	// header, notes, box border and title, current command, footer
	used := 1 + len(m.visibleNotes()) + 3 + 1 + 1
	h := m.height - used
	if h < 3 {
		h = 3
	}
	m.vp.Width = m.width - 2
	if m.vp.Width < 0 {
		m.vp.Width = 0
	}
	m.vp.Height = h
	return m.refresh()
}

func (m RunModel) refresh() RunModel {
	m.vp.SetContent(strings.Join(m.lines, "\n"))
	if m.follow {
		m.vp.GotoBottom()
	}
	return m
}

func (m RunModel) visibleNotes() []string {
	if len(m.notes) > 3 {
		return m.notes[len(m.notes)-3:]
	}
	return m.notes
}

func (m RunModel) status() (string, string, bool) {
	switch {
	case m.opErr != nil:
		return styles.IconError, m.opErr.Error(), false
	case m.result != nil && m.result.Succeeded:
		return styles.IconSuccess, "succeeded", true
	case m.result != nil && m.result.Cancelled:
		return styles.IconWarning, "cancelled", false
	case m.result != nil:
		return styles.IconError, "failed", false
	case m.done:
		return styles.IconSuccess, "done", true
	default:
		return styles.IconRunning, "running", true
	}
}

func (m RunModel) View() string {
	if m.quitting {
		return ""
	}
	theme := styles.DefaultTheme()

	icon, status, ok := m.status()
	var elapsed time.Duration
	if !m.started.IsZero() && m.now.After(m.started) {
		elapsed = m.now.Sub(m.started)
	}
	title := m.title
	if title == "" {
		title = "inferctl"
	}
	sections := []string{
		widgets.NewHeader(title).WithStatus(icon, status, ok).WithElapsed(elapsed).WithWidth(m.width).Render(),
	}
	for _, n := range m.visibleNotes() {
		sections = append(sections, theme.Warn.Render(styles.IconWarning+" "+n))
	}

	follow := "off"
	if m.follow {
		follow = "on"
	}
	sections = append(sections, widgets.NewBox(fmt.Sprintf("Output (%d)", len(m.lines))).
		WithTitleRight("follow "+follow).
		WithContent(m.vp.View()).
		WithSize(m.width, m.vp.Height+3).
		Render())

	current := theme.Dim.Render(styles.IconPending + " idle")
	if m.current != "" && !m.done {
		current = m.spin.View() + " " + theme.Command.Render(m.current)
	}
	sections = append(sections, current)

	sections = append(sections, widgets.RenderKeybinds([]widgets.Keybind{
		{Key: "q", Label: "quit"},
		{Key: "f", Label: "follow"},
		{Key: "↑/↓", Label: "scroll"},
	}, theme))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
