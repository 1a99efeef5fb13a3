package models

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/inferctl/pkg/engine"
	"github.com/go-go-golems/inferctl/pkg/events"
	"github.com/go-go-golems/inferctl/pkg/tui"
	"github.com/go-go-golems/inferctl/pkg/wsl"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m RunModel, msgs ...tea.Msg) RunModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(RunModel)
		require.True(t, ok)
	}
	return m
}

func TestRunModel_RendersRun(t *testing.T) {
	at := time.Now()
	m := update(t, NewRunModel(""),
		tea.WindowSizeMsg{Width: 100, Height: 30},
		tui.RunStartedMsg{Run: events.RunStarted{RunID: "r", Name: "Analyzing C:/proj", At: at}},
		tui.CommandStartedMsg{Command: events.CommandStarted{Description: "ls /opt/infersharp1.2"}},
		tui.RunTextMsg{Text: events.RunText{Line: "Cilsil"}},
	)
	view := m.View()
	require.Contains(t, view, "Analyzing C:/proj")
	require.Contains(t, view, "Cilsil")
	require.Contains(t, view, "running")
	require.Len(t, m.Lines(), 2)

	m = update(t, m,
		tui.RunFinishedMsg{Run: events.RunFinished{Result: engine.ExecutionResult{Succeeded: true}, At: at.Add(3 * time.Second)}},
		tui.OperationDoneMsg{},
	)
	require.True(t, m.Done())
	view = m.View()
	require.Contains(t, view, "succeeded")
	require.Contains(t, view, "finished: ok")
}

func TestRunModel_NewRunClearsPanelKeepsNotes(t *testing.T) {
	m := update(t, NewRunModel(""),
		tui.RunStartedMsg{Run: events.RunStarted{Name: "Checking"}},
		tui.RunTextMsg{Text: events.RunText{Line: "old"}},
		tui.NotificationMsg{Notification: events.Notification{Text: "WSL is not available"}},
		tui.RunStartedMsg{Run: events.RunStarted{Name: "Installing Infer# in WSL"}},
	)
	require.Empty(t, m.Lines())
	view := m.View()
	require.Contains(t, view, "WSL is not available")
	require.NotContains(t, view, "old")
}

func TestRunModel_FailedStatus(t *testing.T) {
	m := update(t, NewRunModel("x"),
		tui.RunFinishedMsg{Run: events.RunFinished{Result: engine.ExecutionResult{LastOutput: &wsl.CapturedOutput{ExitCode: 1}}}},
	)
	require.Contains(t, m.View(), "failed")

	m = update(t, m, tui.OperationDoneMsg{Err: errors.New("boom")})
	require.Contains(t, m.View(), "boom")
}

func TestRunModel_QuitKey(t *testing.T) {
	m := NewRunModel("x")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
