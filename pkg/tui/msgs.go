package tui

import "github.com/go-go-golems/inferctl/pkg/events"

type RunStartedMsg struct {
	Run events.RunStarted
}

type RunTextMsg struct {
	Text events.RunText
}

type CommandStartedMsg struct {
	Command events.CommandStarted
}

type RunFinishedMsg struct {
	Run events.RunFinished
}

type NotificationMsg struct {
	Notification events.Notification
}

// OperationDoneMsg is sent once the orchestrator call driving the UI
// returned. Err is nil on success.
type OperationDoneMsg struct {
	Err error
}
