package events

import (
	"time"

	"github.com/go-go-golems/inferctl/pkg/engine"
)

type RunStarted struct {
	RunID string    `json:"run_id"`
	Name  string    `json:"name"`
	At    time.Time `json:"at"`
}

type RunText struct {
	RunID string    `json:"run_id"`
	Line  string    `json:"line"`
	At    time.Time `json:"at"`
}

type CommandStarted struct {
	RunID       string    `json:"run_id"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

type RunFinished struct {
	RunID  string                 `json:"run_id"`
	Result engine.ExecutionResult `json:"result"`
	At     time.Time              `json:"at"`
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

type Notification struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}
