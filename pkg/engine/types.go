package engine

import (
	"context"
	"io"

	"github.com/go-go-golems/inferctl/pkg/wsl"
)

// Executor runs one command inside the target environment. wsl.Handle
// satisfies it.
type Executor interface {
	Execute(ctx context.Context, cmd wsl.Command, out io.Writer) (wsl.CapturedOutput, error)
}

type ExecutionResult struct {
	Succeeded  bool                `json:"succeeded"`
	Cancelled  bool                `json:"cancelled"`
	LastOutput *wsl.CapturedOutput `json:"last_output,omitempty"`
	// Executed counts the steps that were started.
	Executed int `json:"executed"`
}

// Failed returns a result for an operation that was refused before any step
// ran.
func Failed() ExecutionResult {
	return ExecutionResult{}
}

type Options struct {
	DryRun bool
}
