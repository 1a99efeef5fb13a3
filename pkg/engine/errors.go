package engine

import (
	"fmt"
	"strings"

	"github.com/go-go-golems/inferctl/pkg/wsl"
	"github.com/pkg/errors"
)

var ErrCancelled = errors.New("cancelled")

type CommandFailedError struct {
	ExitCode int
	Output   wsl.CapturedOutput
}

func (e *CommandFailedError) Error() string {
	tail := TailLines(e.Output.Stderr, 5)
	if len(tail) == 0 {
		tail = TailLines(e.Output.Stdout, 5)
	}
	if len(tail) == 0 {
		return fmt.Sprintf("command failed: exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("command failed: exit code %d: %s", e.ExitCode, strings.Join(tail, " | "))
}

// Err maps the result onto the error taxonomy. A successful result yields nil.
func (r ExecutionResult) Err() error {
	if r.Succeeded {
		return nil
	}
	if r.Cancelled {
		return ErrCancelled
	}
	if r.LastOutput == nil {
		return errors.New("operation refused")
	}
	return &CommandFailedError{ExitCode: r.LastOutput.ExitCode, Output: *r.LastOutput}
}

// TailLines returns the last n non-empty lines of s.
func TailLines(s string, n int) []string {
	if n <= 0 {
		n = 20
	}
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
