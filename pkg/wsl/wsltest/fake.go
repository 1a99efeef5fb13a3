// Package wsltest provides an in-memory wsl.Capability for tests.
package wsltest

import (
	"context"
	"io"
	"sync"

	"github.com/go-go-golems/inferctl/pkg/wsl"
	"github.com/pkg/errors"
)

type Call struct {
	Distribution string
	Command      wsl.Command
}

// Fake records every Execute call. Respond decides the result; by default
// every command succeeds with empty output.
type Fake struct {
	Compatible    bool
	Distributions []string
	ListErr       error
	Paths         map[string]string

	Respond func(call Call) wsl.CapturedOutput
	// BeforeExecute runs before Respond; tests use it to cancel mid-pipeline.
	BeforeExecute func(call Call)

	mu        sync.Mutex
	calls     []Call
	listCalls int
}

var _ wsl.Capability = (*Fake)(nil)

func (f *Fake) IsHostCompatible(ctx context.Context) bool { return f.Compatible }

func (f *Fake) ListDistributions(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]string{}, f.Distributions...), nil
}

func (f *Fake) TranslatePath(ctx context.Context, distribution string, hostPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "wslpath")
	}
	p, ok := f.Paths[hostPath]
	if !ok {
		return "", errors.Errorf("no mapping for %s", hostPath)
	}
	return p, nil
}

func (f *Fake) Execute(ctx context.Context, distribution string, cmd wsl.Command, out io.Writer) (wsl.CapturedOutput, error) {
	call := Call{Distribution: distribution, Command: cmd}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.BeforeExecute != nil {
		f.BeforeExecute(call)
	}
	res := wsl.CapturedOutput{}
	if f.Respond != nil {
		res = f.Respond(call)
	}
	if out != nil {
		if res.Stdout != "" {
			_, _ = io.WriteString(out, res.Stdout)
		}
		if res.Stderr != "" {
			_, _ = io.WriteString(out, res.Stderr)
		}
	}
	return res, nil
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call{}, f.calls...)
}

func (f *Fake) Programs() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Command.Program)
	}
	return out
}

func (f *Fake) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// FailOn returns a Respond func that fails the first command whose program
// equals program with exitCode.
func FailOn(program string, exitCode int) func(Call) wsl.CapturedOutput {
	return func(c Call) wsl.CapturedOutput {
		if c.Command.Program == program {
			return wsl.CapturedOutput{ExitCode: exitCode, Stderr: program + " failed\n"}
		}
		return wsl.CapturedOutput{Stdout: program + " ok\n"}
	}
}
