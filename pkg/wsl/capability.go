package wsl

import (
	"context"
	"io"
	"time"
)

// Command is one program invocation. Program and Args are passed verbatim;
// WorkDir is a path inside the distribution. Host commands run on the host
// machine and ignore WorkDir and Elevate.
type Command struct {
	Program string
	Args    []string
	WorkDir string
	Elevate bool
	Host    bool
}

type CapturedOutput struct {
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

func (o CapturedOutput) Success() bool { return o.ExitCode == 0 }

// Capability is the narrow view of the virtualization subsystem the
// orchestration needs.
type Capability interface {
	IsHostCompatible(ctx context.Context) bool
	ListDistributions(ctx context.Context) ([]string, error)
	TranslatePath(ctx context.Context, distribution string, hostPath string) (string, error)
	// Execute blocks until the command exits. Output is copied to out as it
	// arrives and captured in the result. A non-zero exit code is not an
	// error; errors are reserved for failures to launch or observe the process.
	Execute(ctx context.Context, distribution string, cmd Command, out io.Writer) (CapturedOutput, error)
}

// Handle is a distribution confirmed to be installed. Obtain one through
// probe.ResolveDistribution.
type Handle struct {
	name string
	cap  Capability
}

func NewHandle(name string, c Capability) Handle {
	return Handle{name: name, cap: c}
}

func (h Handle) Name() string { return h.name }

func (h Handle) TranslatePath(ctx context.Context, hostPath string) (string, error) {
	p, err := h.cap.TranslatePath(ctx, h.name, hostPath)
	if err != nil {
		return "", &PathTranslationError{Path: hostPath, Err: err}
	}
	if p == "" {
		return "", &PathTranslationError{Path: hostPath}
	}
	return p, nil
}

func (h Handle) Execute(ctx context.Context, cmd Command, out io.Writer) (CapturedOutput, error) {
	return h.cap.Execute(ctx, h.name, cmd, out)
}
