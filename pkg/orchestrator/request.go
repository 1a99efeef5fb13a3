package orchestrator

import (
	"context"
	"io"

	"github.com/go-go-golems/inferctl/pkg/engine"
	"github.com/go-go-golems/inferctl/pkg/wsl"
)

// Request carries the state of one check, install or analyze call. The
// distribution handle is resolved on first use and never outlives the
// request.
type Request struct {
	o      *Orchestrator
	handle *wsl.Handle
}

var _ engine.Executor = (*Request)(nil)

func (o *Orchestrator) newRequest() *Request {
	return &Request{o: o}
}

func (r *Request) Handle(ctx context.Context) (wsl.Handle, error) {
	if r.handle != nil {
		return *r.handle, nil
	}
	h, err := r.o.Probe.ResolveDistribution(ctx, r.o.Settings.Distribution)
	if err != nil {
		return wsl.Handle{}, err
	}
	r.handle = &h
	return h, nil
}

// Execute runs host commands directly and everything else inside the
// request's distribution. The distribution is looked up lazily so an install
// pipeline can create it in an earlier step.
func (r *Request) Execute(ctx context.Context, cmd wsl.Command, out io.Writer) (wsl.CapturedOutput, error) {
	if cmd.Host {
		return r.o.Cap.Execute(ctx, "", cmd, out)
	}
	h, err := r.Handle(ctx)
	if err != nil {
		return wsl.CapturedOutput{}, err
	}
	return h.Execute(ctx, cmd, out)
}
