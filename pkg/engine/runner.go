package engine

import (
	"context"
	"time"

	"github.com/go-go-golems/inferctl/pkg/pipeline"
	"github.com/go-go-golems/inferctl/pkg/telemetry"
	"github.com/go-go-golems/inferctl/pkg/wsl"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/go-go-golems/inferctl/pkg/engine"

// Runner executes pipelines one step at a time on the calling goroutine.
type Runner struct {
	Opts    Options
	Metrics *telemetry.Metrics
}

func NewRunner(opts Options, m *telemetry.Metrics) *Runner {
	return &Runner{Opts: opts, Metrics: m}
}

// Run stops at the first command with a non-zero exit code. Cancellation is
// checked before every step; a step already running is interrupted through
// ctx by the executor. obs.OnFinished is called exactly once.
func (r *Runner) Run(ctx context.Context, p pipeline.Pipeline, exec Executor, obs Observer) (res ExecutionResult) {
	if obs == nil {
		obs = NopObserver{}
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("pipeline.name", p.Name()),
		attribute.Int("pipeline.steps", p.Len()),
		attribute.Bool("pipeline.dry_run", r.Opts.DryRun),
	))
	logger := log.With().Str("pipeline", p.Name()).Logger()

	defer func() {
		outcome := outcomeOf(res)
		span.SetAttributes(
			attribute.String("pipeline.outcome", outcome),
			attribute.Int("pipeline.executed", res.Executed),
		)
		if !res.Succeeded {
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		r.Metrics.ObserveRun(p.Name(), outcome)
		logger.Debug().Str("outcome", outcome).Int("executed", res.Executed).Msg("pipeline finished")
		obs.OnFinished(res)
	}()

	for i, s := range p.Steps() {
		if ctx.Err() != nil {
			res.Cancelled = true
			return res
		}
		switch st := s.(type) {
		case pipeline.DisplayStep:
			obs.OnText(st.Text)
		case pipeline.CommandStep:
			if r.Opts.DryRun {
				if st.Label != "" {
					obs.OnText(st.Label)
				}
				obs.OnCommandStarted(st.CommandLine())
				continue
			}
			out := r.runCommand(ctx, i, st, exec, obs)
			res.Executed++
			res.LastOutput = &out
			if !out.Success() {
				if ctx.Err() != nil {
					res.Cancelled = true
				}
				logger.Debug().Int("step", i).Str("program", st.Program).Int("exit_code", out.ExitCode).Msg("step failed")
				return res
			}
		}
	}
	res.Succeeded = true
	return res
}

func (r *Runner) runCommand(ctx context.Context, index int, st pipeline.CommandStep, exec Executor, obs Observer) wsl.CapturedOutput {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.step", trace.WithAttributes(
		attribute.Int("step.index", index),
		attribute.String("step.program", st.Program),
		attribute.Bool("step.host", st.Host),
	))
	defer span.End()

	if st.Label != "" {
		obs.OnText(st.Label)
	}
	line := st.CommandLine()
	obs.OnCommandStarted(line)
	log.Trace().Str("command", line).Str("work_dir", st.WorkDir).Msg("infer# command")

	w := newLineWriter(obs)
	start := time.Now()
	out, err := exec.Execute(ctx, wsl.Command{
		Program: st.Program,
		Args:    st.Args,
		WorkDir: st.WorkDir,
		Elevate: st.Elevate,
		Host:    st.Host,
	}, w)
	w.Flush()
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Str("program", st.Program).Msg("could not run command")
		out = wsl.CapturedOutput{
			ExitCode: -1,
			Stdout:   out.Stdout,
			Stderr:   err.Error(),
			Duration: time.Since(start),
		}
	}
	if out.Duration == 0 {
		out.Duration = time.Since(start)
	}
	span.SetAttributes(attribute.Int("step.exit_code", out.ExitCode))
	if !out.Success() {
		span.SetStatus(codes.Error, "non-zero exit code")
	}
	r.Metrics.ObserveStep(st.Program, out.ExitCode, out.Duration)
	return out
}

func outcomeOf(res ExecutionResult) string {
	switch {
	case res.Succeeded:
		return "succeeded"
	case res.Cancelled:
		return "cancelled"
	default:
		return "failed"
	}
}
