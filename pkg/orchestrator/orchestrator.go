package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-go-golems/inferctl/pkg/config"
	"github.com/go-go-golems/inferctl/pkg/engine"
	"github.com/go-go-golems/inferctl/pkg/lock"
	"github.com/go-go-golems/inferctl/pkg/pipeline"
	"github.com/go-go-golems/inferctl/pkg/probe"
	"github.com/go-go-golems/inferctl/pkg/wsl"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ObserverFactory returns the observer for a named run. Silent runs never
// reach the factory.
type ObserverFactory func(name string) engine.Observer

type Orchestrator struct {
	Settings  config.Settings
	Cap       wsl.Capability
	Probe     *probe.Probe
	Runner    *engine.Runner
	Observers ObserverFactory
	Notifier  Notifier

	FindExe    func() (string, error)
	NewScratch func() string
	// LockDir holds the per-distribution lock files. Empty means os.TempDir.
	LockDir string
	// ReportExists reports whether an analysis left a readable report.
	ReportExists func(path string) bool
}

func New(s config.Settings, c wsl.Capability, runner *engine.Runner) *Orchestrator {
	if runner == nil {
		runner = engine.NewRunner(engine.Options{}, nil)
	}
	return &Orchestrator{
		Settings:   s,
		Cap:        c,
		Probe:      probe.New(c),
		Runner:     runner,
		Notifier:   LogNotifier{},
		FindExe:    wsl.FindExe,
		NewScratch: pipeline.NewScratchDir,
		ReportExists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

func (o *Orchestrator) warn(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if o.Notifier == nil {
		LogNotifier{}.Warn(text)
		return
	}
	o.Notifier.Warn(text)
}

func (o *Orchestrator) observer(p pipeline.Pipeline) engine.Observer {
	if p.Silent() || o.Observers == nil {
		return engine.NopObserver{}
	}
	return o.Observers(p.Name())
}

func (o *Orchestrator) run(ctx context.Context, req *Request, p pipeline.Pipeline) engine.ExecutionResult {
	return o.Runner.Run(ctx, p, req, o.observer(p))
}

func (o *Orchestrator) acquire() (*lock.Lock, bool) {
	l, err := lock.Acquire(lock.PathFor(o.LockDir, o.Settings.Distribution))
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			o.warn("Infer#: another inferctl operation is running for '%s'.", o.Settings.Distribution)
		} else {
			o.warn("Infer#: could not take the operation lock: %v", err)
		}
		return nil, false
	}
	return l, true
}

func release(l *lock.Lock) {
	if err := l.Release(); err != nil {
		log.Warn().Err(err).Str("path", l.Path()).Msg("could not release lock")
	}
}

// Check is true iff the host supports the subsystem, the distribution is
// installed and the install folder exists inside it.
func (o *Orchestrator) Check(ctx context.Context, showUI bool) bool {
	ok, _ := o.check(ctx, o.newRequest(), showUI)
	return ok
}

// check also reports whether a warning was already shown for a failure.
func (o *Orchestrator) check(ctx context.Context, req *Request, showUI bool) (bool, bool) {
	if !o.Probe.IsHostCompatible(ctx) {
		o.warn("Infer#: System has no support for WSL.")
		return false, true
	}
	ok, err := o.Probe.HasDistribution(ctx, o.Settings.Distribution)
	if err != nil {
		log.Debug().Err(err).Msg("listing distributions failed")
	}
	if !ok {
		o.warn("Infer#: WSL distribution '%s' is not available.", o.Settings.Distribution)
		return false, true
	}

	name := ""
	if showUI {
		name = pipeline.NameCheck
	}
	res := o.run(ctx, req, pipeline.BuildCheck(name, o.Settings.InstallFolder, o.Settings.WorkDirectory))
	return res.Succeeded, false
}

// Install installs the distribution when missing and (re)installs the
// analyzer. It is safe to repeat after a failure.
func (o *Orchestrator) Install(ctx context.Context) engine.ExecutionResult {
	if !o.Probe.IsHostCompatible(ctx) {
		o.warn("Infer#: System has no support for WSL.")
		return engine.Failed()
	}
	exe, err := o.FindExe()
	if err != nil {
		o.warn("Infer#: Unable to find wsl.exe!")
		return engine.Failed()
	}
	present, err := o.Probe.HasDistribution(ctx, o.Settings.Distribution)
	if err != nil {
		if ctx.Err() != nil {
			return engine.ExecutionResult{Cancelled: true}
		}
		o.warn("Infer#: could not list WSL distributions: %v", err)
		return engine.Failed()
	}

	l, ok := o.acquire()
	if !ok {
		return engine.Failed()
	}
	defer release(l)

	p := pipeline.BuildInstall(pipeline.InstallParams{
		DistributionPresent: present,
		WslExe:              exe,
		Distribution:        o.Settings.Distribution,
		DownloadURL:         o.Settings.DownloadURL,
		InstallFolder:       o.Settings.InstallFolder,
		WorkDir:             o.Settings.WorkDirectory,
	})
	return o.run(ctx, o.newRequest(), p)
}

// Analyze runs the analyzer on hostFolder. Nothing referencing hostFolder is
// executed unless a silent check passes first.
func (o *Orchestrator) Analyze(ctx context.Context, hostFolder string) engine.ExecutionResult {
	req := o.newRequest()
	if ok, warned := o.check(ctx, req, false); !ok {
		if ctx.Err() != nil {
			return engine.ExecutionResult{Cancelled: true}
		}
		if !warned {
			o.warn("Infer#: not installed in '%s' (%s missing). Run install first.", o.Settings.Distribution, o.Settings.InstallFolder)
		}
		return engine.Failed()
	}

	h, err := req.Handle(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return engine.ExecutionResult{Cancelled: true}
		}
		o.warn("Infer#: %v", err)
		return engine.Failed()
	}
	target, err := h.TranslatePath(ctx, hostFolder)
	if err != nil {
		if ctx.Err() != nil {
			return engine.ExecutionResult{Cancelled: true}
		}
		var pe *wsl.PathTranslationError
		if errors.As(err, &pe) {
			o.warn("Could not find WSL directory for: %s.", pe.Path)
		} else {
			o.warn("Could not find WSL directory for: %s.", hostFolder)
		}
		return engine.Failed()
	}

	l, ok := o.acquire()
	if !ok {
		return engine.Failed()
	}
	defer release(l)

	p := pipeline.BuildAnalyze(pipeline.AnalyzeParams{
		Name:          pipeline.NameAnalyze(hostFolder),
		Target:        target,
		ScratchDir:    o.NewScratch(),
		InstallFolder: o.Settings.InstallFolder,
		WorkDir:       o.Settings.WorkDirectory,
	})
	res := o.run(ctx, req, p)
	if res.Succeeded && !o.Runner.Opts.DryRun {
		report := filepath.Join(hostFolder, pipeline.ReportFolder, "report.txt")
		if o.ReportExists != nil && !o.ReportExists(report) {
			o.warn("Could not find report.txt under %s.", hostFolder)
		}
	}
	return res
}

// Plan builds the pipeline an operation would run, without probing or
// executing anything. Analyze plans use target as the in-distribution path.
func (o *Orchestrator) Plan(op string, target string) (pipeline.Pipeline, error) {
	s := o.Settings
	switch op {
	case "check":
		return pipeline.BuildCheck(pipeline.NameCheck, s.InstallFolder, s.WorkDirectory), nil
	case "install":
		return pipeline.BuildInstall(pipeline.InstallParams{
			DistributionPresent: false,
			WslExe:              "wsl.exe",
			Distribution:        s.Distribution,
			DownloadURL:         s.DownloadURL,
			InstallFolder:       s.InstallFolder,
			WorkDir:             s.WorkDirectory,
		}), nil
	case "analyze":
		if target == "" {
			return pipeline.Pipeline{}, errors.New("analyze plan needs a folder")
		}
		return pipeline.BuildAnalyze(pipeline.AnalyzeParams{
			Name:          pipeline.NameAnalyze(target),
			Target:        target,
			ScratchDir:    o.NewScratch(),
			InstallFolder: s.InstallFolder,
			WorkDir:       s.WorkDirectory,
		}), nil
	}
	return pipeline.Pipeline{}, errors.Errorf("unknown operation %q", op)
}
