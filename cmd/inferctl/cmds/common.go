package cmds

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-go-golems/inferctl/pkg/config"
	"github.com/go-go-golems/inferctl/pkg/engine"
	"github.com/go-go-golems/inferctl/pkg/orchestrator"
	"github.com/go-go-golems/inferctl/pkg/telemetry"
	"github.com/go-go-golems/inferctl/pkg/wsl"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// newCapability is swapped out by tests.
var newCapability = func(wslExe string) wsl.Capability {
	return wsl.NewExe(wslExe)
}

type rootOptions struct {
	Config      string
	Overrides   config.File
	WslExe      string
	LockDir     string
	DryRun      bool
	Timeout     time.Duration
	MetricsFile string
	TraceOutput string
}

func AddRootFlags(root *cobra.Command) {
	addRootFlags(root)
}

func addRootFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String("config", "", "Path to config file (defaults to .inferctl.yaml in the current directory)")
	pf.String("distribution", "", "WSL distribution to target (default ubuntu)")
	pf.String("infersharp-version", "", "Infer# release to install (default "+config.DefaultVersion+")")
	pf.String("install-folder", "", "Install folder inside the distribution (defaults to /opt/infersharp<version>)")
	pf.String("download-url", "", "Release archive URL (defaults to the GitHub release of the version)")
	pf.String("work-dir", "", "Working directory inside the distribution (default "+config.DefaultWorkDirectory+")")
	pf.String("wsl-exe", "", "Path to wsl.exe (defaults to PATH lookup)")
	pf.String("lock-dir", "", "Directory for operation lock files (defaults to the temp dir)")
	pf.Bool("dry-run", false, "Print commands instead of executing them")
	pf.Duration("timeout", 0, "Abort the operation after this long (0 disables)")
	pf.String("metrics-file", "", "Write prometheus metrics to this file after the run")
	pf.String("trace-output", "", "Write trace spans as JSON to this file ('-' for stderr)")
}

func getRootOptions(cmd *cobra.Command) (rootOptions, error) {
	pf := cmd.Root().PersistentFlags()
	get := func(name string) string {
		v, err := pf.GetString(name)
		if err != nil {
			return ""
		}
		return v
	}

	cfgPath := get("config")
	if cfgPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return rootOptions{}, err
		}
		cfgPath = config.DefaultPath(cwd)
	} else if abs, err := filepath.Abs(cfgPath); err == nil {
		cfgPath = abs
	}

	dryRun, err := pf.GetBool("dry-run")
	if err != nil {
		return rootOptions{}, err
	}
	timeout, err := pf.GetDuration("timeout")
	if err != nil {
		return rootOptions{}, err
	}
	if timeout < 0 {
		return rootOptions{}, errors.New("timeout must be >= 0")
	}

	return rootOptions{
		Config: cfgPath,
		Overrides: config.File{
			Distribution:  get("distribution"),
			Version:       get("infersharp-version"),
			InstallFolder: get("install-folder"),
			DownloadURL:   get("download-url"),
			WorkDirectory: get("work-dir"),
		},
		WslExe:      get("wsl-exe"),
		LockDir:     get("lock-dir"),
		DryRun:      dryRun,
		Timeout:     timeout,
		MetricsFile: get("metrics-file"),
		TraceOutput: get("trace-output"),
	}, nil
}

func loadSettings(opts rootOptions) (config.Settings, error) {
	f, err := config.LoadOptional(opts.Config)
	if err != nil {
		return config.Settings{}, err
	}
	return f.Merge(opts.Overrides).Resolve()
}

// session is everything one command invocation needs to talk to WSL.
type session struct {
	opts     rootOptions
	settings config.Settings
	cap      wsl.Capability
	metrics  *telemetry.Metrics
	shutdown telemetry.ShutdownFunc
	closers  []io.Closer
}

func newSession(cmd *cobra.Command) (*session, error) {
	opts, err := getRootOptions(cmd)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}
	s := &session{
		opts:     opts,
		settings: settings,
		cap:      newCapability(opts.WslExe),
		metrics:  telemetry.NewMetrics(),
	}

	var traceOut io.Writer
	switch opts.TraceOutput {
	case "":
	case "-":
		traceOut = cmd.ErrOrStderr()
	default:
		f, err := os.Create(opts.TraceOutput)
		if err != nil {
			return nil, errors.Wrap(err, "open trace output")
		}
		s.closers = append(s.closers, f)
		traceOut = f
	}
	s.shutdown, err = telemetry.InitTracing(cmd.Root().Version, traceOut)
	if err != nil {
		s.close()
		return nil, err
	}

	log.Debug().
		Str("distribution", settings.Distribution).
		Str("install_folder", settings.InstallFolder).
		Bool("dry_run", opts.DryRun).
		Msg("settings resolved")
	return s, nil
}

func (s *session) context(parent context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(parent, s.opts.Timeout)
	}
	return context.WithCancel(parent)
}

func (s *session) orchestrator(observers orchestrator.ObserverFactory, n orchestrator.Notifier) *orchestrator.Orchestrator {
	o := orchestrator.New(s.settings, s.cap, engine.NewRunner(engine.Options{DryRun: s.opts.DryRun}, s.metrics))
	o.Observers = observers
	if n != nil {
		o.Notifier = n
	}
	o.LockDir = s.opts.LockDir
	if s.opts.WslExe != "" {
		exe := s.opts.WslExe
		o.FindExe = func() (string, error) { return exe, nil }
	}
	return o
}

func (s *session) close() {
	if s.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("could not flush traces")
		}
		cancel()
	}
	if err := s.metrics.WriteTextfile(s.opts.MetricsFile); err != nil {
		log.Warn().Err(err).Msg("could not write metrics")
	}
	for _, c := range s.closers {
		_ = c.Close()
	}
}
