package wsl

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MinimumWindowsBuild is the first Windows 10 build that ships wsl.exe with
// distribution selection.
const MinimumWindowsBuild = 17134

// Exe drives the subsystem through wsl.exe.
type Exe struct {
	// Path to wsl.exe. Empty means FindExe.
	Path string

	goos         string
	windowsBuild func() uint32
}

var _ Capability = (*Exe)(nil)

func NewExe(path string) *Exe {
	return &Exe{Path: path, goos: runtime.GOOS, windowsBuild: windowsBuild}
}

// FindExe locates wsl.exe on PATH, falling back to %SystemRoot%\System32.
func FindExe() (string, error) {
	if p, err := exec.LookPath("wsl.exe"); err == nil {
		return p, nil
	}
	if root := os.Getenv("SystemRoot"); root != "" {
		p := filepath.Join(root, "System32", "wsl.exe")
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", ErrExeNotFound
}

func (e *Exe) exe() (string, error) {
	if e.Path != "" {
		return e.Path, nil
	}
	return FindExe()
}

func (e *Exe) IsHostCompatible(ctx context.Context) bool {
	if e.goos != "windows" {
		log.Debug().Str("goos", e.goos).Msg("WSL requires windows")
		return false
	}
	if b := e.windowsBuild(); b < MinimumWindowsBuild {
		log.Debug().Uint32("build", b).Msg("windows build too old for WSL")
		return false
	}
	if _, err := e.exe(); err != nil {
		log.Debug().Err(err).Msg("wsl.exe not found")
		return false
	}
	return true
}

func (e *Exe) ListDistributions(ctx context.Context) ([]string, error) {
	exe, err := e.exe()
	if err != nil {
		return nil, err
	}
	out, err := run(ctx, exe, []string{"--list", "--quiet"}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list distributions")
	}
	if out.ExitCode != 0 {
		// wsl.exe exits non-zero when nothing is installed.
		log.Debug().Int("exit_code", out.ExitCode).Msg("wsl --list returned no distributions")
		return []string{}, nil
	}
	return ParseDistributionList([]byte(out.Stdout)), nil
}

func (e *Exe) TranslatePath(ctx context.Context, distribution string, hostPath string) (string, error) {
	exe, err := e.exe()
	if err != nil {
		return "", err
	}
	args := []string{"--distribution", distribution, "--exec", "wslpath", "-a", "-u", hostPath}
	out, err := run(ctx, exe, args, nil)
	if err != nil {
		return "", errors.Wrap(err, "wslpath")
	}
	if out.ExitCode != 0 {
		return "", errors.Errorf("wslpath exited with %d: %s", out.ExitCode, strings.TrimSpace(out.Stderr))
	}
	return strings.TrimSpace(out.Stdout), nil
}

func (e *Exe) Execute(ctx context.Context, distribution string, cmd Command, out io.Writer) (CapturedOutput, error) {
	if cmd.Host {
		return run(ctx, cmd.Program, cmd.Args, out)
	}
	exe, err := e.exe()
	if err != nil {
		return CapturedOutput{ExitCode: -1}, err
	}
	return run(ctx, exe, DistributionArgs(distribution, cmd), out)
}

// DistributionArgs builds the wsl.exe argument list that runs cmd through a
// shell inside the distribution.
func DistributionArgs(distribution string, cmd Command) []string {
	args := []string{"--distribution", distribution}
	if cmd.WorkDir != "" {
		args = append(args, "--cd", cmd.WorkDir)
	}
	if cmd.Elevate {
		args = append(args, "--user", "root")
	}
	args = append(args, "--exec", "sh", "-c", ShellJoin(cmd.Program, cmd.Args...))
	return args
}

// lineFramer forwards only complete lines to w. Framers that share mu never
// interleave inside a line.
type lineFramer struct {
	mu      *sync.Mutex
	w       io.Writer
	pending []byte
}

func newLineFramers(w io.Writer) (*lineFramer, *lineFramer) {
	mu := &sync.Mutex{}
	return &lineFramer{mu: mu, w: w}, &lineFramer{mu: mu, w: w}
}

func (l *lineFramer) Write(p []byte) (int, error) {
	l.pending = append(l.pending, p...)
	i := bytes.LastIndexByte(l.pending, '\n')
	if i < 0 {
		return len(p), nil
	}
	l.mu.Lock()
	_, err := l.w.Write(l.pending[:i+1])
	l.mu.Unlock()
	l.pending = append(l.pending[:0], l.pending[i+1:]...)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush terminates and forwards an unfinished last line.
func (l *lineFramer) Flush() error {
	if len(l.pending) == 0 {
		return nil
	}
	line := append(l.pending, '\n')
	l.pending = nil
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(line)
	return err
}

func run(ctx context.Context, program string, args []string, out io.Writer) (CapturedOutput, error) {
	if out == nil {
		out = io.Discard
	}
	log.Trace().Str("program", program).Strs("args", args).Msg("exec")

	// #nosec G204 -- program and args come from a pipeline built by this tool.
	c := exec.CommandContext(ctx, program, args...)
	stdout, err := c.StdoutPipe()
	if err != nil {
		return CapturedOutput{ExitCode: -1}, errors.Wrap(err, "stdout pipe")
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return CapturedOutput{ExitCode: -1}, errors.Wrap(err, "stderr pipe")
	}

	startedAt := time.Now()
	if err := c.Start(); err != nil {
		return CapturedOutput{ExitCode: -1}, errors.Wrapf(err, "start %s", program)
	}

	var outBuf, errBuf bytes.Buffer
	outLines, errLines := newLineFramers(out)
	var eg errgroup.Group
	eg.Go(func() error {
		_, err := io.Copy(io.MultiWriter(&outBuf, outLines), stdout)
		if ferr := outLines.Flush(); err == nil {
			err = ferr
		}
		return err
	})
	eg.Go(func() error {
		_, err := io.Copy(io.MultiWriter(&errBuf, errLines), stderr)
		if ferr := errLines.Flush(); err == nil {
			err = ferr
		}
		return err
	})
	copyErr := eg.Wait()
	waitErr := c.Wait()

	res := CapturedOutput{
		ExitCode: 0,
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		Duration: time.Since(startedAt),
	}
	if waitErr != nil {
		var ee *exec.ExitError
		if !stderrors.As(waitErr, &ee) {
			res.ExitCode = -1
			return res, errors.Wrapf(waitErr, "wait %s", program)
		}
		res.ExitCode = ee.ExitCode()
		if res.ExitCode == 0 {
			res.ExitCode = -1
		}
	}
	if copyErr != nil && res.ExitCode == 0 {
		return res, errors.Wrap(copyErr, "read output")
	}
	return res, nil
}
