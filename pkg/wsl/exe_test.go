package wsl

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestShellQuote(t *testing.T) {
	require.Equal(t, "ls", ShellQuote("ls"))
	require.Equal(t, "/opt/infersharp1.2", ShellQuote("/opt/infersharp1.2"))
	require.Equal(t, "--output-document=infersharp.tar.gz", ShellQuote("--output-document=infersharp.tar.gz"))
	require.Equal(t, "''", ShellQuote(""))
	require.Equal(t, "'/mnt/c/My Project'", ShellQuote("/mnt/c/My Project"))
	require.Equal(t, `'it'"'"'s'`, ShellQuote("it's"))
	require.Equal(t, "'$(rm -rf /)'", ShellQuote("$(rm -rf /)"))
}

func TestShellJoin(t *testing.T) {
	require.Equal(t, "tar -xvzf infersharp.tar.gz", ShellJoin("tar", "-xvzf", "infersharp.tar.gz"))
	require.Equal(t, "rm -rf '/mnt/c/a b/cfg.json'", ShellJoin("rm", "-rf", "/mnt/c/a b/cfg.json"))
	require.Equal(t, "ls ''", ShellJoin("ls", ""))
}

func TestDistributionArgs(t *testing.T) {
	args := DistributionArgs("ubuntu", Command{
		Program: "ls",
		Args:    []string{"/opt/infersharp1.2"},
		WorkDir: "/root",
		Elevate: true,
	})
	require.Equal(t, []string{
		"--distribution", "ubuntu",
		"--cd", "/root",
		"--user", "root",
		"--exec", "sh", "-c", "ls /opt/infersharp1.2",
	}, args)

	args = DistributionArgs("ubuntu", Command{Program: "true"})
	require.Equal(t, []string{"--distribution", "ubuntu", "--exec", "sh", "-c", "true"}, args)
}

func TestParseDistributionList_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	raw, err := enc.Bytes([]byte("Ubuntu\r\nDebian\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"Ubuntu", "Debian"}, ParseDistributionList(raw))
}

func TestParseDistributionList_UTF8(t *testing.T) {
	require.Equal(t, []string{"Ubuntu-22.04"}, ParseDistributionList([]byte("Ubuntu-22.04\n")))
	require.Empty(t, ParseDistributionList(nil))
}

func TestExe_IsHostCompatible_NonWindows(t *testing.T) {
	e := &Exe{goos: "linux", windowsBuild: func() uint32 { return 99999 }}
	require.False(t, e.IsHostCompatible(context.Background()))
}

func TestExe_IsHostCompatible_OldBuild(t *testing.T) {
	e := &Exe{Path: "wsl.exe", goos: "windows", windowsBuild: func() uint32 { return 16299 }}
	require.False(t, e.IsHostCompatible(context.Background()))

	e.windowsBuild = func() uint32 { return 19045 }
	require.True(t, e.IsHostCompatible(context.Background()))
}

func TestExe_Execute_HostStreamsAndCaptures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	e := NewExe("")

	var streamed bytes.Buffer
	out, err := e.Execute(context.Background(), "", Command{
		Program: "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2; exit 3"},
		Host:    true,
	}, &streamed)
	require.NoError(t, err)
	require.Equal(t, 3, out.ExitCode)
	require.False(t, out.Success())
	require.Equal(t, "out\n", out.Stdout)
	require.Equal(t, "err\n", out.Stderr)
	require.Contains(t, streamed.String(), "out\n")
	require.Contains(t, streamed.String(), "err\n")
}

func TestExe_Execute_KeepsStreamLinesWhole(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	var streamed bytes.Buffer
	out, err := NewExe("").Execute(context.Background(), "", Command{
		Program: "sh",
		Args:    []string{"-c", "printf 'progress 10%%'; echo 'warning: x' >&2; sleep 0.1; echo ' done'"},
		Host:    true,
	}, &streamed)
	require.NoError(t, err)
	require.Equal(t, "progress 10% done\n", out.Stdout)
	lines := strings.Split(strings.TrimSuffix(streamed.String(), "\n"), "\n")
	require.ElementsMatch(t, []string{"progress 10% done", "warning: x"}, lines)
}

func TestLineFramers_OnlyWholeLinesInterleave(t *testing.T) {
	var buf bytes.Buffer
	stdout, stderr := newLineFramers(&buf)

	_, _ = stdout.Write([]byte("progress 10%"))
	_, _ = stderr.Write([]byte("warning: x\n"))
	_, _ = stdout.Write([]byte(" done\nnext"))
	require.Equal(t, "warning: x\nprogress 10% done\n", buf.String())

	require.NoError(t, stdout.Flush())
	require.NoError(t, stderr.Flush())
	require.Equal(t, "warning: x\nprogress 10% done\nnext\n", buf.String())
}

func TestExe_Execute_HostLaunchFailure(t *testing.T) {
	e := NewExe("")
	out, err := e.Execute(context.Background(), "", Command{
		Program: "inferctl-definitely-missing-binary",
		Host:    true,
	}, nil)
	require.Error(t, err)
	require.Equal(t, -1, out.ExitCode)
}

func TestExe_Execute_CancelKillsProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := NewExe("").Execute(ctx, "", Command{Program: "sleep", Args: []string{"5"}, Host: true}, nil)
	if err == nil {
		require.NotEqual(t, 0, out.ExitCode)
	} else {
		require.True(t, strings.Contains(err.Error(), "start") || strings.Contains(err.Error(), "context"))
	}
}

type fakeCapability struct {
	translated string
	err        error
}

func (f fakeCapability) IsHostCompatible(ctx context.Context) bool { return true }
func (f fakeCapability) ListDistributions(ctx context.Context) ([]string, error) {
	return []string{"ubuntu"}, nil
}
func (f fakeCapability) TranslatePath(ctx context.Context, d, p string) (string, error) {
	return f.translated, f.err
}
func (f fakeCapability) Execute(ctx context.Context, d string, cmd Command, out io.Writer) (CapturedOutput, error) {
	return CapturedOutput{}, nil
}

func TestHandle_TranslatePathErrors(t *testing.T) {
	h := Handle{name: "ubuntu", cap: fakeCapability{translated: ""}}
	_, err := h.TranslatePath(context.Background(), `C:\proj`)
	var pte *PathTranslationError
	require.ErrorAs(t, err, &pte)
	require.Equal(t, `C:\proj`, pte.Path)

	h = Handle{name: "ubuntu", cap: fakeCapability{translated: "/mnt/c/proj"}}
	p, err := h.TranslatePath(context.Background(), `C:\proj`)
	require.NoError(t, err)
	require.Equal(t, "/mnt/c/proj", p)
}
