package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func installParams(present bool) InstallParams {
	return InstallParams{
		DistributionPresent: present,
		WslExe:              `C:\Windows\System32\wsl.exe`,
		Distribution:        "ubuntu",
		DownloadURL:         "https://example.invalid/infersharp.tar.gz",
		InstallFolder:       "/opt/infersharp1.2",
		WorkDir:             "/root",
	}
}

func TestBuildCheck(t *testing.T) {
	p := BuildCheck("", "/opt/infersharp1.2", "/root")
	require.True(t, p.Silent())
	cmds := p.Commands()
	require.Len(t, cmds, 1)
	require.Equal(t, "ls", cmds[0].Program)
	require.Equal(t, []string{"/opt/infersharp1.2"}, cmds[0].Args)
	require.Equal(t, "/root", cmds[0].WorkDir)
	require.True(t, cmds[0].Elevate)
}

func TestBuildInstall_DistributionMissing(t *testing.T) {
	p := BuildInstall(installParams(false))
	steps := p.Steps()
	require.Equal(t, NameInstall, p.Name())
	require.Len(t, steps, 9)

	_, ok := steps[0].(DisplayStep)
	require.True(t, ok)

	host, ok := steps[1].(CommandStep)
	require.True(t, ok)
	require.True(t, host.Host)
	require.Equal(t, `C:\Windows\System32\wsl.exe`, host.Program)
	require.Equal(t, []string{"--install", "--distribution", "ubuntu"}, host.Args)
	require.Empty(t, host.WorkDir)

	require.Equal(t, DisplayStep{Text: "Installation of ubuntu complete."}, steps[2])
	require.Equal(t, DisplayStep{Text: "Setup complete."}, steps[len(steps)-1])
}

func TestBuildInstall_DistributionPresent(t *testing.T) {
	p := BuildInstall(installParams(true))
	steps := p.Steps()
	require.Len(t, steps, 7)
	require.Equal(t, DisplayStep{Text: "WSL distribution ubuntu is available."}, steps[0])

	cmds := p.Commands()
	require.Len(t, cmds, 5)

	programs := []string{}
	for _, c := range cmds {
		require.False(t, c.Host)
		require.Equal(t, "/root", c.WorkDir)
		require.True(t, c.Elevate)
		require.NotContains(t, c.Args, c.Program)
		programs = append(programs, c.Program)
	}
	require.Equal(t, []string{"rm", "wget", "tar", "mv", "rm"}, programs)

	require.Equal(t, []string{"-rf", TempArchive, ExtractedFolder, "/opt/infersharp1.2"}, cmds[0].Args)
	require.Equal(t, []string{"-xvzf", TempArchive}, cmds[2].Args)
	require.Equal(t, []string{ExtractedFolder, "/opt/infersharp1.2"}, cmds[3].Args)
	require.Equal(t, []string{"-rf", TempArchive}, cmds[4].Args)
}

func TestBuildInstall_DownloadRetries(t *testing.T) {
	wget := BuildInstall(installParams(true)).Commands()[1]
	require.Equal(t, "wget", wget.Program)
	require.Contains(t, wget.Args, "--retry-connrefused")
	require.Contains(t, wget.Args, "--waitretry=5")
	require.Contains(t, wget.Args, "--read-timeout=60")
	require.Contains(t, wget.Args, "--timeout=90")
	require.Contains(t, wget.Args, "--tries=10")
	require.Contains(t, wget.Args, "--output-document="+TempArchive)
	require.Equal(t, "https://example.invalid/infersharp.tar.gz", wget.Args[len(wget.Args)-1])
}

func TestBuildAnalyze_Layout(t *testing.T) {
	p := BuildAnalyze(AnalyzeParams{
		Name:          NameAnalyze(`C:\src\proj`),
		Target:        "/mnt/c/src/proj",
		ScratchDir:    "/tmp/abc",
		InstallFolder: "/opt/infersharp1.2",
		WorkDir:       "/root",
	})
	require.Equal(t, `Analyzing C:\src\proj`, p.Name())
	require.Equal(t, DisplayStep{Text: "Done."}, p.Steps()[p.Len()-1])

	cmds := p.Commands()
	require.Len(t, cmds, 8)

	require.Equal(t, "mkdir", cmds[0].Program)
	require.Equal(t, []string{"-p", "/tmp/abc"}, cmds[0].Args)
	require.Equal(t, []string{"-rf", "/mnt/c/src/proj/infer-out"}, cmds[1].Args)

	translate := cmds[2]
	require.Equal(t, "Translating...", translate.Label)
	require.Equal(t, "/opt/infersharp1.2/Cilsil/Cilsil", translate.Program)
	require.Equal(t, "/tmp/abc", translate.WorkDir)
	require.Equal(t, []string{
		"translate", "/mnt/c/src/proj",
		"--outcfg", "/mnt/c/src/proj/cfg.json",
		"--outtenv", "/mnt/c/src/proj/tenv.json",
		"--extprogress",
	}, translate.Args)

	capture := cmds[3]
	require.Equal(t, "Capturing...", capture.Label)
	require.Equal(t, "/opt/infersharp1.2/infer/lib/infer/infer/bin/infer", capture.Program)
	require.Equal(t, []string{"capture"}, capture.Args)
	require.Equal(t, "/tmp/abc", capture.WorkDir)

	analyze := cmds[4]
	require.Equal(t, "Analyzing...", analyze.Label)
	require.Equal(t, "/tmp/abc", analyze.WorkDir)
	joined := strings.Join(analyze.Args, " ")
	require.Contains(t, joined, "--sarif")
	require.Contains(t, joined, "--disable-issue-type PULSE_UNINITIALIZED_VALUE")
	require.Contains(t, joined, "--disable-issue-type MEMORY_LEAK")
	require.Contains(t, joined, "--disable-issue-type UNINITIALIZED_VALUE")
	require.Contains(t, joined, "--cfg-json /mnt/c/src/proj/cfg.json")
	require.Contains(t, joined, "--tenv-json /mnt/c/src/proj/tenv.json")
}

func TestBuildAnalyze_FinalStepsAreCleanup(t *testing.T) {
	for _, tc := range []struct{ target, scratch string }{
		{"/mnt/c/a", "/tmp/1"},
		{"/home/user/proj", "/tmp/2"},
		{"/path with spaces/x", "/tmp/3"},
	} {
		cmds := BuildAnalyze(AnalyzeParams{
			Target:        tc.target,
			ScratchDir:    tc.scratch,
			InstallFolder: "/opt/i",
			WorkDir:       "/root",
		}).Commands()
		n := len(cmds)
		require.GreaterOrEqual(t, n, 3)

		rmArtifacts, mv, rmScratch := cmds[n-3], cmds[n-2], cmds[n-1]
		require.Equal(t, "rm", rmArtifacts.Program)
		require.Equal(t, []string{"-rf", tc.target + "/cfg.json", tc.target + "/tenv.json"}, rmArtifacts.Args)
		require.Equal(t, "mv", mv.Program)
		require.Equal(t, tc.target, mv.Args[len(mv.Args)-1])
		require.Equal(t, "rm", rmScratch.Program)
		require.Equal(t, []string{"-rf", tc.scratch}, rmScratch.Args)
		for _, c := range []CommandStep{rmArtifacts, mv, rmScratch} {
			require.Equal(t, "/root", c.WorkDir)
		}
	}
}

func TestPipeline_IsImmutable(t *testing.T) {
	args := []string{"a"}
	p := New("x", CommandStep{Program: "echo", Args: args, WorkDir: "/"})
	args[0] = "mutated"

	steps := p.Steps()
	c := steps[0].(CommandStep)
	require.Equal(t, []string{"a"}, c.Args)

	c.Args[0] = "changed"
	require.Equal(t, []string{"a"}, p.Commands()[0].Args)
}

func TestNewScratchDir_Unique(t *testing.T) {
	a, b := NewScratchDir(), NewScratchDir()
	require.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "/tmp/"))
}

func TestDescribe(t *testing.T) {
	d := Describe(BuildInstall(installParams(true)))
	require.Len(t, d, 7)
	require.Equal(t, "display", d[0].Kind)
	require.Equal(t, 1, d[0].Index)
	require.Equal(t, "command", d[1].Kind)
	require.Equal(t, "rm", d[1].Program)
}

func TestCommandStep_Mentions(t *testing.T) {
	c := CommandStep{Program: "ls", Args: []string{"/home/user/proj/x"}, WorkDir: "/root"}
	require.True(t, c.Mentions("/home/user/proj"))
	require.False(t, c.Mentions("/other"))
	require.False(t, c.Mentions(""))
}
