package pipeline

import (
	"fmt"
	"path"

	"github.com/google/uuid"
)

const (
	TempArchive     = "infersharp.tar.gz"
	ExtractedFolder = "infersharp"
	ReportFolder    = "infer-out"
	CFGFile         = "cfg.json"
	TEnvFile        = "tenv.json"
)

// DisabledIssueTypes are switched off for every analysis run.
var DisabledIssueTypes = []string{
	"PULSE_UNINITIALIZED_VALUE",
	"MEMORY_LEAK",
	"UNINITIALIZED_VALUE",
}

// Download retry parameters handed to wget.
const (
	downloadWaitRetry   = 5
	downloadReadTimeout = 60
	downloadTimeout     = 90
	downloadTries       = 10
)

const (
	NameCheck   = "Checking"
	NameInstall = "Installing Infer# in WSL"
)

func NameAnalyze(folder string) string {
	return "Analyzing " + folder
}

func inDistribution(workDir, program string, args ...string) CommandStep {
	return CommandStep{
		Program: program,
		Args:    args,
		WorkDir: workDir,
		Elevate: true,
	}
}

func labelled(label string, c CommandStep) CommandStep {
	c.Label = label
	return c
}

// BuildCheck lists the installation folder inside the distribution. A zero
// exit code means the analyzer is installed.
func BuildCheck(name, installFolder, workDir string) Pipeline {
	return New(name, inDistribution(workDir, "ls", installFolder))
}

type InstallParams struct {
	DistributionPresent bool
	WslExe              string
	Distribution        string
	DownloadURL         string
	InstallFolder       string
	WorkDir             string
}

// BuildInstall installs the distribution when missing and then downloads and
// unpacks the analyzer release into InstallFolder. Every mutating step is
// preceded by a cleanup so a half-finished earlier run does not break a retry.
func BuildInstall(p InstallParams) Pipeline {
	var steps []Step
	if !p.DistributionPresent {
		steps = append(steps,
			DisplayStep{Text: fmt.Sprintf("Installing %s now. This might result in a new window opening...", p.Distribution)},
			CommandStep{
				Program: p.WslExe,
				Args:    []string{"--install", "--distribution", p.Distribution},
				Host:    true,
			},
			DisplayStep{Text: fmt.Sprintf("Installation of %s complete.", p.Distribution)},
		)
	} else {
		steps = append(steps, DisplayStep{Text: fmt.Sprintf("WSL distribution %s is available.", p.Distribution)})
	}

	steps = append(steps,
		inDistribution(p.WorkDir, "rm", "-rf", TempArchive, ExtractedFolder, p.InstallFolder),
		inDistribution(p.WorkDir, "wget",
			"--retry-connrefused",
			fmt.Sprintf("--waitretry=%d", downloadWaitRetry),
			fmt.Sprintf("--read-timeout=%d", downloadReadTimeout),
			fmt.Sprintf("--timeout=%d", downloadTimeout),
			fmt.Sprintf("--tries=%d", downloadTries),
			"--show-progress",
			"--progress=dot",
			"--output-document="+TempArchive,
			p.DownloadURL,
		),
		inDistribution(p.WorkDir, "tar", "-xvzf", TempArchive),
		inDistribution(p.WorkDir, "mv", ExtractedFolder, p.InstallFolder),
		inDistribution(p.WorkDir, "rm", "-rf", TempArchive),
		DisplayStep{Text: "Setup complete."},
	)
	return New(NameInstall, steps...)
}

type AnalyzeParams struct {
	Name          string
	Target        string
	ScratchDir    string
	InstallFolder string
	WorkDir       string
}

func CilsilPath(installFolder string) string {
	return path.Join(installFolder, "Cilsil", "Cilsil")
}

func InferPath(installFolder string) string {
	return path.Join(installFolder, "infer", "lib", "infer", "infer", "bin", "infer")
}

// BuildAnalyze runs translate, capture and analyze inside ScratchDir so the
// analyzer does not work on the mounted host filesystem, then moves the report
// next to the sources. The last three command steps are always: remove the
// intermediate artifacts, move the report, remove the scratch directory.
func BuildAnalyze(p AnalyzeParams) Pipeline {
	target := p.Target
	cfg := path.Join(target, CFGFile)
	tenv := path.Join(target, TEnvFile)
	infer := InferPath(p.InstallFolder)

	analyzeArgs := []string{"analyzejson", "--debug-level", "1", "--pulse", "--sarif"}
	for _, t := range DisabledIssueTypes {
		analyzeArgs = append(analyzeArgs, "--disable-issue-type", t)
	}
	analyzeArgs = append(analyzeArgs, "--cfg-json", cfg, "--tenv-json", tenv)

	return New(p.Name,
		inDistribution(p.WorkDir, "mkdir", "-p", p.ScratchDir),
		inDistribution(p.WorkDir, "rm", "-rf", path.Join(target, ReportFolder)),
		labelled("Translating...", inDistribution(p.ScratchDir, CilsilPath(p.InstallFolder),
			"translate", target,
			"--outcfg", cfg,
			"--outtenv", tenv,
			"--extprogress",
		)),
		labelled("Capturing...", inDistribution(p.ScratchDir, infer, "capture")),
		labelled("Analyzing...", inDistribution(p.ScratchDir, infer, analyzeArgs...)),
		inDistribution(p.WorkDir, "rm", "-rf", cfg, tenv),
		inDistribution(p.WorkDir, "mv", path.Join(p.ScratchDir, ReportFolder), target),
		inDistribution(p.WorkDir, "rm", "-rf", p.ScratchDir),
		DisplayStep{Text: "Done."},
	)
}

// NewScratchDir returns a fresh, randomly named directory under /tmp inside
// the distribution.
func NewScratchDir() string {
	return path.Join("/tmp", uuid.NewString())
}
