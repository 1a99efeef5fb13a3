package cmds

import (
	"context"
	"path/filepath"

	"github.com/go-go-golems/inferctl/pkg/orchestrator"
	"github.com/go-go-golems/inferctl/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "analyze <folder>",
		Short: "Analyze a folder of compiled .NET binaries with Infer#",
		Long: "Analyze translates the binaries in <folder>, runs the Infer# analysis in a\n" +
			"scratch directory inside WSL and moves the infer-out report next to them.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			op := func(ctx context.Context, o *orchestrator.Orchestrator) error {
				return o.Analyze(ctx, folder).Err()
			}
			if useTUI {
				return runTUI(cmd, s, pipeline.NameAnalyze(folder), op)
			}
			return runPlain(cmd, s, op)
		},
	}
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Show progress in an interactive terminal panel")
	return cmd
}
