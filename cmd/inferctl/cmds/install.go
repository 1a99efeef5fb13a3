package cmds

import (
	"context"

	"github.com/go-go-golems/inferctl/pkg/orchestrator"
	"github.com/go-go-golems/inferctl/pkg/pipeline"
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the WSL distribution (if missing) and Infer# inside it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			op := func(ctx context.Context, o *orchestrator.Orchestrator) error {
				return o.Install(ctx).Err()
			}
			if useTUI {
				return runTUI(cmd, s, pipeline.NameInstall, op)
			}
			return runPlain(cmd, s, op)
		},
	}
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Show progress in an interactive terminal panel")
	return cmd
}
