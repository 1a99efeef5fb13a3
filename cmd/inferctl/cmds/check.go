package cmds

import (
	"context"
	"fmt"

	"github.com/go-go-golems/inferctl/pkg/orchestrator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that WSL, the distribution and Infer# are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			return runPlain(cmd, s, func(ctx context.Context, o *orchestrator.Orchestrator) error {
				if !o.Check(ctx, show) {
					return errors.Errorf("Infer# is not available in WSL distribution %q", s.settings.Distribution)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Infer# is installed in %s at %s\n", s.settings.Distribution, s.settings.InstallFolder)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "Show the check command and its output")
	return cmd
}
