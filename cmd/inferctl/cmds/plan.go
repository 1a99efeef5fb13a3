package cmds

import (
	"encoding/json"
	"fmt"

	"github.com/go-go-golems/inferctl/pkg/orchestrator"
	"github.com/go-go-golems/inferctl/pkg/pipeline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan {check|install|analyze} [folder]",
		Short: "Print the steps an operation would run, without touching WSL",
		Long: "Plan prints the pipeline as JSON. For analyze, [folder] is used verbatim\n" +
			"as the path inside the distribution. Install plans assume the distribution\n" +
			"still has to be installed.",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"check", "install", "analyze"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := getRootOptions(cmd)
			if err != nil {
				return err
			}
			settings, err := loadSettings(opts)
			if err != nil {
				return err
			}

			target := ""
			if len(args) == 2 {
				target = args[1]
			}
			o := orchestrator.New(settings, nil, nil)
			p, err := o.Plan(args[0], target)
			if err != nil {
				return err
			}

			b, err := json.MarshalIndent(map[string]any{
				"name":         p.Name(),
				"distribution": settings.Distribution,
				"steps":        pipeline.Describe(p),
			}, "", "  ")
			if err != nil {
				return errors.Wrap(err, "marshal output")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}
