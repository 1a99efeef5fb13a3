package cmds

import "github.com/spf13/cobra"

func AddCommands(root *cobra.Command) error {
	root.AddCommand(newCheckCmd())
	root.AddCommand(newInstallCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newReportCmd())

	distributions, err := newDistributionsCmd()
	if err != nil {
		return err
	}
	root.AddCommand(distributions)
	return nil
}
