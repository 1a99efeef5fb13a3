package cmds

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/go-go-golems/inferctl/pkg/report"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var asJSON bool
	var limit int

	cmd := &cobra.Command{
		Use:   "report <folder>",
		Short: "Summarize the SARIF results of an analyzed folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			s, err := report.Load(report.Path(folder))
			if err != nil {
				return errors.Wrapf(err, "no analysis results under %s (run inferctl analyze first)", folder)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				b, err := json.MarshalIndent(s, "", "  ")
				if err != nil {
					return errors.Wrap(err, "marshal output")
				}
				_, _ = fmt.Fprintln(w, string(b))
				return nil
			}

			_, _ = fmt.Fprintf(w, "%d issues in %d files\n", len(s.Issues), len(s.Files))
			for _, rc := range s.Rules() {
				_, _ = fmt.Fprintf(w, "  %-40s %d\n", rc.Rule, rc.Count)
			}
			if len(s.Issues) > 0 {
				_, _ = fmt.Fprintln(w)
			}
			for i, is := range s.Issues {
				if limit > 0 && i >= limit {
					_, _ = fmt.Fprintf(w, "... %d more\n", len(s.Issues)-limit)
					break
				}
				_, _ = fmt.Fprintf(w, "%s:%d: [%s] %s: %s\n", is.File, is.Line, is.Level, is.Rule, is.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of issues to list (0 for all)")
	return cmd
}
