package cmds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cli"
	glazedcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/inferctl/pkg/probe"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type DistributionsCommand struct {
	*glazedcmds.CommandDescription

	// options resolves the root flags of the cobra command tree.
	options func() (rootOptions, error)
}

var _ glazedcmds.WriterCommand = (*DistributionsCommand)(nil)

func NewDistributionsCommand(options func() (rootOptions, error)) *DistributionsCommand {
	return &DistributionsCommand{
		CommandDescription: glazedcmds.NewCommandDescription(
			"distributions",
			glazedcmds.WithShort("List installed WSL distributions and whether the configured one is present"),
		),
		options: options,
	}
}

func (c *DistributionsCommand) RunIntoWriter(ctx context.Context, parsedLayers *layers.ParsedLayers, w io.Writer) error {
	opts, err := c.options()
	if err != nil {
		return err
	}
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	p := probe.New(newCapability(opts.WslExe))
	type distribution struct {
		Name       string `json:"name"`
		Configured bool   `json:"configured"`
	}
	out := struct {
		Compatible    bool           `json:"compatible"`
		Configured    string         `json:"configured"`
		Present       bool           `json:"present"`
		Distributions []distribution `json:"distributions"`
	}{
		Compatible:    p.IsHostCompatible(ctx),
		Configured:    settings.Distribution,
		Distributions: []distribution{},
	}
	if out.Compatible {
		names, err := p.Cap.ListDistributions(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			configured := strings.EqualFold(n, settings.Distribution)
			out.Present = out.Present || configured
			out.Distributions = append(out.Distributions, distribution{Name: n, Configured: configured})
		}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal output")
	}
	_, _ = fmt.Fprintln(w, string(b))
	return nil
}

func newDistributionsCmd() (*cobra.Command, error) {
	var cmd *cobra.Command
	c := NewDistributionsCommand(func() (rootOptions, error) {
		return getRootOptions(cmd)
	})

	cmd, err := cli.BuildCobraCommand(c, cli.WithParserConfig(cli.CobraParserConfig{AppName: "inferctl"}))
	if err != nil {
		return nil, err
	}
	return cmd, nil
}
