package cmds

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/inferctl/pkg/engine"
	"github.com/go-go-golems/inferctl/pkg/events"
	"github.com/go-go-golems/inferctl/pkg/orchestrator"
	"github.com/go-go-golems/inferctl/pkg/tui"
	"github.com/go-go-golems/inferctl/pkg/tui/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type operation func(ctx context.Context, o *orchestrator.Orchestrator) error

// runPlain prints named runs to the command's stdout.
func runPlain(cmd *cobra.Command, s *session, op operation) error {
	ctx, cancel := s.context(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	o := s.orchestrator(func(name string) engine.Observer {
		return engine.MultiObserver(events.NewConsoleObserver(out, name), events.NewLogObserver(log.Logger, name))
	}, nil)
	return op(ctx, o)
}

// runTUI drives the operation on a worker goroutine while a bubbletea panel
// renders its run events from the bus. Quitting the panel cancels the
// operation.
func runTUI(cmd *cobra.Command, s *session, title string, op operation) error {
	ctx, cancel := s.context(cmd.Context())
	defer cancel()

	bus, err := events.NewInMemoryBus()
	if err != nil {
		return err
	}

	program := tea.NewProgram(models.NewRunModel(title),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)
	tui.RegisterUIForwarder(bus, program)

	o := s.orchestrator(func(name string) engine.Observer {
		return engine.MultiObserver(events.NewBusObserver(bus.Publisher, name), events.NewLogObserver(log.Logger, name))
	}, orchestrator.MultiNotifier(orchestrator.LogNotifier{}, events.BusNotifier{Publisher: bus.Publisher}))

	var opErr error
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		err := bus.Run(egCtx)
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		select {
		case <-bus.Running():
		case <-egCtx.Done():
			return nil
		}
		opErr = op(egCtx, o)
		program.Send(tui.OperationDoneMsg{Err: opErr})
		return nil
	})
	eg.Go(func() error {
		_, err := program.Run()
		cancel()
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	return opErr
}
