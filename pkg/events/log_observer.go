package events

import (
	"github.com/go-go-golems/inferctl/pkg/engine"
	"github.com/rs/zerolog"
)

// LogObserver mirrors a run into the debug log, so --log-file keeps the
// command output next to the runner's own records.
type LogObserver struct {
	logger zerolog.Logger
}

var _ engine.Observer = LogObserver{}

func NewLogObserver(logger zerolog.Logger, name string) LogObserver {
	return LogObserver{logger: logger.With().Str("run", name).Logger()}
}

func (o LogObserver) OnText(line string) {
	o.logger.Debug().Str("line", line).Msg("run output")
}

func (o LogObserver) OnCommandStarted(description string) {
	o.logger.Debug().Str("command", description).Msg("run command")
}

func (o LogObserver) OnFinished(result engine.ExecutionResult) {
	o.logger.Debug().
		Bool("succeeded", result.Succeeded).
		Bool("cancelled", result.Cancelled).
		Int("executed", result.Executed).
		Msg(FinishedText(result))
}
