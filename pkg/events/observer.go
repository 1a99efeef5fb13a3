package events

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-go-golems/inferctl/pkg/engine"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BusObserver publishes every observer callback on TopicRunEvents. Publish
// errors are logged and otherwise ignored so a dead bus never stops a run.
type BusObserver struct {
	pub   message.Publisher
	runID string
}

var _ engine.Observer = (*BusObserver)(nil)

// NewBusObserver announces a new run named name and returns its observer.
func NewBusObserver(pub message.Publisher, name string) *BusObserver {
	o := &BusObserver{pub: pub, runID: uuid.NewString()}
	o.publish(TypeRunStarted, RunStarted{RunID: o.runID, Name: name, At: time.Now()})
	return o
}

func (o *BusObserver) RunID() string { return o.runID }

func (o *BusObserver) OnText(line string) {
	o.publish(TypeRunText, RunText{RunID: o.runID, Line: line, At: time.Now()})
}

func (o *BusObserver) OnCommandStarted(description string) {
	o.publish(TypeCommandStarted, CommandStarted{RunID: o.runID, Description: description, At: time.Now()})
}

func (o *BusObserver) OnFinished(result engine.ExecutionResult) {
	o.publish(TypeRunFinished, RunFinished{RunID: o.runID, Result: result, At: time.Now()})
}

func (o *BusObserver) publish(typ string, payload any) {
	if err := Publish(o.pub, TopicRunEvents, typ, payload); err != nil {
		log.Warn().Err(err).Str("type", typ).Msg("could not publish run event")
	}
}

// ConsoleObserver prints a run to a plain writer.
type ConsoleObserver struct {
	mu sync.Mutex
	w  io.Writer
}

var _ engine.Observer = (*ConsoleObserver)(nil)

// NewConsoleObserver prints a header for the run named name.
func NewConsoleObserver(w io.Writer, name string) *ConsoleObserver {
	o := &ConsoleObserver{w: w}
	_, _ = fmt.Fprintf(w, "==> %s\n", name)
	return o
}

func (o *ConsoleObserver) OnText(line string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintln(o.w, line)
}

func (o *ConsoleObserver) OnCommandStarted(description string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintf(o.w, "$ %s\n", description)
}

func (o *ConsoleObserver) OnFinished(result engine.ExecutionResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintln(o.w, FinishedText(result))
}

// FinishedText is the one-line summary shown at the end of a run.
func FinishedText(result engine.ExecutionResult) string {
	switch {
	case result.Succeeded:
		return "finished: ok"
	case result.Cancelled:
		return "finished: cancelled"
	case result.LastOutput != nil:
		return fmt.Sprintf("finished: failed (exit code %d)", result.LastOutput.ExitCode)
	default:
		return "finished: failed"
	}
}
