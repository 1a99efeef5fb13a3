package engine

import (
	"bytes"
	"strings"
	"sync"
)

// Observer receives everything a run wants to show. Calls arrive in step
// order from a single goroutine.
type Observer interface {
	OnText(line string)
	OnCommandStarted(description string)
	OnFinished(result ExecutionResult)
}

type NopObserver struct{}

func (NopObserver) OnText(string)              {}
func (NopObserver) OnCommandStarted(string)    {}
func (NopObserver) OnFinished(ExecutionResult) {}

type multiObserver []Observer

// MultiObserver fans every event out to all observers in order. Nil entries
// are skipped.
func MultiObserver(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) OnText(line string) {
	for _, o := range m {
		o.OnText(line)
	}
}

func (m multiObserver) OnCommandStarted(description string) {
	for _, o := range m {
		o.OnCommandStarted(description)
	}
}

func (m multiObserver) OnFinished(result ExecutionResult) {
	for _, o := range m {
		o.OnFinished(result)
	}
}

// lineWriter turns a command's byte stream into OnText lines. The executor
// may write from two goroutines (stdout and stderr).
type lineWriter struct {
	mu      sync.Mutex
	obs     Observer
	pending bytes.Buffer
}

func newLineWriter(obs Observer) *lineWriter {
	return &lineWriter{obs: obs}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending.Write(p)
	for {
		b := w.pending.Bytes()
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(b[:i]), "\r")
		w.pending.Next(i + 1)
		w.obs.OnText(line)
	}
	return len(p), nil
}

// Flush emits a trailing line without newline, if any.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.Len() == 0 {
		return
	}
	line := strings.TrimRight(w.pending.String(), "\r")
	w.pending.Reset()
	w.obs.OnText(line)
}
