package orchestrator

import "github.com/rs/zerolog/log"

// Notifier surfaces user-facing warnings.
type Notifier interface {
	Warn(text string)
}

type LogNotifier struct{}

func (LogNotifier) Warn(text string) {
	log.Warn().Msg(text)
}

type multiNotifier []Notifier

func MultiNotifier(ns ...Notifier) Notifier {
	var out multiNotifier
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m multiNotifier) Warn(text string) {
	for _, n := range m {
		n.Warn(text)
	}
}
