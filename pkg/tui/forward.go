package tui

import (
	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/inferctl/pkg/events"
)

// Sender is the part of *tea.Program the forwarder needs.
type Sender interface {
	Send(msg tea.Msg)
}

// RegisterUIForwarder turns run events on the bus into tea messages for p.
func RegisterUIForwarder(bus *events.Bus, p Sender) {
	bus.AddHandler("inferctl-ui-forward", events.TopicRunEvents, func(msg *message.Message) error {
		defer msg.Ack()

		env, err := events.Decode(msg.Payload)
		if err != nil {
			return err
		}
		m, err := ToMsg(env)
		if err != nil {
			return err
		}
		if m != nil {
			p.Send(m)
		}
		return nil
	})
}

// ToMsg decodes a run event envelope. Unknown types yield a nil message.
func ToMsg(env events.Envelope) (tea.Msg, error) {
	switch env.Type {
	case events.TypeRunStarted:
		var v events.RunStarted
		if err := env.DecodePayload(&v); err != nil {
			return nil, err
		}
		return RunStartedMsg{Run: v}, nil
	case events.TypeRunText:
		var v events.RunText
		if err := env.DecodePayload(&v); err != nil {
			return nil, err
		}
		return RunTextMsg{Text: v}, nil
	case events.TypeCommandStarted:
		var v events.CommandStarted
		if err := env.DecodePayload(&v); err != nil {
			return nil, err
		}
		return CommandStartedMsg{Command: v}, nil
	case events.TypeRunFinished:
		var v events.RunFinished
		if err := env.DecodePayload(&v); err != nil {
			return nil, err
		}
		return RunFinishedMsg{Run: v}, nil
	case events.TypeNotification:
		var v events.Notification
		if err := env.DecodePayload(&v); err != nil {
			return nil, err
		}
		return NotificationMsg{Notification: v}, nil
	}
	return nil, nil
}
