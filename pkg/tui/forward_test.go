package tui

import (
	"testing"

	"github.com/go-go-golems/inferctl/pkg/events"
	"github.com/stretchr/testify/require"
)

func TestToMsg(t *testing.T) {
	env, err := events.NewEnvelope(events.TypeCommandStarted, events.CommandStarted{Description: "ls /opt"})
	require.NoError(t, err)
	msg, err := ToMsg(env)
	require.NoError(t, err)
	require.Equal(t, CommandStartedMsg{Command: events.CommandStarted{Description: "ls /opt"}}, msg)

	env, err = events.NewEnvelope(events.TypeNotification, events.Notification{Level: events.LevelWarning, Text: "x"})
	require.NoError(t, err)
	msg, err = ToMsg(env)
	require.NoError(t, err)
	require.Equal(t, "x", msg.(NotificationMsg).Notification.Text)

	msg, err = ToMsg(events.Envelope{Type: "other"})
	require.NoError(t, err)
	require.Nil(t, msg)

	_, err = ToMsg(events.Envelope{Type: events.TypeRunText, Payload: []byte("{")})
	require.Error(t, err)
}
