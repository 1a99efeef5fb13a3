package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog/log"
)

// BusNotifier publishes warnings as notification events.
type BusNotifier struct {
	Publisher message.Publisher
}

func (n BusNotifier) Warn(text string) {
	err := Publish(n.Publisher, TopicRunEvents, TypeNotification, Notification{
		Level: LevelWarning,
		Text:  text,
		At:    time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("could not publish notification")
	}
}
