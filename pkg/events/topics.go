package events

const (
	TopicRunEvents = "inferctl.events"
)

const (
	TypeRunStarted     = "run.started"
	TypeRunText        = "run.text"
	TypeCommandStarted = "run.command.started"
	TypeRunFinished    = "run.finished"
	TypeNotification   = "notification"
)
