package styles

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconRunning = "▶"
	IconPending = "○"
	IconPrompt  = "$"
)

// RunIcon picks the status icon for a run. done is false while steps are
// still executing.
func RunIcon(done, succeeded bool) string {
	switch {
	case !done:
		return IconRunning
	case succeeded:
		return IconSuccess
	default:
		return IconError
	}
}
