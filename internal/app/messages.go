package app

// Message types for the bubbletea app.

// statusClearMsg clears the status line if no newer status replaced it.
type statusClearMsg struct {
	seq int
}
