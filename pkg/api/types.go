package api

// --- Response bodies for the teleop API ---

// CommandResponse acknowledges an enqueued teleop command.
type CommandResponse struct {
	Status     string `json:"status"`
	QueueDepth int    `json:"queue_depth"`
}

// ErrorResponse carries an API error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
