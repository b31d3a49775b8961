package dto

import "time"

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse carries the extracted pair. Deadline is the wall-clock
// string as extracted; DeadlineAt is its normalized instant, left nil
// when the string could not be normalized (it is then passed through
// unchanged for the user to see).
type ChatResponse struct {
	Success    bool       `json:"success"`
	Task       string     `json:"task,omitempty"`
	Deadline   string     `json:"deadline,omitempty"`
	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
	Message    string     `json:"message,omitempty"`
}
