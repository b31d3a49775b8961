package dto

import "time"

type CreateTodoRequest struct {
	CreatorName  string `json:"creator_name" binding:"required,min=1,max=120"`
	CreatorEmail string `json:"creator_email" binding:"required,email"`
	TaskContent  string `json:"task_content" binding:"required,min=1,max=1000"`
	// Deadline is "YYYY-MM-DD HH:MM:SS" in the operating timezone, or RFC3339.
	Deadline string `json:"deadline" binding:"required"`
}

type UpdateTodoRequest struct {
	TaskContent *string `json:"task_content" binding:"omitempty,min=1,max=1000"`
	Deadline    *string `json:"deadline" binding:"omitempty"` // nil = leave unchanged
}

type ToggleTodoRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

type TodoResponse struct {
	ID           string    `json:"id"`
	CreatorName  string    `json:"creator_name"`
	CreatorEmail string    `json:"creator_email"`
	TaskContent  string    `json:"task_content"`
	Deadline     time.Time `json:"deadline"`
	// DeadlineLocal is the deadline rendered in the operating timezone.
	DeadlineLocal string `json:"deadline_local"`
	IsCompleted   bool   `json:"is_completed"`

	NotifiedOverdue bool `json:"notified_overdue"`
	Notified1Day    bool `json:"notified_1day"`
	Notified6Hour   bool `json:"notified_6hour"`
	Notified2Hour   bool `json:"notified_2hour"`
	Notified1Hour   bool `json:"notified_1hour"`
	Notified30Min   bool `json:"notified_30min"`

	CreatedAt time.Time `json:"created_at"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}
