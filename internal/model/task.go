package model

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusCompleted  TaskStatus = "completed"
)

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusCompleted:
		return true
	}
	return false
}

// Project is a container of tasks owned by a single profile.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is the core work-item record. DueAt and CompletedAt are optional;
// a nil DueAt means the due date is unknown, not "now" and not "never".
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Status      TaskStatus `json:"status"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// DependsOn lists prerequisite task IDs. The resulting graph may be
	// cyclic or diamond-shaped; nothing guarantees acyclicity.
	DependsOn []string `json:"depends_on,omitempty"`
}

// IsComplete reports whether the task is in a terminal state.
func (t *Task) IsComplete() bool {
	return t.Status == StatusCompleted
}
