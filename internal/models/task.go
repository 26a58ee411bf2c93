package models

import "time"

type TaskState string

const (
	StateTodo       TaskState = "TODO"
	StateInProgress TaskState = "IN_PROGRESS"
	StateDone       TaskState = "DONE"
)

// Known reports whether the state is one of the three values the board
// renders as a column. Anything else ends up in the Unknown bucket.
func (s TaskState) Known() bool {
	switch s {
	case StateTodo, StateInProgress, StateDone:
		return true
	}
	return false
}

type Task struct {
	ID         int64     `json:"id"`
	TaskLabel  string    `json:"taskLabel"`
	TaskState  TaskState `json:"taskState"`
	AssignedTo string    `json:"assignedTo,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Assigned reports whether the task is assigned to any developer.
func (t Task) Assigned() bool {
	return t.AssignedTo != ""
}
