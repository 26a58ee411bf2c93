// Package board derives the task-board view model: which tasks the
// current identity may see, grouped into display columns. Pure
// functions only; the stores own all state.
package board

import "github.com/devtrack/taskboard/internal/models"

// ColumnOrder is the fixed display order of the recognized states.
var ColumnOrder = []models.TaskState{
	models.StateTodo,
	models.StateInProgress,
	models.StateDone,
}

// Board groups the visible tasks by state. Tasks whose state is not one
// of the three recognized values are surfaced in Unknown rather than
// dropped, so server-side additions to the enum stay visible.
type Board struct {
	Todo       []models.Task
	InProgress []models.Task
	Done       []models.Task
	Unknown    []models.Task
}

// Column returns the bucket for a recognized state, or nil otherwise.
func (b *Board) Column(state models.TaskState) []models.Task {
	switch state {
	case models.StateTodo:
		return b.Todo
	case models.StateInProgress:
		return b.InProgress
	case models.StateDone:
		return b.Done
	}
	return nil
}

// Visible filters tasks by role: a developer sees only tasks assigned
// to them, a manager sees everything. A nil user sees nothing.
func Visible(user *models.User, tasks []models.Task) []models.Task {
	if user == nil {
		return nil
	}
	if user.Role != models.RoleDeveloper {
		return tasks
	}

	visible := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedTo == user.ID {
			visible = append(visible, t)
		}
	}
	return visible
}

// Group partitions tasks into columns, preserving input order within
// each column.
func Group(tasks []models.Task) Board {
	var b Board
	for _, t := range tasks {
		switch t.TaskState {
		case models.StateTodo:
			b.Todo = append(b.Todo, t)
		case models.StateInProgress:
			b.InProgress = append(b.InProgress, t)
		case models.StateDone:
			b.Done = append(b.Done, t)
		default:
			b.Unknown = append(b.Unknown, t)
		}
	}
	return b
}

// Derive builds the board for an identity from the shared task
// collection. This is the only grouping path: developers and managers
// both go through the same filter-then-group derivation, never through
// a task list embedded in the profile payload.
func Derive(user *models.User, tasks []models.Task) Board {
	return Group(Visible(user, tasks))
}
