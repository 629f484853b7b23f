package store

import (
	"context"

	"github.com/nhle/taskflow/internal/model"
)

// Store defines the persistence interface for tasks. Implementations must
// guarantee that a single update observes and writes a consistent snapshot
// of one record; last-writer-wins on concurrent updates is acceptable.
type Store interface {
	// CreateTask inserts a new task. A UUID is generated when ID is empty;
	// CreatedAt/UpdatedAt are set by the store. The stored record is
	// returned.
	CreateTask(ctx context.Context, task model.Task) (*model.Task, error)

	// UpdateTask applies a field-level partial update and returns the
	// full current record. Absent patch fields are left untouched;
	// an explicit steps null clears stored suggestions.
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)

	// GetTaskByID retrieves a single task.
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)

	// ListTasks returns all tasks for an owner, newest-created-first.
	ListTasks(ctx context.Context, owner string) ([]model.Task, error)
}
