package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskflow/internal/model"
)

// CreateTask inserts a new task. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateTask(
	ctx context.Context,
	task model.Task,
) (*model.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, fmt.Errorf("task title must not be empty")
	}
	if strings.TrimSpace(task.Owner) == "" {
		return nil, fmt.Errorf("task owner must not be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	steps, err := marshalSteps(task.Steps)
	if err != nil {
		return nil, fmt.Errorf("marshaling steps for task %s: %w", task.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, user_identifier, title, steps, completed,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Owner, task.Title, steps, boolToInt(task.Completed),
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return &task, nil
}

// UpdateTask applies a partial update to a task and returns the full
// current record. Only fields present in the patch are touched.
func (s *SQLiteStore) UpdateTask(
	ctx context.Context,
	id string,
	patch model.TaskPatch,
) (*model.Task, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("no valid fields to update")
	}

	var sets []string
	var args []interface{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("task title must not be empty")
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*patch.Completed))
	}
	if patch.StepsSet {
		steps, err := marshalSteps(patch.Steps)
		if err != nil {
			return nil, fmt.Errorf("marshaling steps for task %s: %w", id, err)
		}
		sets = append(sets, "steps = ?")
		args = append(args, steps)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update of task %s: %w", id, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("task %s not found", id)
	}

	return s.GetTaskByID(ctx, id)
}

// GetTaskByID retrieves a single task by ID.
func (s *SQLiteStore) GetTaskByID(
	ctx context.Context,
	id string,
) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM tasks WHERE id = ?", id)

	task, err := scanTaskRow(row)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	return &task, nil
}

// ListTasks returns all tasks for an owner, newest-created-first.
// Inserts within the same timestamp keep insertion order via rowid.
func (s *SQLiteStore) ListTasks(
	ctx context.Context,
	owner string,
) ([]model.Task, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT * FROM tasks
		WHERE user_identifier = ?
		ORDER BY created_at DESC, rowid DESC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// marshalSteps encodes a step list for the nullable steps column.
// A nil slice maps to SQL NULL; an empty non-nil slice is stored as "[]".
func marshalSteps(steps []string) (interface{}, error) {
	if steps == nil {
		return nil, nil
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// unmarshalSteps decodes the nullable steps column.
func unmarshalSteps(raw sql.NullString) ([]string, error) {
	if !raw.Valid {
		return nil, nil
	}
	var steps []string
	if err := json.Unmarshal([]byte(raw.String), &steps); err != nil {
		return nil, fmt.Errorf("unmarshaling steps: %w", err)
	}
	if steps == nil {
		steps = []string{}
	}
	return steps, nil
}

// scanTask scans a task row from a sqlx.Rows result set.
func scanTask(rows *sqlx.Rows) (model.Task, error) {
	var (
		task         model.Task
		steps        sql.NullString
		completedInt int
	)

	err := rows.Scan(
		&task.ID, &task.Owner, &task.Title, &steps, &completedInt,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.Completed = completedInt != 0
	task.Steps, err = unmarshalSteps(steps)
	if err != nil {
		return model.Task{}, err
	}

	return task, nil
}

// scanTaskRow scans a single task row from a sqlx.Row.
func scanTaskRow(row *sqlx.Row) (model.Task, error) {
	var (
		task         model.Task
		steps        sql.NullString
		completedInt int
	)

	err := row.Scan(
		&task.ID, &task.Owner, &task.Title, &steps, &completedInt,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	task.Completed = completedInt != 0
	task.Steps, err = unmarshalSteps(steps)
	if err != nil {
		return model.Task{}, err
	}

	return task, nil
}
