package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task_tracker/internal/models"
)

type TaskRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewTaskRepository(db *sql.DB, dialect Dialect) *TaskRepository {
	return &TaskRepository{db: db, dialect: dialect}
}

var _ Tasks = (*TaskRepository)(nil)

const (
	taskColumns = `id, title, description, user_id, completed`

	selectTasksByUserSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY id DESC`
	selectTaskForUserSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`
	insertTaskSQL        = `INSERT INTO tasks (title, description, user_id) VALUES (?, ?, ?) RETURNING ` + taskColumns
	deleteTaskForUserSQL = `DELETE FROM tasks WHERE id = ? AND user_id = ?`

	// One statement for every combination of optional fields: a NULL title or
	// completed keeps the stored value, the description flag decides whether
	// the description is replaced (possibly by NULL).
	updateTaskForUserSQL = `UPDATE tasks SET ` +
		`title = COALESCE(?, title), ` +
		`description = CASE WHEN ? THEN ? ELSE description END, ` +
		`completed = COALESCE(?, completed) ` +
		`WHERE id = ? AND user_id = ? RETURNING ` + taskColumns

	selectAllTasksWithOwnerSQL = `SELECT t.id, t.title, t.description, t.user_id, t.completed, u.email, u.name ` +
		`FROM tasks t JOIN users u ON u.id = t.user_id ORDER BY t.id DESC`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner, extra ...any) (models.Task, error) {
	var (
		t    models.Task
		desc sql.NullString
	)
	dest := append([]any{&t.ID, &t.Title, &desc, &t.UserID, &t.Completed}, extra...)
	if err := s.Scan(dest...); err != nil {
		return models.Task{}, err
	}
	if desc.Valid {
		d := desc.String
		t.Description = &d
	}
	return t, nil
}

// ListByUser returns the user's tasks, newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(selectTasksByUserSQL), userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func (r *TaskRepository) GetForUser(ctx context.Context, userID, taskID int) (models.Task, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectTaskForUserSQL), taskID, userID)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("select task %d: %w", taskID, err)
	}
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t models.Task) (models.Task, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertTaskSQL), t.Title, t.Description, t.UserID)
	created, err := scanTask(row)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task for user %d: %w", t.UserID, err)
	}
	return created, nil
}

// UpdateForUser applies upd to the task only if it belongs to userID.
// A task owned by someone else is reported exactly like a missing one.
func (r *TaskRepository) UpdateForUser(ctx context.Context, userID, taskID int, upd models.TaskUpdate) (models.Task, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(updateTaskForUserSQL),
		upd.Title,
		upd.SetDescription,
		upd.Description,
		upd.Completed,
		taskID,
		userID,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("update task %d: %w", taskID, err)
	}
	return t, nil
}

func (r *TaskRepository) DeleteForUser(ctx context.Context, userID, taskID int) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(deleteTaskForUserSQL), taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for task %d: %w", taskID, err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	default:
		return fmt.Errorf("delete task %d: %d rows affected", taskID, n)
	}
}

// ListAllWithOwner returns every task joined with its owner's email and name.
func (r *TaskRepository) ListAllWithOwner(ctx context.Context) ([]models.OwnedTask, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(selectAllTasksWithOwnerSQL))
	if err != nil {
		return nil, fmt.Errorf("list all tasks: %w", err)
	}
	defer rows.Close()

	out := make([]models.OwnedTask, 0, 64)
	for rows.Next() {
		var ot models.OwnedTask
		t, err := scanTask(rows, &ot.OwnerEmail, &ot.OwnerName)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		ot.Task = t
		out = append(out, ot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}
