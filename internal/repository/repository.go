package repository

import (
	"context"
	"database/sql"

	"task_tracker/internal/models"
)

type Users interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	SetRole(ctx context.Context, email, role string) error
}

// Tasks persists tasks. Every per-task read or mutation is scoped to the
// owning user in the same statement.
type Tasks interface {
	ListByUser(ctx context.Context, userID int) ([]models.Task, error)
	GetForUser(ctx context.Context, userID, taskID int) (models.Task, error)
	Create(ctx context.Context, t models.Task) (models.Task, error)
	UpdateForUser(ctx context.Context, userID, taskID int, upd models.TaskUpdate) (models.Task, error)
	DeleteForUser(ctx context.Context, userID, taskID int) error
	ListAllWithOwner(ctx context.Context) ([]models.OwnedTask, error)
}

type Repository struct {
	Users Users
	Tasks Tasks
}

func NewRepository(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		Users: NewUserRepository(db, dialect),
		Tasks: NewTaskRepository(db, dialect),
	}
}
