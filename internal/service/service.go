package service

import (
	"context"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, in SignUpInput) (int, error)
	SignIn(ctx context.Context, email, password string) (Token, error)
	ParseToken(accessToken string) (models.Identity, error)
}

// Tasks exposes owner-scoped task operations plus the admin listing.
type Tasks interface {
	List(ctx context.Context, userID int) ([]models.Task, error)
	Get(ctx context.Context, userID, taskID int) (models.Task, error)
	Create(ctx context.Context, userID int, in TaskInput) (models.Task, error)
	Update(ctx context.Context, userID, taskID int, upd models.TaskUpdate) (models.Task, error)
	Delete(ctx context.Context, userID, taskID int) error
	ListAll(ctx context.Context) ([]models.OwnedTask, error)
}

type Users interface {
	Profile(ctx context.Context, userID int) (models.Profile, error)
	SetRole(ctx context.Context, email, role string) error
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Tasks
	Users
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, tokens *TokenManager, hasher *PasswordHasher) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, tokens, hasher),
		Tasks:         NewTaskService(repos.Tasks),
		Users:         NewUserService(repos.Users, repos.Tasks),
	}
}
