package service

import (
	"context"
	"errors"
	"fmt"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

type UserService struct {
	users repository.Users
	tasks repository.Tasks
}

func NewUserService(users repository.Users, tasks repository.Tasks) *UserService {
	return &UserService{users: users, tasks: tasks}
}

// Profile returns the user's record and own tasks.
func (s *UserService) Profile(ctx context.Context, userID int) (models.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	if u == nil {
		return models.Profile{}, ErrUserNotFound
	}
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	return models.Profile{User: *u, Tasks: tasks}, nil
}

// SetRole changes a user's role. It is not exposed over HTTP.
func (s *UserService) SetRole(ctx context.Context, email, role string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return validationError("email is required")
	}
	if !models.IsValidRole(role) {
		return validationError("unknown role %q", role)
	}
	if err := s.users.SetRole(ctx, email, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return err
	}
	return nil
}
