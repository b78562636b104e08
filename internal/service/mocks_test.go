package service

import (
	"context"

	"task_tracker/internal/models"
)

// mockUsersRepo is a lightweight in-test mock for repository.Users.
type mockUsersRepo struct {
	CreateFn     func(u models.User) (int, error)
	GetByEmailFn func(email string) (*models.User, error)
	GetByIDFn    func(id int) (*models.User, error)
	SetRoleFn    func(email, role string) error

	created  []models.User
	getCalls []string
}

func (m *mockUsersRepo) Create(_ context.Context, u models.User) (int, error) {
	m.created = append(m.created, u)
	return m.CreateFn(u)
}

func (m *mockUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.getCalls = append(m.getCalls, email)
	return m.GetByEmailFn(email)
}

func (m *mockUsersRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	return m.GetByIDFn(id)
}

func (m *mockUsersRepo) SetRole(_ context.Context, email, role string) error {
	return m.SetRoleFn(email, role)
}

// mockTasksRepo is a lightweight in-test mock for repository.Tasks.
type mockTasksRepo struct {
	ListByUserFn       func(userID int) ([]models.Task, error)
	GetForUserFn       func(userID, taskID int) (models.Task, error)
	CreateFn           func(t models.Task) (models.Task, error)
	UpdateForUserFn    func(userID, taskID int, upd models.TaskUpdate) (models.Task, error)
	DeleteForUserFn    func(userID, taskID int) error
	ListAllWithOwnerFn func() ([]models.OwnedTask, error)

	lastCreate models.Task
	lastUpdate *models.TaskUpdate
}

func (m *mockTasksRepo) ListByUser(_ context.Context, userID int) ([]models.Task, error) {
	return m.ListByUserFn(userID)
}

func (m *mockTasksRepo) GetForUser(_ context.Context, userID, taskID int) (models.Task, error) {
	return m.GetForUserFn(userID, taskID)
}

func (m *mockTasksRepo) Create(_ context.Context, t models.Task) (models.Task, error) {
	m.lastCreate = t
	return m.CreateFn(t)
}

func (m *mockTasksRepo) UpdateForUser(_ context.Context, userID, taskID int, upd models.TaskUpdate) (models.Task, error) {
	m.lastUpdate = &upd
	return m.UpdateForUserFn(userID, taskID, upd)
}

func (m *mockTasksRepo) DeleteForUser(_ context.Context, userID, taskID int) error {
	return m.DeleteForUserFn(userID, taskID)
}

func (m *mockTasksRepo) ListAllWithOwner(_ context.Context) ([]models.OwnedTask, error) {
	return m.ListAllWithOwnerFn()
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
