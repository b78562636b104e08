package service

import (
	"context"
	"errors"
	"strings"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// TaskInput is the body of a create request.
type TaskInput struct {
	Title       string
	Description *string
}

// TaskService applies validation on top of the owner-scoped task storage.
type TaskService struct {
	tasks repository.Tasks
}

func NewTaskService(tasks repository.Tasks) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) List(ctx context.Context, userID int) ([]models.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *TaskService) Get(ctx context.Context, userID, taskID int) (models.Task, error) {
	if taskID <= 0 {
		return models.Task{}, ErrTaskNotFound
	}
	t, err := s.tasks.GetForUser(ctx, userID, taskID)
	return t, translateTaskErr(err)
}

func (s *TaskService) Create(ctx context.Context, userID int, in TaskInput) (models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Task{}, validationError("title is required")
	}
	return s.tasks.Create(ctx, models.Task{
		Title:       title,
		Description: normalizeDescription(in.Description),
		UserID:      userID,
	})
}

// Update applies only the fields present in upd. A task owned by another
// user is indistinguishable from a missing one.
func (s *TaskService) Update(ctx context.Context, userID, taskID int, upd models.TaskUpdate) (models.Task, error) {
	if upd.IsEmpty() {
		return models.Task{}, validationError("no fields to update")
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return models.Task{}, validationError("title must not be blank")
		}
		upd.Title = &title
	}
	if upd.SetDescription {
		upd.Description = normalizeDescription(upd.Description)
	} else {
		upd.Description = nil
	}
	if taskID <= 0 {
		return models.Task{}, ErrTaskNotFound
	}

	t, err := s.tasks.UpdateForUser(ctx, userID, taskID, upd)
	return t, translateTaskErr(err)
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID int) error {
	if taskID <= 0 {
		return ErrTaskNotFound
	}
	return translateTaskErr(s.tasks.DeleteForUser(ctx, userID, taskID))
}

// ListAll returns every user's tasks with owner details. Callers gate it by role.
func (s *TaskService) ListAll(ctx context.Context) ([]models.OwnedTask, error) {
	return s.tasks.ListAllWithOwner(ctx)
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	v := strings.TrimSpace(*d)
	if v == "" {
		return nil
	}
	return &v
}

func translateTaskErr(err error) error {
	if err != nil && errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
