package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	tt "task_tracker"
	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest is the payload of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title" example:"Write report"`
	Description *string `json:"description,omitempty" example:"Quarterly numbers"`
}

// UpdateTaskRequest is the payload of PATCH /api/tasks/{id}. Every field is
// optional; "description": null clears the description.
type UpdateTaskRequest struct {
	Title       *string        `json:"title,omitempty" example:"Write final report"`
	Description optionalString `json:"description" swaggertype:"string" example:"Due Friday"`
	Completed   *bool          `json:"completed,omitempty" example:"true"`
}

// optionalString tells an absent JSON field apart from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (r UpdateTaskRequest) toUpdate() models.TaskUpdate {
	return models.TaskUpdate{
		Title:          r.Title,
		SetDescription: r.Description.Set,
		Description:    r.Description.Value,
		Completed:      r.Completed,
	}
}

// parseTaskID reads the :id path parameter, answering 400 when it is not a positive integer.
func parseTaskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, tt.ErrorResponse{Error: msgInvalidTaskID})
		return 0, false
	}
	return id, true
}

// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Task
// @Failure      401  {object}  task_tracker.ErrorResponse
// @Failure      403  {object}  task_tracker.ErrorResponse
// @Router       /api/tasks [get]
func (h *Handler) listTasks(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	tasks, err := h.services.Tasks.List(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, "tasks_list_failed", err, "user_id", identity.UserID)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      CreateTaskRequest  true  "title, description"
// @Success      201    {object}  models.Task
// @Failure      400    {object}  task_tracker.ErrorResponse
// @Failure      401    {object}  task_tracker.ErrorResponse
// @Router       /api/tasks [post]
func (h *Handler) createTask(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	var input CreateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	task, err := h.services.Tasks.Create(c.Request.Context(), identity.UserID, service.TaskInput{
		Title:       input.Title,
		Description: input.Description,
	})
	if err != nil {
		h.respondError(c, "task_create_failed", err, "user_id", identity.UserID)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// @Summary      Get one own task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "task id"
// @Success      200  {object}  models.Task
// @Failure      400  {object}  task_tracker.ErrorResponse
// @Failure      404  {object}  task_tracker.ErrorResponse
// @Router       /api/tasks/{id} [get]
func (h *Handler) getTask(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.services.Tasks.Get(c.Request.Context(), identity.UserID, id)
	if err != nil {
		h.respondError(c, "task_get_failed", err, "user_id", identity.UserID, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Partially update an own task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int                true  "task id"
// @Param        input  body      UpdateTaskRequest  true  "any of title, description, completed"
// @Success      200    {object}  models.Task
// @Failure      400    {object}  task_tracker.ErrorResponse
// @Failure      404    {object}  task_tracker.ErrorResponse
// @Router       /api/tasks/{id} [patch]
func (h *Handler) updateTask(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	var input UpdateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	task, err := h.services.Tasks.Update(c.Request.Context(), identity.UserID, id, input.toUpdate())
	if err != nil {
		h.respondError(c, "task_update_failed", err, "user_id", identity.UserID, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Delete an own task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "task id"
// @Success      200  {object}  task_tracker.MessageResponse
// @Failure      400  {object}  task_tracker.ErrorResponse
// @Failure      404  {object}  task_tracker.ErrorResponse
// @Router       /api/tasks/{id} [delete]
func (h *Handler) deleteTask(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.services.Tasks.Delete(c.Request.Context(), identity.UserID, id); err != nil {
		h.respondError(c, "task_delete_failed", err, "user_id", identity.UserID, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, tt.MessageResponse{Message: "task deleted"})
}
