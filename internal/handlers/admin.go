package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List every user's tasks (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.OwnedTask
// @Failure      401  {object}  task_tracker.ErrorResponse
// @Failure      403  {object}  task_tracker.ErrorResponse
// @Router       /api/admin/all-tasks [get]
func (h *Handler) allTasks(c *gin.Context) {
	tasks, err := h.services.Tasks.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, "admin_list_tasks_failed", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}
