package handlers

import (
	"net/http"

	tt "task_tracker"

	"github.com/gin-gonic/gin"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  task_tracker.StatusResponse
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, tt.StatusResponse{Status: "ok"})
}

// @Summary      Current user with own tasks
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Profile
// @Failure      401  {object}  task_tracker.ErrorResponse
// @Failure      404  {object}  task_tracker.ErrorResponse
// @Router       /api/user/me [get]
func (h *Handler) me(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	profile, err := h.services.Users.Profile(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, "user_profile_failed", err, "user_id", identity.UserID)
		return
	}
	c.JSON(http.StatusOK, profile)
}
