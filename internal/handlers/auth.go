package handlers

import (
	"net/http"

	tt "task_tracker"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name     string `json:"name" example:"Alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cr3t"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cr3t"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		// optional structured logging
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, tt.ErrorResponse{Error: errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      RegisterRequest  true  "name, email, password"
// @Success      201    {object}  task_tracker.RegisterResponse
// @Failure      400    {object}  task_tracker.ErrorResponse
// @Failure      409    {object}  task_tracker.ErrorResponse
// @Failure      500    {object}  task_tracker.ErrorResponse
// @Router       /api/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), service.SignUpInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		h.respondError(c, "auth_register_failed", err, "email", service.NormalizeEmail(input.Email))
		return
	}

	if h.log != nil {
		h.log.Infow("auth_registered", "user_id", id)
	}
	c.JSON(http.StatusCreated, tt.RegisterResponse{Message: "user created", ID: id})
}

// @Summary      Log in and obtain a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      LoginRequest  true  "email, password"
// @Success      200    {object}  task_tracker.LoginResponse
// @Failure      400    {object}  task_tracker.ErrorResponse
// @Failure      401    {object}  task_tracker.ErrorResponse
// @Failure      500    {object}  task_tracker.ErrorResponse
// @Router       /api/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondError(c, "auth_login_failed", err, "email", service.NormalizeEmail(input.Email))
		return
	}

	c.JSON(http.StatusOK, tt.LoginResponse{
		Message:   "logged in",
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.UTC(),
	})
}
