package handlers

import (
	"errors"
	"net/http"

	tt "task_tracker"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// User-facing error messages.
const (
	msgInvalidCredentials = "invalid credentials"
	msgMissingAuth        = "missing or malformed Authorization header"
	msgInvalidToken       = "invalid or expired token"
	msgForbiddenRole      = "forbidden: insufficient role"
	msgEmailTaken         = "email already in use"
	msgTaskNotFound       = "task not found"
	msgUserNotFound       = "user not found"
	msgNotFound           = "not found"
	msgInternal           = "internal server error"
	msgInvalidTaskID      = "invalid task id"
	errInvalidBodyPref    = "invalid request body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.AbortWithStatusJSON(httpCode, tt.ErrorResponse{Error: userMsg})
}

// respondError maps service errors onto HTTP statuses. Anything unrecognised is a 500.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), logKey, err, kv...)
	case errors.Is(err, service.ErrInvalidCredentials):
		h.logAndJSONError(c, http.StatusUnauthorized, msgInvalidCredentials, logKey, err, kv...)
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenExpired):
		h.logAndJSONError(c, http.StatusForbidden, msgInvalidToken, logKey, err, kv...)
	case errors.Is(err, service.ErrConflict):
		h.logAndJSONError(c, http.StatusConflict, msgEmailTaken, logKey, err, kv...)
	case errors.Is(err, service.ErrTaskNotFound):
		h.logAndJSONError(c, http.StatusNotFound, msgTaskNotFound, logKey, err, kv...)
	case errors.Is(err, service.ErrUserNotFound):
		h.logAndJSONError(c, http.StatusNotFound, msgUserNotFound, logKey, err, kv...)
	case errors.Is(err, service.ErrNotFound):
		h.logAndJSONError(c, http.StatusNotFound, msgNotFound, logKey, err, kv...)
	default:
		msg := msgInternal
		if h.exposeInternalErrors {
			msg = err.Error()
		}
		h.logAndJSONError(c, http.StatusInternalServerError, msg, logKey, err, kv...)
	}
}
