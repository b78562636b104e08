package task_tracker

import "time"

// ErrorResponse is the body of every JSON error reply.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"task deleted"`
}

// StatusResponse is returned by the health endpoint.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// RegisterResponse is returned after a successful registration. It never
// carries a token or the password hash.
type RegisterResponse struct {
	Message string `json:"message" example:"user created"`
	ID      int    `json:"id" example:"1"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Message   string    `json:"message" example:"logged in"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
