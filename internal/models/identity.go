package models

import "time"

// Identity is the caller established from a verified access token.
// It is never re-checked against storage.
type Identity struct {
	UserID    int       `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HasRole reports whether the identity holds one of roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// Profile is the authenticated user together with their tasks.
type Profile struct {
	User  User   `json:"user"`
	Tasks []Task `json:"tasks"`
}
