package model

import (
	"strings"
	"time"
)

// User is the account record returned by the backend.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the body of POST /api/v1/users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the user it was issued for.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserRequest is the body of POST /api/v1/users.
// Registration returns the created User; it does not issue a token.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Values that mark a user as an administrator for display purposes.
const (
	AdminUsername    = "admin"
	AdminEmailMarker = "admin"
)

// IsAdmin reports whether the user looks like an administrator: the
// username is "admin" or the email contains "admin".
//
// This is a display hint only. It must never gate access; the backend
// makes the real authorization decision.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Username == AdminUsername || strings.Contains(u.Email, AdminEmailMarker)
}
