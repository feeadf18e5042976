// Package validate checks form input before it is sent to the backend.
// Nothing here touches the network or the session store.
package validate

import (
	"regexp"
	"strings"
)

// MinPasswordLength and MinUsernameLength mirror the backend's limits.
const (
	MinPasswordLength = 6
	MinUsernameLength = 3
)

var urlPattern = regexp.MustCompile(`^https?://.+`)

// Error is a rejected form field. Message is shown to the user verbatim.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func fieldError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// URL checks a URL submitted for shortening.
func URL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fieldError("url", "Please enter a URL")
	}
	if !urlPattern.MatchString(s) {
		return fieldError("url", "Please enter a valid URL (must start with http:// or https://)")
	}
	return nil
}

// Registration checks the sign-up form. Required fields are checked
// first, then the password pair, then the backend's field rules.
func Registration(username, email, password, confirm string) error {
	if err := required("username", username); err != nil {
		return err
	}
	if err := required("email", email); err != nil {
		return err
	}
	if err := required("password", password); err != nil {
		return err
	}
	if password != confirm {
		return fieldError("confirm_password", "Passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return fieldError("password", "Password must be at least 6 characters long")
	}
	if len(strings.TrimSpace(username)) < MinUsernameLength {
		return fieldError("username", "Username must be at least 3 characters long")
	}
	if !strings.Contains(email, "@") {
		return fieldError("email", "Please enter a valid email address")
	}
	return nil
}

// Login checks that both credentials were entered.
func Login(username, password string) error {
	if err := required("username", username); err != nil {
		return err
	}
	return required("password", password)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fieldError(field, label(field)+" is required")
	}
	return nil
}

func label(field string) string {
	return strings.ToUpper(field[:1]) + field[1:]
}
