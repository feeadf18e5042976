package validate

import (
	"errors"
	"testing"
)

func TestURL(t *testing.T) {
	tests := []struct {
		in      string
		wantMsg string
	}{
		{"https://example.com/foo", ""},
		{"http://a", ""},
		{"  https://example.com  ", ""},
		{"", "Please enter a URL"},
		{"   ", "Please enter a URL"},
		{"example.com", "Please enter a valid URL (must start with http:// or https://)"},
		{"ftp://example.com", "Please enter a valid URL (must start with http:// or https://)"},
		{"https://", "Please enter a valid URL (must start with http:// or https://)"},
	}
	for _, tt := range tests {
		err := URL(tt.in)
		if tt.wantMsg == "" {
			if err != nil {
				t.Errorf("URL(%q): expected nil, got %v", tt.in, err)
			}
			continue
		}
		if err == nil || err.Error() != tt.wantMsg {
			t.Errorf("URL(%q): expected %q, got %v", tt.in, tt.wantMsg, err)
		}
	}
}

func TestRegistration(t *testing.T) {
	tests := []struct {
		name                      string
		username, email, pw, conf string
		wantField, wantMsg        string
	}{
		{"ok", "alice", "alice@example.com", "secret1", "secret1", "", ""},
		{"mismatch", "alice", "alice@example.com", "secret1", "secret2", "confirm_password", "Passwords do not match"},
		{"short password", "alice", "alice@example.com", "abc", "abc", "password", "Password must be at least 6 characters long"},
		{"short username", "al", "alice@example.com", "secret1", "secret1", "username", "Username must be at least 3 characters long"},
		{"bad email", "alice", "alice.example.com", "secret1", "secret1", "email", "Please enter a valid email address"},
		{"missing username", "", "alice@example.com", "secret1", "secret1", "username", "Username is required"},
		{"missing email", "alice", "", "secret1", "secret1", "email", "Email is required"},
		{"missing password", "alice", "alice@example.com", "", "", "password", "Password is required"},
		{"mismatch before length", "alice", "alice@example.com", "abc", "abd", "confirm_password", "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Registration(tt.username, tt.email, tt.pw, tt.conf)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if verr.Field != tt.wantField || verr.Message != tt.wantMsg {
				t.Errorf("expected %s: %q, got %s: %q", tt.wantField, tt.wantMsg, verr.Field, verr.Message)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	if err := Login("alice", "pw"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Login("", "pw"); err == nil || err.Error() != "Username is required" {
		t.Errorf("expected username required, got %v", err)
	}
	if err := Login("alice", " "); err == nil || err.Error() != "Password is required" {
		t.Errorf("expected password required, got %v", err)
	}
}
