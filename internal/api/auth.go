package api

import (
	"context"

	"github.com/me/minify/pkg/model"
)

var (
	opLogin    = operation{name: "login", fallback: "Login failed"}
	opRegister = operation{name: "register", fallback: "Registration failed"}
)

// AuthService covers the user endpoints and the locally stored identity.
type AuthService struct {
	c *Client
}

// Login exchanges credentials for a token and user record. It does not
// store them; that is the caller's job.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := s.c.post(ctx, opLogin, model.PathLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. The backend returns the user only; a
// session must be obtained with Login.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	var user model.User
	if err := s.c.post(ctx, opRegister, model.PathUsers, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout removes the stored token and user. There is no server call, so
// the token stays valid on the backend until it expires. Failures are
// logged, never returned.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.c.session.Clear(ctx); err != nil {
		s.c.logger.Warn("clear session on logout", "error", err)
	}
}

// CurrentUser returns the stored user record, or nil if there is none.
func (s *AuthService) CurrentUser(ctx context.Context) (*model.User, error) {
	sess, err := s.c.session.Load(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	return sess.User, nil
}

// IsAuthenticated reports whether a token is stored.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	token, err := s.c.session.Token(ctx)
	return err == nil && token != ""
}

// IsAdmin applies the admin display heuristic to the stored user.
func (s *AuthService) IsAdmin(ctx context.Context) bool {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return false
	}
	return user.IsAdmin()
}
