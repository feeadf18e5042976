// Package auth holds the signed-in identity for the running process and
// the transitions between signed in and anonymous.
//
// A Context is created explicitly and passed to whatever needs it. It
// starts unresolved and becomes authenticated or anonymous once Init has
// read the session store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/minify/internal/api"
	"github.com/me/minify/internal/nav"
	"github.com/me/minify/internal/session"
	"github.com/me/minify/pkg/model"
)

// State is the resolution state of a Context.
type State int

const (
	StateUnresolved State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unresolved"
	}
}

// Context tracks the current user.
type Context struct {
	api    *api.Client
	store  *session.Store
	nav    nav.Navigator
	logger *slog.Logger

	mu    sync.RWMutex
	state State
	user  *model.User
}

// New creates an unresolved Context. Call Init before reading the user.
func New(client *api.Client, store *session.Store, navigator nav.Navigator, logger *slog.Logger) *Context {
	return &Context{
		api:    client,
		store:  store,
		nav:    navigator,
		logger: logger.With("component", "auth"),
		state:  StateUnresolved,
	}
}

// Init resolves the context from the session store. A stored user that
// does not parse is purged. Init never fails from the caller's view;
// anything unusable resolves to anonymous.
func (c *Context) Init(ctx context.Context) {
	user := c.restore(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = user
	if user != nil {
		c.state = StateAuthenticated
	} else {
		c.state = StateAnonymous
	}
}

func (c *Context) restore(ctx context.Context) *model.User {
	sess, err := c.store.Load(ctx)
	if errors.Is(err, session.ErrCorrupt) {
		c.logger.Warn("discarding unreadable stored user", "error", err)
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Error("clear session", "error", err)
		}
		return nil
	}
	if err != nil {
		c.logger.Warn("read session", "error", err)
		return nil
	}
	if sess == nil {
		return nil
	}
	return sess.User
}

// Login authenticates with the backend and stores the returned session.
// On failure the state is unchanged and the API error is returned as is.
func (c *Context) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	resp, err := c.api.Auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, resp.Token, &resp.User, session.DefaultTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	user := resp.User
	c.mu.Lock()
	c.user = &user
	c.state = StateAuthenticated
	c.mu.Unlock()

	c.logger.Info("logged in", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

// Register creates an account and then logs in with the same
// credentials. The session comes from the login, not the registration.
func (c *Context) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	created, err := c.api.Auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	c.logger.Info("registered", "user_id", created.ID, "username", created.Username)
	return c.Login(ctx, model.LoginRequest{Username: req.Username, Password: req.Password})
}

// Logout discards the session locally and navigates home. The backend is
// not contacted.
func (c *Context) Logout(ctx context.Context) {
	c.api.Auth.Logout(ctx)
	c.Reset()
	c.nav.Navigate(nav.Home)
}

// Reset drops the in-memory user without touching the store. It is used
// when the store was already cleared elsewhere, e.g. after a 401.
func (c *Context) Reset() {
	c.mu.Lock()
	c.user = nil
	c.state = StateAnonymous
	c.mu.Unlock()
}

// User returns a copy of the current user, or nil.
func (c *Context) User() *model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// IsAuthenticated reports whether a user is present.
func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

// IsAdmin applies the admin display heuristic to the current user. It
// decides what to show, not what the backend permits.
func (c *Context) IsAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.IsAdmin()
}

// Loading reports whether Init has not completed yet.
func (c *Context) Loading() bool {
	return c.State() == StateUnresolved
}

// State returns the resolution state.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
