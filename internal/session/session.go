// Package session persists the authenticated identity (bearer token and
// user record) across runs of the client.
//
// The store is a durable mirror with a fixed expiry set at login time. It
// never validates the token or checks its freshness against the server;
// the backend is the sole arbiter of validity.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/minify/pkg/model"
)

// DefaultTTL is the lifetime of a persisted session, matching the 7-day
// token lifetime the backend issues at login.
const DefaultTTL = 7 * 24 * time.Hour

// ErrCorrupt is returned by Load when the stored user entry does not parse.
var ErrCorrupt = errors.New("stored user is unreadable")

// Store reads and writes the token and user entries on a Jar.
// There is no locking across processes: last writer wins.
type Store struct {
	jar    Jar
	logger *slog.Logger
	now    func() time.Time
}

// NewStore wraps a Jar.
func NewStore(jar Jar, logger *slog.Logger) *Store {
	return &Store{
		jar:    jar,
		logger: logger.With("component", "session"),
		now:    time.Now,
	}
}

// Set persists the token and the JSON-serialized user, both expiring
// after ttl. A ttl <= 0 uses DefaultTTL.
func (s *Store) Set(ctx context.Context, token string, user *model.User, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	expires := s.now().Add(ttl)

	s.logger.Debug("set session", "user_id", user.ID, "expires", expires)
	if err := s.jar.Put(ctx,
		Entry{Name: EntryToken, Value: token, Expires: expires},
		Entry{Name: EntryUser, Value: string(userJSON), Expires: expires},
	); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the persisted token and raw user JSON. Either is empty when
// absent or expired; expired entries are deleted on read.
func (s *Store) Get(ctx context.Context) (token, userJSON string, err error) {
	token, err = s.value(ctx, EntryToken)
	if err != nil {
		return "", "", err
	}
	userJSON, err = s.value(ctx, EntryUser)
	if err != nil {
		return "", "", err
	}
	return token, userJSON, nil
}

// Load returns the persisted session, or nil when either half is missing.
// A user entry that does not parse, or parses to a record without an ID
// or username, yields an error wrapping ErrCorrupt; the
// entries are left in place for the caller to clear.
func (s *Store) Load(ctx context.Context) (*model.Session, error) {
	token, userJSON, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" || userJSON == "" {
		return nil, nil
	}
	var user *model.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	// null or {} decode without error but name nobody.
	if user == nil || user.ID == 0 || user.Username == "" {
		return nil, fmt.Errorf("%w: no user id or username", ErrCorrupt)
	}
	return &model.Session{Token: token, User: user}, nil
}

// Token returns the persisted bearer token, or "" if there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.value(ctx, EntryToken)
}

// Clear removes both entries unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	s.logger.Debug("clear session")
	if err := s.jar.Delete(ctx, EntryToken, EntryUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close releases the underlying jar.
func (s *Store) Close() error {
	return s.jar.Close()
}

func (s *Store) value(ctx context.Context, name string) (string, error) {
	e, ok, err := s.jar.Get(ctx, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if !ok {
		return "", nil
	}
	if !e.Expires.IsZero() && !s.now().Before(e.Expires) {
		s.logger.Debug("entry expired", "name", name, "expired", e.Expires)
		if err := s.jar.Delete(ctx, name); err != nil {
			s.logger.Warn("delete expired entry", "name", name, "error", err)
		}
		return "", nil
	}
	return e.Value, nil
}
