package session

import (
	"context"
	"time"
)

// Entry names. They match the cookie names the web client used, so a
// session written by one backend reads the same from any other.
const (
	EntryToken = "token"
	EntryUser  = "user"
)

// Entry is one named value with an expiry. A zero Expires never expires.
type Entry struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitzero"`
}

// Jar persists named entries. Implementations do not interpret values
// and do not enforce expiry; Store does.
type Jar interface {
	// Put writes all entries in one operation, replacing existing ones.
	Put(ctx context.Context, entries ...Entry) error
	// Get returns the entry with the given name, or false if absent.
	Get(ctx context.Context, name string) (Entry, bool, error)
	// Delete removes the named entries. Missing names are ignored.
	Delete(ctx context.Context, names ...string) error
	Close() error
}
