package session

import (
	"context"
	"errors"
	"encoding/json"
	"testing"
	"time"

	"github.com/me/minify/internal/logging"
	"github.com/me/minify/pkg/model"
)

func testUser() *model.User {
	return &model.User{
		ID:        7,
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// jarFactories returns every backend that can run without external services.
func jarFactories(t *testing.T) map[string]func() Jar {
	t.Helper()
	return map[string]func() Jar{
		"memory": func() Jar { return NewMemoryJar() },
		"file": func() Jar {
			return NewFileJar(t.TempDir() + "/session.json")
		},
		"sqlite": func() Jar {
			j, err := NewSQLiteJar(context.Background(), ":memory:", logging.Discard())
			if err != nil {
				t.Fatalf("open sqlite jar: %v", err)
			}
			return j
		},
	}
}

func TestStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	for name, newJar := range jarFactories(t) {
		t.Run(name, func(t *testing.T) {
			st := NewStore(newJar(), logging.Discard())
			defer st.Close()

			user := testUser()
			if err := st.Set(ctx, "tok-123", user, DefaultTTL); err != nil {
				t.Fatalf("Set: %v", err)
			}

			token, userJSON, err := st.Get(ctx)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if token != "tok-123" {
				t.Errorf("expected token 'tok-123', got %q", token)
			}
			var got model.User
			if err := json.Unmarshal([]byte(userJSON), &got); err != nil {
				t.Fatalf("stored user is not JSON: %v (%q)", err, userJSON)
			}
			if got.ID != user.ID || got.Username != user.Username || got.Email != user.Email || !got.CreatedAt.Equal(user.CreatedAt) {
				t.Errorf("expected user %+v, got %+v", *user, got)
			}

			if err := st.Clear(ctx); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			token, userJSON, err = st.Get(ctx)
			if err != nil {
				t.Fatalf("Get after Clear: %v", err)
			}
			if token != "" || userJSON != "" {
				t.Errorf("expected empty store after Clear, got token=%q user=%q", token, userJSON)
			}

			// Clearing an empty store is not an error.
			if err := st.Clear(ctx); err != nil {
				t.Errorf("second Clear: %v", err)
			}
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	st := NewStore(NewMemoryJar(), logging.Discard())

	st.Set(ctx, "first", testUser(), DefaultTTL)
	bob := &model.User{ID: 9, Username: "bob"}
	if err := st.Set(ctx, "second", bob, DefaultTTL); err != nil {
		t.Fatalf("Set: %v", err)
	}

	token, userJSON, _ := st.Get(ctx)
	if token != "second" {
		t.Errorf("expected last writer to win, got token %q", token)
	}
	var got model.User
	json.Unmarshal([]byte(userJSON), &got)
	if got.Username != "bob" {
		t.Errorf("expected user bob, got %q", got.Username)
	}
}

func TestStore_ExpiredEntriesReadAsAbsent(t *testing.T) {
	ctx := context.Background()
	jar := NewMemoryJar()
	st := NewStore(jar, logging.Discard())

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	if err := st.Set(ctx, "tok", testUser(), DefaultTTL); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(DefaultTTL - time.Second)
	if tok, _ := st.Token(ctx); tok != "tok" {
		t.Fatalf("expected token just before expiry, got %q", tok)
	}

	now = now.Add(time.Second)
	token, userJSON, err := st.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "" || userJSON != "" {
		t.Errorf("expected expired entries to be absent, got token=%q user=%q", token, userJSON)
	}
	if _, ok, _ := jar.Get(ctx, EntryToken); ok {
		t.Error("expected expired token to be deleted from the jar")
	}
}

func TestStore_DefaultTTLWhenZero(t *testing.T) {
	ctx := context.Background()
	jar := NewMemoryJar()
	st := NewStore(jar, logging.Discard())
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	st.Set(ctx, "tok", testUser(), 0)

	e, ok, _ := jar.Get(ctx, EntryToken)
	if !ok {
		t.Fatal("expected token entry")
	}
	if want := now.Add(7 * 24 * time.Hour); !e.Expires.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, e.Expires)
	}
}

func TestStore_PartialSession(t *testing.T) {
	ctx := context.Background()
	jar := NewMemoryJar()
	st := NewStore(jar, logging.Discard())

	jar.Put(ctx, Entry{Name: EntryToken, Value: "orphan"})

	token, userJSON, err := st.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "orphan" || userJSON != "" {
		t.Errorf("expected token without user, got token=%q user=%q", token, userJSON)
	}
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()
	jar := NewMemoryJar()
	st := NewStore(jar, logging.Discard())

	sess, err := st.Load(ctx)
	if err != nil || sess != nil {
		t.Fatalf("expected no session, got %+v, %v", sess, err)
	}

	jar.Put(ctx, Entry{Name: EntryToken, Value: "orphan"})
	if sess, _ := st.Load(ctx); sess != nil {
		t.Errorf("expected token-only session to load as nil, got %+v", sess)
	}

	if err := st.Set(ctx, "tok", testUser(), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	sess, err = st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !sess.Valid() || sess.Token != "tok" || sess.User.Username != testUser().Username {
		t.Errorf("unexpected session %+v", sess)
	}

	for _, bad := range []string{"{broken", "null", "{}", `{"id":3}`} {
		jar.Put(ctx, Entry{Name: EntryUser, Value: bad})
		if sess, err := st.Load(ctx); !errors.Is(err, ErrCorrupt) {
			t.Errorf("user %s: expected ErrCorrupt, got %+v, %v", bad, sess, err)
		}
	}
}

type failingDeleteJar struct {
	*MemoryJar
	deletes int
}

func (j *failingDeleteJar) Delete(context.Context, ...string) error {
	j.deletes++
	return errors.New("disk full")
}

func TestStore_ExpiredDeleteFailureStillReadsAbsent(t *testing.T) {
	ctx := context.Background()
	jar := &failingDeleteJar{MemoryJar: NewMemoryJar()}
	st := NewStore(jar, logging.Discard())
	jar.Put(ctx, Entry{Name: EntryToken, Value: "old", Expires: time.Now().Add(-time.Minute)})

	token, err := st.Token(ctx)
	if err != nil || token != "" {
		t.Fatalf("expected absent token without error, got %q, %v", token, err)
	}
	if jar.deletes != 1 {
		t.Errorf("expected one delete attempt, got %d", jar.deletes)
	}
}
