package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/me/minify/internal/api"
	"github.com/me/minify/internal/apitest"
	"github.com/me/minify/internal/logging"
	"github.com/me/minify/internal/nav"
	"github.com/me/minify/internal/session"
	"github.com/me/minify/pkg/model"
)

type fixture struct {
	backend *apitest.Backend
	store   *session.Store
	nav     *nav.Recorder
	auth    *Context
}

func newFixture(t *testing.T, jar session.Jar) *fixture {
	t.Helper()
	f := &fixture{
		backend: apitest.New(t),
		store:   session.NewStore(jar, logging.Discard()),
		nav:     &nav.Recorder{},
	}
	client := api.New(f.backend.URL(), f.store, f.nav, logging.Discard())
	f.auth = New(client, f.store, f.nav, logging.Discard())
	return f
}

func TestInit_EmptyStoreIsAnonymous(t *testing.T) {
	f := newFixture(t, session.NewMemoryJar())
	if !f.auth.Loading() || f.auth.State() != StateUnresolved {
		t.Fatalf("expected unresolved before Init, got %s", f.auth.State())
	}

	f.auth.Init(context.Background())

	if f.auth.Loading() {
		t.Error("expected Loading false after Init")
	}
	if f.auth.State() != StateAnonymous || f.auth.IsAuthenticated() || f.auth.User() != nil {
		t.Errorf("expected anonymous, got %s user=%+v", f.auth.State(), f.auth.User())
	}
}

func TestInit_CorruptUserIsPurged(t *testing.T) {
	ctx := context.Background()
	jar := session.NewMemoryJar()
	jar.Put(ctx,
		session.Entry{Name: session.EntryToken, Value: "tok"},
		session.Entry{Name: session.EntryUser, Value: "{not json"},
	)
	f := newFixture(t, jar)

	f.auth.Init(ctx)

	if f.auth.State() != StateAnonymous {
		t.Fatalf("expected anonymous, got %s", f.auth.State())
	}
	for _, name := range []string{session.EntryToken, session.EntryUser} {
		if _, ok, _ := jar.Get(ctx, name); ok {
			t.Errorf("expected %s entry purged", name)
		}
	}
}

func TestInit_NullUserIsAnonymous(t *testing.T) {
	ctx := context.Background()
	jar := session.NewMemoryJar()
	jar.Put(ctx,
		session.Entry{Name: session.EntryToken, Value: "t"},
		session.Entry{Name: session.EntryUser, Value: "null"},
	)
	f := newFixture(t, jar)

	f.auth.Init(ctx)

	if f.auth.State() != StateAnonymous || f.auth.User() != nil {
		t.Fatalf("expected anonymous, got %s user=%+v", f.auth.State(), f.auth.User())
	}
	if _, ok, _ := jar.Get(ctx, session.EntryToken); ok {
		t.Error("expected token purged along with the null user")
	}
}

func TestInit_CorruptFileIsRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, session.NewFileJar(path))

	f.auth.Init(context.Background())

	if f.auth.State() != StateAnonymous {
		t.Fatalf("expected anonymous, got %s", f.auth.State())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected corrupt session file removed, stat err = %v", err)
	}
}

func TestInit_TokenWithoutUserIsAnonymous(t *testing.T) {
	ctx := context.Background()
	jar := session.NewMemoryJar()
	jar.Put(ctx, session.Entry{Name: session.EntryToken, Value: "tok"})
	f := newFixture(t, jar)

	f.auth.Init(ctx)

	if f.auth.IsAuthenticated() {
		t.Error("expected anonymous with a token but no user")
	}
}

func TestLogin_ThenReloadRestoresUser(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	f := newFixture(t, session.NewFileJar(path))
	f.backend.AddUser("alice", "alice@example.com", "secret1")
	f.auth.Init(ctx)

	user, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "alice" || !f.auth.IsAuthenticated() {
		t.Fatalf("expected alice authenticated, got %+v", user)
	}

	// A new process reading the same file.
	store := session.NewStore(session.NewFileJar(path), logging.Discard())
	client := api.New(f.backend.URL(), store, f.nav, logging.Discard())
	reloaded := New(client, store, f.nav, logging.Discard())
	reloaded.Init(ctx)

	got := reloaded.User()
	if reloaded.State() != StateAuthenticated || got == nil {
		t.Fatalf("expected authenticated after reload, got %s", reloaded.State())
	}
	if got.ID != user.ID || got.Username != user.Username || got.Email != user.Email || !got.CreatedAt.Equal(user.CreatedAt) {
		t.Errorf("expected %+v after reload, got %+v", user, got)
	}
}

func TestLogin_FailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, session.NewMemoryJar())
	f.backend.AddUser("alice", "alice@example.com", "secret1")
	f.auth.Init(ctx)

	_, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "nope"})
	if api.Message(err) != "Invalid credentials" {
		t.Fatalf("expected 'Invalid credentials', got %v", err)
	}
	if f.auth.IsAuthenticated() {
		t.Error("expected still anonymous after failed login")
	}
	if token, _ := f.store.Token(ctx); token != "" {
		t.Errorf("expected no stored token, got %q", token)
	}
}

func TestRegister_LogsInWithSameCredentials(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, session.NewMemoryJar())
	f.auth.Init(ctx)

	user, err := f.auth.Register(ctx, model.CreateUserRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "bob" || !f.auth.IsAuthenticated() {
		t.Fatalf("expected bob authenticated, got %+v", user)
	}

	reqs := f.backend.Requests()
	if len(reqs) != 2 || reqs[0].Path != model.PathUsers || reqs[1].Path != model.PathLogin {
		t.Fatalf("expected register then login, got %+v", reqs)
	}
	token, _ := f.store.Token(ctx)
	if token == "" {
		t.Fatal("expected a stored token from the login response")
	}
	// The stored token must be one the backend issued at login.
	if _, err := f.auth.api.URLs.ListByUser(ctx, user.ID); err != nil {
		t.Errorf("expected stored token to be accepted, got %v", err)
	}
}

func TestRegister_DuplicateLeavesAnonymous(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, session.NewMemoryJar())
	f.backend.AddUser("bob", "bob@example.com", "secret1")
	f.auth.Init(ctx)

	_, err := f.auth.Register(ctx, model.CreateUserRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if f.auth.IsAuthenticated() {
		t.Error("expected anonymous after failed registration")
	}
	if n := len(f.backend.RequestsTo(model.PathLogin)); n != 0 {
		t.Errorf("expected no login attempt, got %d", n)
	}
}

func TestLogout_WhileBackendDown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, session.NewMemoryJar())
	f.backend.AddUser("alice", "alice@example.com", "secret1")
	f.auth.Init(ctx)
	if _, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	f.backend.Close()

	f.auth.Logout(ctx)

	if f.auth.IsAuthenticated() || f.auth.State() != StateAnonymous {
		t.Errorf("expected anonymous after logout, got %s", f.auth.State())
	}
	if token, userJSON, _ := f.store.Get(ctx); token != "" || userJSON != "" {
		t.Errorf("expected empty store, got token=%q user=%q", token, userJSON)
	}
	if f.nav.Last() != nav.Home {
		t.Errorf("expected navigation to %s, got %q", nav.Home, f.nav.Last())
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, session.NewMemoryJar())
	f.backend.AddUser("admin", "root@example.com", "secret1")
	f.backend.AddUser("carol", "carol@example.com", "secret1")
	f.auth.Init(ctx)

	if f.auth.IsAdmin() {
		t.Error("expected IsAdmin false while anonymous")
	}
	f.auth.Login(ctx, model.LoginRequest{Username: "carol", Password: "secret1"})
	if f.auth.IsAdmin() {
		t.Error("expected carol not to be admin")
	}
	f.auth.Login(ctx, model.LoginRequest{Username: "admin", Password: "secret1"})
	if !f.auth.IsAdmin() {
		t.Error("expected admin username to be admin")
	}
}

func TestUser_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, session.NewMemoryJar())
	f.backend.AddUser("alice", "alice@example.com", "secret1")
	f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret1"})

	u := f.auth.User()
	u.Username = "mallory"
	if f.auth.User().Username != "alice" {
		t.Error("expected User to return a copy")
	}
}
