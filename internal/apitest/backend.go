// Package apitest provides an in-memory fake of the Minify backend for
// tests. It serves the same routes and error bodies as the real service,
// records every request, and can revoke tokens or force failures.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/me/minify/pkg/model"
)

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          []byte
}

type account struct {
	user     model.User
	password string
}

type failure struct {
	status  int
	message string
}

// Backend is a fake Minify API server.
type Backend struct {
	mu         sync.Mutex
	accounts   map[string]*account // by username
	order      []string            // usernames in creation order
	tokens     map[string]int      // token -> user ID
	urls       []*model.URL
	nextUserID int
	nextURLID  int
	requests   []Request
	failures   map[string]failure // by path

	router chi.Router
	server *httptest.Server
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := NewBackend()
	b.server = httptest.NewServer(b.router)
	t.Cleanup(b.server.Close)
	return b
}

// NewBackend returns a Backend without starting a server; use Handler.
func NewBackend() *Backend {
	b := &Backend{
		accounts:   make(map[string]*account),
		tokens:     make(map[string]int),
		failures:   make(map[string]failure),
		nextUserID: 1,
		nextURLID:  1,
		router:     chi.NewRouter(),
	}
	b.routes()
	return b
}

// URL returns the base URL of the running server.
func (b *Backend) URL() string { return b.server.URL }

// Close stops the server. Later requests fail at the transport level.
func (b *Backend) Close() { b.server.Close() }

// Handler returns the routed handler.
func (b *Backend) Handler() http.Handler { return b.router }

func (b *Backend) routes() {
	r := b.router
	r.Use(middleware.Recoverer)
	r.Use(b.record)
	r.Use(b.injectFailures)
	r.Use(b.rejectUnknownTokens)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/minify", b.handleMinify)
		r.Get("/urls", b.handleListURLs)
		r.Post("/users", b.handleCreateUser)
		r.Post("/users/login", b.handleLogin)
		r.Get("/analytics/overview", b.handleOverview)
		r.Get("/analytics/popular", b.handlePopular)
		r.Get("/analytics/timeframe/{period}", b.handleTimeframe)
	})
}

// --- test controls ---

// AddUser creates an account directly and returns its user record.
func (b *Backend) AddUser(username, email, password string) model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, email, password)
}

func (b *Backend) addUserLocked(username, email, password string) model.User {
	u := model.User{
		ID:        b.nextUserID,
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	b.nextUserID++
	b.accounts[username] = &account{user: u, password: password}
	b.order = append(b.order, username)
	return u
}

// IssueToken returns a valid token for userID without a login call.
func (b *Backend) IssueToken(userID int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueTokenLocked(userID)
}

func (b *Backend) issueTokenLocked(userID int) string {
	token := "tok_" + uuid.NewString()
	b.tokens[token] = userID
	return token
}

// RevokeAll invalidates every issued token, as if they had expired.
func (b *Backend) RevokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]int)
}

// Fail makes every request to path answer with status and an error body.
// An empty message sends a body without an error field.
func (b *Backend) Fail(path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = failure{status: status, message: message}
}

// Click adds n clicks to the URL with the given short code.
func (b *Backend) Click(shortCode string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.urls {
		if u.ShortCode == shortCode {
			u.Clicks += n
			return
		}
	}
}

// Requests returns all recorded requests, oldest first.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// RequestsTo returns the recorded requests whose path equals path.
func (b *Backend) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// --- middleware ---

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		f, ok := b.failures[r.URL.Path]
		b.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.message == "" {
			writeJSON(w, f.status, map[string]string{})
			return
		}
		writeError(w, f.message, f.status)
	})
}

// rejectUnknownTokens answers 401 when a bearer token is sent that the
// backend did not issue or has revoked. Requests without a token pass.
func (b *Backend) rejectUnknownTokens(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(auth, "Bearer ")
		b.mu.Lock()
		_, known := b.tokens[token]
		b.mu.Unlock()
		if !ok || !known {
			writeError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- handlers ---

func (b *Backend) handleMinify(w http.ResponseWriter, r *http.Request) {
	var req model.MinifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		writeError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	now := time.Now().UTC().Truncate(time.Second)
	rec := &model.URL{
		ID:          b.nextURLID,
		ShortCode:   shortCode(),
		OriginalURL: req.URL,
		UserID:      req.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.nextURLID++
	b.urls = append(b.urls, rec)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, model.MinifyResponse{
		ShortURL:    "http://" + r.Host + "/" + rec.ShortCode,
		OriginalURL: rec.OriginalURL,
		ShortCode:   rec.ShortCode,
	})
}

func (b *Backend) handleListURLs(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("user_id")
	if idStr == "" {
		writeError(w, "User ID is required", http.StatusBadRequest)
		return
	}
	userID, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	var out []model.URL // stays nil when empty, encoded as null like the real backend
	for _, u := range b.urls {
		if u.UserID != nil && *u.UserID == userID {
			out = append(out, *u)
		}
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	switch {
	case len(req.Username) < 3 || len(req.Username) > 50:
		writeError(w, "username must be between 3 and 50 characters", http.StatusBadRequest)
		return
	case !strings.Contains(req.Email, "@"):
		writeError(w, "email must be a valid email address", http.StatusBadRequest)
		return
	case len(req.Password) < 6:
		writeError(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	if _, exists := b.accounts[req.Username]; exists {
		b.mu.Unlock()
		writeError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}
	u := b.addUserLocked(req.Username, req.Email, req.Password)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, u)
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	acct, ok := b.accounts[req.Username]
	if !ok || acct.password != req.Password {
		b.mu.Unlock()
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	token := b.issueTokenLocked(acct.user.ID)
	user := acct.user
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, User: user})
}

func (b *Backend) handleOverview(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := model.OverviewStats{
		TotalUsers: len(b.accounts),
		TotalURLs:  len(b.urls),
	}
	for _, u := range b.urls {
		stats.TotalClicks += u.Clicks
	}
	for i := len(b.order) - 1; i >= 0 && len(stats.RecentUsers) < 5; i-- {
		stats.RecentUsers = append(stats.RecentUsers, b.order[i])
	}
	for _, p := range model.Periods {
		s := b.timeframeLocked(p)
		switch p {
		case model.PeriodHour:
			stats.TimeframeData.Hour = s
		case model.PeriodDay:
			stats.TimeframeData.Day = s
		case model.PeriodMonth:
			stats.TimeframeData.Month = s
		case model.PeriodYear:
			stats.TimeframeData.Year = s
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (b *Backend) handlePopular(w http.ResponseWriter, r *http.Request) {
	limit := model.DefaultPopularLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	b.mu.Lock()
	sorted := append([]*model.URL(nil), b.urls...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Clicks > sorted[j].Clicks })
	out := []model.PopularURL{}
	for _, u := range sorted {
		if len(out) == limit {
			break
		}
		p := model.PopularURL{ShortCode: u.ShortCode, OriginalURL: u.OriginalURL, Clicks: u.Clicks}
		if u.UserID != nil {
			p.Username = b.usernameLocked(*u.UserID)
		}
		out = append(out, p)
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleTimeframe(w http.ResponseWriter, r *http.Request) {
	period, err := model.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil || string(period) != chi.URLParam(r, "period") {
		writeError(w, "Invalid period. Use: hour, day, month, year", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	stats := b.timeframeLocked(period)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

// timeframeLocked treats everything as recent: the fake has no clock-based
// bucketing, so every period reports the same totals.
func (b *Backend) timeframeLocked(p model.Period) *model.TimeframeStats {
	s := &model.TimeframeStats{Period: string(p), URLCount: len(b.urls)}
	owners := make(map[int]bool)
	for _, u := range b.urls {
		s.ClickCount += u.Clicks
		if u.UserID != nil {
			owners[*u.UserID] = true
		}
	}
	s.UniqueUsers = len(owners)
	return s
}

func (b *Backend) usernameLocked(id int) string {
	for _, a := range b.accounts {
		if a.user.ID == id {
			return a.user.Username
		}
	}
	return ""
}

func shortCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, model.ErrorBody{Error: message})
}
