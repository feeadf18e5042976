// Package nav names the client's pages and the hook used to move between them.
package nav

import "sync"

// Routes.
const (
	Home      = "/"
	Login     = "/login"
	Register  = "/register"
	Dashboard = "/dashboard"
	Admin     = "/admin"
)

// Navigator moves the user to another page. In the CLI this tells the
// user which command to run next.
type Navigator interface {
	Navigate(route string)
}

// Func adapts a function to Navigator.
type Func func(route string)

func (f Func) Navigate(route string) { f(route) }

// Recorder is a Navigator that remembers every route it was sent to.
type Recorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *Recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

// Routes returns the routes navigated to, oldest first.
func (r *Recorder) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}

// Last returns the most recent route, or "" if none.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return ""
	}
	return r.routes[len(r.routes)-1]
}
