package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/me/minify/internal/nav"
)

var routeHints = map[string]string{
	nav.Home:      `run "minify shorten <url>"`,
	nav.Login:     `run "minify login"`,
	nav.Register:  `run "minify register"`,
	nav.Dashboard: `run "minify urls"`,
	nav.Admin:     `run "minify admin"`,
}

// navigator turns page changes into a hint on stderr. A terminal client
// cannot change pages for the user, so it says which command to run.
type navigator struct {
	mu      sync.Mutex
	w       io.Writer
	last    string
	onLogin func()
}

func newNavigator(w io.Writer) *navigator {
	return &navigator{w: w}
}

func (n *navigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if route == n.last {
		return
	}
	n.last = route
	if route == nav.Login && n.onLogin != nil {
		n.onLogin()
	}
	if hint, ok := routeHints[route]; ok {
		fmt.Fprintf(n.w, "→ %s: %s\n", route, hint)
	} else {
		fmt.Fprintf(n.w, "→ %s\n", route)
	}
}

// Last returns the most recent route, or "".
func (n *navigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
