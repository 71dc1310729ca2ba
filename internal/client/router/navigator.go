package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/goblog/internal/logging"
)

// maxRedirects bounds redirect chains. The guard only redirects to the
// public login view, so one hop is all a chain ever needs.
const maxRedirects = 4

// Result reports a finished navigation: where it ended and what the guard
// said about the requested target.
type Result struct {
	Location   Location
	Decision   Decision
	Redirected bool
}

// Navigator moves between views, running the guard before each move.
type Navigator struct {
	guard  *Guard
	logger logging.Logger

	mu      sync.RWMutex
	current Location
}

func NewNavigator(guard *Guard, logger logging.Logger) *Navigator {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Navigator{guard: guard, logger: logger, current: Resolve(RootPath)}
}

// Current is the view the application is on.
func (n *Navigator) Current() Location {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Navigate checks target with the guard and moves there, or to the login
// view when the guard denies it.
func (n *Navigator) Navigate(ctx context.Context, target string) Result {
	loc := Resolve(target)
	first := n.guard.check(ctx, loc)
	res := Result{Decision: first}

	d := first
	for hops := 0; !d.Allowed() && hops < maxRedirects; hops++ {
		n.logger.Debug(ctx, "navigation redirected", "from", loc.FullPath(), "to", d.Redirect)
		loc = Resolve(d.Redirect)
		res.Redirected = true
		d = n.guard.check(ctx, loc)
	}
	if !d.Allowed() {
		loc = Resolve(LoginPath)
	}

	n.mu.Lock()
	n.current = loc
	n.mu.Unlock()

	res.Location = loc
	return res
}

// Go is Navigate shaped for callers that only care about errors.
func (n *Navigator) Go(ctx context.Context, target string) error {
	n.Navigate(ctx, target)
	return nil
}

// RedirectToLogin sends the user to sign in, remembering where they were.
// It does nothing when already on the login view. The api adapter calls it
// after a 401.
func (n *Navigator) RedirectToLogin(ctx context.Context) {
	cur := n.Current()
	if cur.Route.Path == LoginPath {
		return
	}
	n.Navigate(ctx, LoginRedirect(cur.FullPath()))
}
