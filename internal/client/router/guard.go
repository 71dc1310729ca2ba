package router

import (
	"context"

	"github.com/dmitrijs2005/goblog/internal/common"
	"github.com/dmitrijs2005/goblog/internal/logging"
)

// State is where a navigation stands in the guard.
type State int

const (
	StateUnverified State = iota
	StateAuthPending
	StateAuthorized
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateAuthPending:
		return "AUTH_PENDING"
	case StateAuthorized:
		return "AUTHORIZED"
	case StateDenied:
		return "DENIED"
	default:
		return "UNVERIFIED"
	}
}

// Decision is the outcome of one guard check. Redirect and Notice are set
// only for StateDenied.
type Decision struct {
	State    State
	Redirect string
	Notice   string
}

func (d Decision) Allowed() bool { return d.State == StateAuthorized }

// Session is what the guard needs from the session container.
type Session interface {
	IsLoggedIn() bool
	EnsureSession(ctx context.Context) (bool, error)
}

// Credentials reads the stored credential.
type Credentials interface {
	Token(ctx context.Context) (string, error)
}

// Guard decides whether a navigation may proceed. It keeps no state: every
// decision is derived from the stored credential and the session at the
// time of the check.
type Guard struct {
	session Session
	creds   Credentials
	logger  logging.Logger
}

func NewGuard(session Session, creds Credentials, logger logging.Logger) *Guard {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Guard{session: session, creds: creds, logger: logger}
}

// Check runs the guard for target.
func (g *Guard) Check(ctx context.Context, target string) Decision {
	return g.check(ctx, Resolve(target))
}

func (g *Guard) check(ctx context.Context, loc Location) Decision {
	if !loc.Route.RequiresAuth {
		return Decision{State: StateAuthorized}
	}
	denied := Decision{State: StateDenied, Redirect: LoginRedirect(loc.FullPath())}

	token, err := g.creds.Token(ctx)
	if err != nil {
		g.logger.Error(ctx, "read stored credential", "error", err)
		return denied
	}
	if token == "" {
		return denied
	}
	if g.session.IsLoggedIn() {
		return Decision{State: StateAuthorized}
	}

	g.logger.Debug(ctx, "re-authenticating", "state", StateAuthPending, "target", loc.FullPath())
	ok, err := g.session.EnsureSession(ctx)
	if ok {
		return Decision{State: StateAuthorized}
	}
	g.logger.Info(ctx, "re-authentication failed", "error", err)
	denied.Notice = common.SessionExpiredNotice
	return denied
}
