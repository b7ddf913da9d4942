package services

import (
	"net/url"
	"sync"

	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
)

// GuardState is the access guard's state machine.
type GuardState int

const (
	StateChecking GuardState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s GuardState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// AccessGuard gates a protected region behind a live session check. It
// performs a one-shot session lookup on Mount, then re-evaluates on every
// session-change notification until Close. A session that cannot be
// retrieved is treated as absent: the guard never fails open.
type AccessGuard struct {
	source    SessionSource
	token     string
	loginPath string
	from      string
	logger    *logging.ChanneledLogger

	mu          sync.Mutex
	state       GuardState
	unsubscribe func()
	closed      bool
	changes     chan GuardState
}

// NewAccessGuard creates a guard observing the given token. from is the
// originally requested location, carried through the redirect so the login
// flow can return the operator to it.
func NewAccessGuard(source SessionSource, token, loginPath, from string, logger *logging.ChanneledLogger) *AccessGuard {
	return &AccessGuard{
		source:    source,
		token:     token,
		loginPath: loginPath,
		from:      from,
		logger:    logger,
		state:     StateChecking,
		changes:   make(chan GuardState, 1),
	}
}

// Mount performs the initial session check and subscribes to session-change
// notifications for the guard's lifetime.
func (g *AccessGuard) Mount() {
	g.unsubscribe = g.source.OnSessionChange(func(SessionEvent) {
		g.evaluate()
	})
	g.evaluate()
}

func (g *AccessGuard) evaluate() {
	session, err := g.source.GetSession(g.token)
	if err != nil {
		// Fail closed.
		g.logger.Auth().Warn("Session retrieval failed, treating as unauthenticated", "error", err.Error())
		session = nil
	}

	next := StateUnauthenticated
	if session != nil {
		next = StateAuthenticated
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.state == next {
		return
	}
	g.state = next

	// Latest-state channel: drain the stale value, then send. Holding the
	// lock makes this the only sender, so the capacity-1 send cannot block.
	select {
	case <-g.changes:
	default:
	}
	g.changes <- next
}

// State returns the guard's current state.
func (g *AccessGuard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Changes delivers the most recent state transition. Consumers that only
// care about the latest state can rely on intermediate values being
// coalesced away.
func (g *AccessGuard) Changes() <-chan GuardState {
	return g.changes
}

// RedirectURL returns the login destination carrying the originally
// requested location. Only meaningful while unauthenticated.
func (g *AccessGuard) RedirectURL() string {
	if g.from == "" {
		return g.loginPath
	}
	return g.loginPath + "?from=" + url.QueryEscape(g.from)
}

// Close unsubscribes from session-change notifications. No state
// transitions occur after Close.
func (g *AccessGuard) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	unsub := g.unsubscribe
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
