// Package services provides application-level orchestration services
package services

import (
	"sync"
	"time"

	"github.com/foliostack/foliostack-go/internal/domain/faults"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

// Session is the decoded view of an active operator login. The guard only
// observes presence or absence; it never mutates a session.
type Session struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionEvent describes a session lifecycle change delivered to subscribers.
type SessionEvent struct {
	Type    string // signed_in, signed_out, token_refreshed
	Session *Session
}

// SessionSource is the capability the access guard depends on: one-shot
// session retrieval plus change notifications with an unsubscribe handle.
type SessionSource interface {
	GetSession(token string) (*Session, error)
	OnSessionChange(fn func(SessionEvent)) (unsubscribe func())
}

// AuthService issues and validates admin sessions and fans session-change
// events out to subscribers. Sign-out revokes the token for the remainder
// of its lifetime.
type AuthService struct {
	logger        *logging.ChanneledLogger
	jwtSecret     string
	adminPassword string
	sessionTTL    time.Duration

	mu      sync.Mutex
	revoked map[string]struct{}
	subs    map[int]func(SessionEvent)
	nextSub int
}

// NewAuthService creates a new authentication service.
func NewAuthService(jwtSecret, adminPassword string, sessionTTL time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		logger:        logger,
		jwtSecret:     jwtSecret,
		adminPassword: adminPassword,
		sessionTTL:    sessionTTL,
		revoked:       make(map[string]struct{}),
		subs:          make(map[int]func(SessionEvent)),
	}
}

// Login validates the admin credential and issues a session token.
func (a *AuthService) Login(password string) (*Session, error) {
	if !security.VerifyAdminPassword(password, a.adminPassword) {
		a.logger.Auth().Warn("Admin login rejected")
		return nil, &faults.AuthError{Op: "login", Err: errInvalidCredentials}
	}

	token, err := security.GenerateSessionToken("admin", a.jwtSecret, a.sessionTTL)
	if err != nil {
		return nil, &faults.AuthError{Op: "login", Err: err}
	}

	session := &Session{
		Token:     token,
		Role:      "admin",
		ExpiresAt: time.Now().UTC().Add(a.sessionTTL),
	}

	a.logger.Auth().Info("Admin session issued", "role", session.Role, "expiresAt", session.ExpiresAt)
	a.notify(SessionEvent{Type: "signed_in", Session: session})
	return session, nil
}

// GetSession resolves a token to an active session. An invalid, expired, or
// revoked token yields (nil, nil): no session, not an error. Callers treat
// absence as unauthenticated.
func (a *AuthService) GetSession(token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	a.mu.Lock()
	_, isRevoked := a.revoked[token]
	a.mu.Unlock()
	if isRevoked {
		return nil, nil
	}

	claims, err := security.ValidateJWT(token, a.jwtSecret)
	if err != nil {
		return nil, nil
	}

	role, _ := claims["role"].(string)
	exp, _ := claims["exp"].(float64)
	return &Session{
		Token:     token,
		Role:      role,
		ExpiresAt: time.Unix(int64(exp), 0).UTC(),
	}, nil
}

// SignOut revokes the token and notifies subscribers. Revocation of an
// already-absent session is still reported as a sign-out.
func (a *AuthService) SignOut(token string) error {
	if token == "" {
		return &faults.AuthError{Op: "sign-out", Err: errNoSession}
	}

	a.mu.Lock()
	a.revoked[token] = struct{}{}
	a.mu.Unlock()

	a.logger.Auth().Info("Admin session revoked")
	a.notify(SessionEvent{Type: "signed_out", Session: nil})
	return nil
}

// Refresh exchanges a valid session for a new token with a fresh expiry.
func (a *AuthService) Refresh(token string) (*Session, error) {
	current, err := a.GetSession(token)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &faults.AuthError{Op: "refresh", Err: errNoSession}
	}

	fresh, err := security.GenerateSessionToken(current.Role, a.jwtSecret, a.sessionTTL)
	if err != nil {
		return nil, &faults.AuthError{Op: "refresh", Err: err}
	}

	a.mu.Lock()
	a.revoked[token] = struct{}{}
	a.mu.Unlock()

	session := &Session{
		Token:     fresh,
		Role:      current.Role,
		ExpiresAt: time.Now().UTC().Add(a.sessionTTL),
	}
	a.logger.Auth().Info("Admin session refreshed", "expiresAt", session.ExpiresAt)
	a.notify(SessionEvent{Type: "token_refreshed", Session: session})
	return session, nil
}

// OnSessionChange registers a subscriber for session lifecycle events and
// returns its unsubscribe handle.
func (a *AuthService) OnSessionChange(fn func(SessionEvent)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *AuthService) notify(event SessionEvent) {
	a.mu.Lock()
	subs := make([]func(SessionEvent), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
