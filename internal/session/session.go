// Package session holds the currently authenticated user. The session is
// an explicitly constructed value owned by the composition root and
// passed to the service, never package-level state.
package session

import (
	"errors"

	"moneygement/internal/core"
)

// ErrNoActiveUser is returned when an operation needs the current user
// and nobody is logged in. User-scoped operations must never run against
// an empty session, so hitting this is a contract violation in the
// calling layer, not a user-facing condition.
var ErrNoActiveUser = errors.New("session: no authenticated user")

// Session holds at most one User. Empty at construction, set on login,
// cleared on logout or account deletion. Not safe for concurrent use;
// the whole system assumes a single foreground caller.
type Session struct {
	user *core.User
}

func New() *Session {
	return &Session{}
}

// Set records u as the authenticated user.
func (s *Session) Set(u *core.User) {
	s.user = u
}

// Clear empties the session.
func (s *Session) Clear() {
	s.user = nil
}

// Active reports whether a user is logged in.
func (s *Session) Active() bool {
	return s.user != nil
}

// Current returns the authenticated user or ErrNoActiveUser.
func (s *Session) Current() (*core.User, error) {
	if s.user == nil {
		return nil, ErrNoActiveUser
	}
	return s.user, nil
}
