package domain

import "errors"

// Session is the process-wide authentication state: the flag and its durable token.
// It is a value; the manager replaces it whole, never field by field.
type Session struct {
	Authenticated bool
	Token         string // empty when unauthenticated
}

// ErrInconsistent reports a session whose flag disagrees with token presence.
var ErrInconsistent = errors.New("session: authenticated flag disagrees with token presence")

// Validate checks the invariant authenticated == token present.
func (s Session) Validate() error {
	if s.Authenticated != (s.Token != "") {
		return ErrInconsistent
	}
	return nil
}
