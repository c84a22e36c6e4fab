package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrDecisionPending is returned when a fresh user turn arrives while a
// sensitive batch is still waiting at the approval gate.
var ErrDecisionPending = errors.New("a decision on the pending action is required before a new message")

// ErrNotFound is returned by collaborators when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrNotOwner is returned by collaborators when the caller does not own
// the record it tried to mutate.
var ErrNotOwner = errors.New("caller does not own this record")

// ErrMissingCaller is returned when an action requires a caller id and
// none is bound to the session.
var ErrMissingCaller = errors.New("no caller id bound to session")

// ErrTooCloseToDeparture is returned when a ticket change targets a
// flight departing inside the rebooking cut-off window.
var ErrTooCloseToDeparture = errors.New("flight departs too soon to reschedule")

// InvalidRouteError is the one fatal error category: a handoff target
// or action name the state machine does not recognize. It aborts the
// turn and surfaces to the hosting layer as a system error, never as
// conversational content.
type InvalidRouteError struct {
	Handler string
	Target  string // unknown handler name, if a handoff
	Action  string // unknown action name, if an action call
}

func (e *InvalidRouteError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("invalid route: handler %q requested unknown action %q", e.Handler, e.Action)
	}
	return fmt.Sprintf("invalid route: handler %q requested handoff to unknown handler %q", e.Handler, e.Target)
}
