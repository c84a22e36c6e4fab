package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status indicates whether a session can accept a fresh user turn or
// is suspended at the approval gate.
type Status string

const (
	StatusActive Status = "active"
	// StatusAwaitingDecision means a sensitive batch is checkpointed and
	// the next input must be an approve/reject decision, not a user turn.
	StatusAwaitingDecision Status = "awaiting_decision"
)

// SessionContext is the small bag of facts fetched once when a session
// starts. It is read-only for handlers.
type SessionContext struct {
	// CallerID scopes which records the session may act on. Opaque to
	// the engine; collaborators enforce ownership against it.
	CallerID string `json:"caller_id"`

	// Bookings is a human-readable snapshot of the caller's current
	// bookings, injected into handler framing.
	Bookings string `json:"bookings,omitempty"`

	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// PendingApproval is the gate record persisted while a sensitive batch
// waits for an external decision. It survives process restarts.
type PendingApproval struct {
	ID          string       `json:"id"`
	Handler     string       `json:"handler"`
	Actions     []ActionCall `json:"actions"`
	RequestedAt time.Time    `json:"requested_at"`
}

// State is the full durable snapshot of one conversation session.
type State struct {
	// Messages is the append-only transcript.
	Messages []Message `json:"messages"`

	SessionContext SessionContext `json:"session_context"`

	// DialogStack records nested handler scopes, bottom = primary
	// handler, top = active handler. Never empty.
	DialogStack []string `json:"dialog_stack"`

	Status Status `json:"status"`

	// Pending is non-nil exactly while Status == StatusAwaitingDecision.
	Pending *PendingApproval `json:"pending,omitempty"`
}

// NewState creates a fresh session owned by the primary handler.
func NewState(primary string, sc SessionContext) *State {
	return &State{
		SessionContext: sc,
		DialogStack:    []string{primary},
		Status:         StatusActive,
	}
}

// ActiveHandler returns the top of the dialog stack.
func (s *State) ActiveHandler() string {
	return s.DialogStack[len(s.DialogStack)-1]
}

// PushHandler enters a specialized scope.
func (s *State) PushHandler(name string) {
	s.DialogStack = append(s.DialogStack, name)
}

// PopHandler leaves the current scope and returns the new active
// handler. Popping the sole remaining entry is a no-op: the primary
// handler is never left without a caller.
func (s *State) PopHandler() string {
	if len(s.DialogStack) > 1 {
		s.DialogStack = s.DialogStack[:len(s.DialogStack)-1]
	}
	return s.ActiveHandler()
}

// Append adds messages to the transcript. Appends are monotonic.
func (s *State) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// LastReply returns the content of the most recent assistant message,
// or "" if none exists yet.
func (s *State) LastReply() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant && s.Messages[i].Content != "" {
			return s.Messages[i].Content
		}
	}
	return ""
}

// OpenGate suspends the session on a sensitive batch and returns the
// persisted gate record.
func (s *State) OpenGate(handler string, calls []ActionCall) *PendingApproval {
	s.Pending = &PendingApproval{
		ID:          uuid.NewString(),
		Handler:     handler,
		Actions:     calls,
		RequestedAt: time.Now().UTC(),
	}
	s.Status = StatusAwaitingDecision
	return s.Pending
}

// CloseGate resolves the gate and reactivates the session.
func (s *State) CloseGate() {
	s.Pending = nil
	s.Status = StatusActive
}

// Clone returns a deep copy, isolating the caller from later mutation.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Messages = make([]Message, len(s.Messages))
	copy(next.Messages, s.Messages)
	for i, m := range next.Messages {
		if m.Handoff != nil {
			h := *m.Handoff
			next.Messages[i].Handoff = &h
		}
	}
	next.DialogStack = make([]string, len(s.DialogStack))
	copy(next.DialogStack, s.DialogStack)
	if s.Pending != nil {
		p := *s.Pending
		p.Actions = make([]ActionCall, len(s.Pending.Actions))
		copy(p.Actions, s.Pending.Actions)
		next.Pending = &p
	}
	return &next
}
