package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in the append-only conversation transcript.
// Once appended a message is never mutated or removed.
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`

	// Handler records which handler authored the message. Empty for user turns.
	Handler string `json:"handler,omitempty"`

	Content string `json:"content,omitempty"`

	// Actions carries the side-effects requested by an assistant turn.
	Actions []ActionCall `json:"actions,omitempty"`

	// Handoff carries a control-transfer request instead of actions.
	Handoff *Handoff `json:"handoff,omitempty"`

	// ObservationFor links a tool message back to the ActionCall it answers.
	ObservationFor string `json:"observation_for,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage wraps raw user text in a transcript entry.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewAssistantMessage records a plain reply from a handler.
func NewAssistantMessage(handler, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Handler:   handler,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewActionMessage records an assistant turn that requests side-effects.
func NewActionMessage(handler string, calls []ActionCall) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Handler:   handler,
		Actions:   calls,
		CreatedAt: time.Now().UTC(),
	}
}

// NewHandoffMessage records an assistant turn that requests a control
// transfer instead of a reply or actions.
func NewHandoffMessage(handler string, h Handoff) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Handler:   handler,
		Handoff:   &h,
		CreatedAt: time.Now().UTC(),
	}
}

// NewObservation records the outcome of one action call. Exactly one
// observation is appended per call, success or failure alike.
func NewObservation(handler, callID, content string) Message {
	return Message{
		ID:             uuid.NewString(),
		Role:           RoleTool,
		Handler:        handler,
		Content:        content,
		ObservationFor: callID,
		CreatedAt:      time.Now().UTC(),
	}
}
