package domain

// ActionCall is a request from a handler to invoke a named action
// against an external collaborator. It is consumed at most once; its
// terminal state is the observation message that carries its ID.
type ActionCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// TurnKind discriminates the variants of an AgentTurn.
type TurnKind string

const (
	// TurnReply ends the turn with plain text for the user.
	TurnReply TurnKind = "reply"
	// TurnActions requests one or more action calls.
	TurnActions TurnKind = "actions"
	// TurnHandoff requests a dialog stack transfer (push or pop).
	TurnHandoff TurnKind = "handoff"
)

// HandoffKind discriminates the two dialog stack movements.
type HandoffKind string

const (
	// HandoffPush delegates the conversation to a specialized handler.
	HandoffPush HandoffKind = "push"
	// HandoffPop returns control to the calling handler.
	HandoffPop HandoffKind = "pop"
)

// Handoff is a control-transfer request. Its target is the dialog
// stack itself rather than an external collaborator.
type Handoff struct {
	Kind HandoffKind `json:"kind"`

	// Target is the handler to enter. Only meaningful for push.
	Target string `json:"target,omitempty"`

	// Reason is free-text justification kept for audit and for framing
	// the scope-entry message shown to the next handler.
	Reason string `json:"reason,omitempty"`

	// CallID correlates the scope-entry or resumption observation with
	// the turn that requested the transfer.
	CallID string `json:"call_id,omitempty"`
}

// AgentTurn is the tagged union a reasoning step produces for one
// handler turn: a reply, a batch of action calls, or a handoff.
//
// A turn may carry several handoffs; the engine honors the first in
// emission order and discards the rest.
type AgentTurn struct {
	Kind TurnKind `json:"kind"`

	Reply    string       `json:"reply,omitempty"`
	Actions  []ActionCall `json:"actions,omitempty"`
	Handoffs []Handoff    `json:"handoffs,omitempty"`
}

// ReplyTurn builds a plain-reply turn.
func ReplyTurn(text string) AgentTurn {
	return AgentTurn{Kind: TurnReply, Reply: text}
}

// ActionsTurn builds a turn requesting the given calls.
func ActionsTurn(calls ...ActionCall) AgentTurn {
	return AgentTurn{Kind: TurnActions, Actions: calls}
}

// HandoffTurn builds a turn requesting a stack transfer.
func HandoffTurn(h Handoff) AgentTurn {
	return AgentTurn{Kind: TurnHandoff, Handoffs: []Handoff{h}}
}

// Degenerate reports whether the turn carries no usable output at all.
// The orchestrator re-invokes the handler (bounded) when it sees one.
func (t AgentTurn) Degenerate() bool {
	return t.Reply == "" && len(t.Actions) == 0 && len(t.Handoffs) == 0
}
