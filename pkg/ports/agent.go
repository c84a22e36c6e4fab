package ports

import (
	"context"

	"github.com/aretw0/concierge/pkg/domain"
)

// Agent is the opaque reasoning step backing one handler. Given the
// conversation so far it produces exactly one AgentTurn: a reply, a
// batch of action calls, or a handoff.
//
// Implementations must treat the state as read-only. The orchestrator
// owns all mutation: appending messages, moving the dialog stack, and
// executing requested actions.
type Agent interface {
	// Respond maps conversation state to the handler's next turn.
	// framing is the static scope description configured for the
	// handler, already enriched with the session context.
	Respond(ctx context.Context, framing string, state *domain.State) (domain.AgentTurn, error)
}

// AgentFunc adapts a plain function to the Agent interface.
type AgentFunc func(ctx context.Context, framing string, state *domain.State) (domain.AgentTurn, error)

// Respond implements Agent.
func (f AgentFunc) Respond(ctx context.Context, framing string, state *domain.State) (domain.AgentTurn, error) {
	return f(ctx, framing, state)
}
