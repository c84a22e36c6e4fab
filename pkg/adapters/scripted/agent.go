// Package scripted implements a deterministic, rule-driven reasoning
// step. It keeps the engine demoable and testable without a language
// model: rules match keywords in the latest user message, and fresh
// observations are relayed back as replies.
package scripted

import (
	"context"
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

// Rule maps keywords to a turn. All keywords must appear
// (case-insensitive) in the latest user message for the rule to fire.
type Rule struct {
	Keywords []string

	// Respond builds the turn from the raw user input. Exactly one of
	// Respond and Turn should be set; Respond wins.
	Respond func(input string) domain.AgentTurn
	Turn    domain.AgentTurn
}

// Agent replays rules against the conversation. Rules are evaluated in
// order; the first match wins.
type Agent struct {
	rules    []Rule
	fallback string
}

// New creates a scripted agent with the given fallback reply.
func New(fallback string, rules ...Rule) *Agent {
	return &Agent{rules: rules, fallback: fallback}
}

// Respond implements ports.Agent.
func (a *Agent) Respond(ctx context.Context, framing string, state *domain.State) (domain.AgentTurn, error) {
	if len(state.Messages) == 0 {
		return domain.ReplyTurn(a.fallback), nil
	}

	// A trailing action observation means we just acted (or were
	// declined): relay the outcome instead of re-matching the user's
	// text. Scope-entry and resumption notes are observations too, but
	// they frame the next turn rather than answer an action.
	last := state.Messages[len(state.Messages)-1]
	if last.Role == domain.RoleTool && answersAction(state, last) {
		return domain.ReplyTurn(last.Content), nil
	}

	input := lastUserInput(state)
	lowered := strings.ToLower(input)
	for _, r := range a.rules {
		if matches(lowered, r.Keywords) {
			if r.Respond != nil {
				return r.Respond(input), nil
			}
			return r.Turn, nil
		}
	}
	return domain.ReplyTurn(a.fallback), nil
}

func matches(input string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if !strings.Contains(input, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// answersAction reports whether obs answers an action call, as opposed
// to a control-transfer note.
func answersAction(state *domain.State, obs domain.Message) bool {
	if obs.ObservationFor == "" {
		return false
	}
	for _, m := range state.Messages {
		for _, call := range m.Actions {
			if call.ID == obs.ObservationFor {
				return true
			}
		}
	}
	return false
}

func lastUserInput(state *domain.State) string {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		if state.Messages[i].Role == domain.RoleUser {
			return state.Messages[i].Content
		}
	}
	return ""
}
