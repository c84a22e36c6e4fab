package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/domain"
)

// drive runs the handler loop until a plain reply ends the turn or a
// sensitive batch opens the approval gate. Safe actions and handoffs
// keep the loop going: control always lands back on a handler that has
// new observations to reason over.
func (e *Engine) drive(ctx context.Context, sessionID string, st *domain.State) (*TurnResult, error) {
	for hop := 0; hop < e.turnHopLimit; hop++ {
		name := st.ActiveHandler()
		h, ok := e.handlers.Get(name)
		if !ok {
			return nil, &domain.InvalidRouteError{Handler: name, Target: name}
		}
		e.emitTurn(ctx, e.hooks.OnTurnStart, domain.EventTurnStart, sessionID, name)

		turn, err := e.invokeAgent(ctx, h, st)
		if err != nil {
			return nil, err
		}

		switch {
		case len(turn.Handoffs) > 0:
			if err := e.transfer(ctx, sessionID, st, h, turn.Handoffs); err != nil {
				return nil, err
			}
			e.emitTurn(ctx, e.hooks.OnTurnEnd, domain.EventTurnEnd, sessionID, h.Name)

		case len(turn.Actions) > 0:
			res, suspended, err := e.dispatch(ctx, sessionID, st, h, turn.Actions)
			if err != nil {
				return nil, err
			}
			e.emitTurn(ctx, e.hooks.OnTurnEnd, domain.EventTurnEnd, sessionID, h.Name)
			if suspended {
				return res, nil
			}

		default:
			st.Append(domain.NewAssistantMessage(h.Name, turn.Reply))
			e.emitTurn(ctx, e.hooks.OnTurnEnd, domain.EventTurnEnd, sessionID, h.Name)
			return &TurnResult{
				SessionID: sessionID,
				Status:    st.Status,
				Reply:     turn.Reply,
			}, nil
		}
	}
	return nil, fmt.Errorf("turn exceeded %d handler transitions without a reply", e.turnHopLimit)
}

// transfer applies the first handoff of the turn to the dialog stack
// and frames the receiving handler. Extra handoffs in the same turn are
// discarded with a warning.
func (e *Engine) transfer(ctx context.Context, sessionID string, st *domain.State, h registry.Handler, handoffs []domain.Handoff) error {
	hd := handoffs[0]
	if len(handoffs) > 1 {
		e.logger.Warn("discarding extra handoffs in one turn",
			"session_id", sessionID,
			"handler", h.Name,
			"discarded", len(handoffs)-1,
		)
	}
	if hd.CallID == "" {
		hd.CallID = uuid.NewString()
	}

	switch hd.Kind {
	case domain.HandoffPush:
		target, ok := e.handlers.Get(hd.Target)
		if !ok {
			return &domain.InvalidRouteError{Handler: h.Name, Target: hd.Target}
		}
		st.Append(domain.NewHandoffMessage(h.Name, hd))
		st.PushHandler(target.Name)
		st.Append(domain.NewObservation(target.Name, hd.CallID, entryNote(target, hd.Reason)))
		e.metrics.ObserveHandoff("push", target.Name)

	case domain.HandoffPop:
		st.Append(domain.NewHandoffMessage(h.Name, hd))
		next := st.PopHandler()
		st.Append(domain.NewObservation(next, hd.CallID, resumeNote))
		e.metrics.ObserveHandoff("pop", h.Name)

	default:
		return &domain.InvalidRouteError{Handler: h.Name, Target: hd.Target}
	}
	return nil
}

// dispatch validates and classifies one batch of action calls. A batch
// runs immediately only when every call is in the handler's safe list;
// one sensitive call suspends the whole batch at the gate.
func (e *Engine) dispatch(ctx context.Context, sessionID string, st *domain.State, h registry.Handler, calls []domain.ActionCall) (*TurnResult, bool, error) {
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = uuid.NewString()
		}
		if _, ok := e.catalog.Lookup(calls[i].Name); !ok || !h.Allowed(calls[i].Name) {
			return nil, false, &domain.InvalidRouteError{Handler: h.Name, Action: calls[i].Name}
		}
	}

	st.Append(domain.NewActionMessage(h.Name, calls))

	if batchSafe(h, calls) {
		for _, call := range calls {
			e.execute(ctx, sessionID, st, h, call)
		}
		return nil, false, nil
	}

	p := st.OpenGate(h.Name, calls)
	if e.hooks.OnGateOpen != nil {
		e.hooks.OnGateOpen(ctx, &domain.GateEvent{
			EventBase: domain.EventBase{Timestamp: p.RequestedAt, Type: domain.EventGateOpen, SessionID: sessionID},
			Handler:   h.Name,
			GateID:    p.ID,
		})
	}
	e.logger.Info("sensitive batch awaiting decision",
		"session_id", sessionID,
		"handler", h.Name,
		"gate_id", p.ID,
		"actions", len(p.Actions),
	)
	return &TurnResult{
		SessionID:        sessionID,
		Status:           st.Status,
		RequiresDecision: true,
		Pending:          p,
	}, true, nil
}

func batchSafe(h registry.Handler, calls []domain.ActionCall) bool {
	for _, c := range calls {
		if !h.IsSafe(c.Name) {
			return false
		}
	}
	return true
}
