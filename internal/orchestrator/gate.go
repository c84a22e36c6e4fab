package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/domain"
)

// SubmitDecision resolves the open approval gate on a session. Approval
// executes the held batch; rejection replaces each held call with a
// decline observation carrying the caller's reason. Either way control
// returns to the handler that requested the batch, which reasons over
// the observations and continues the turn.
//
// Deciding a session with no open gate is a no-op that echoes the last
// reply, so retried decisions are harmless.
func (e *Engine) SubmitDecision(ctx context.Context, sessionID, callerID string, approved bool, reason string) (*TurnResult, error) {
	if callerID == "" {
		return nil, domain.ErrMissingCaller
	}
	start := time.Now()
	var res *TurnResult
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store := e.sessions.Store()
		st, err := store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if st.SessionContext.CallerID != callerID {
			return domain.ErrNotOwner
		}

		if st.Pending == nil {
			res = &TurnResult{SessionID: sessionID, Status: st.Status, Reply: st.LastReply()}
			return nil
		}

		p := st.Pending
		h, ok := e.handlers.Get(p.Handler)
		if !ok {
			return &domain.InvalidRouteError{Handler: p.Handler, Target: p.Handler}
		}
		st.CloseGate()

		if approved {
			for _, call := range p.Actions {
				e.execute(ctx, sessionID, st, h, call)
			}
		} else {
			if reason == "" {
				reason = "no reason given"
			}
			for _, call := range p.Actions {
				st.Append(domain.NewObservation(h.Name, call.ID, declineNote(reason)))
			}
		}

		if e.hooks.OnGateResolve != nil {
			e.hooks.OnGateResolve(ctx, &domain.GateEvent{
				EventBase: domain.EventBase{Timestamp: time.Now().UTC(), Type: domain.EventGateResolve, SessionID: sessionID},
				Handler:   h.Name,
				GateID:    p.ID,
				Approved:  approved,
			})
		}
		e.metrics.ObserveDecision(approved)

		res, err = e.drive(ctx, sessionID, st)
		if err != nil {
			return err
		}
		return store.Save(ctx, sessionID, st)
	})
	e.observeTurn(res, err, start)
	return res, err
}

// entryNote frames the handler that just received control by push.
func entryNote(target registry.Handler, reason string) string {
	note := fmt.Sprintf("The assistant is now the %s. Reflect on the conversation above between the host assistant and the user. "+
		"The user's intent is unsatisfied.", target.Title)
	if reason != "" {
		note += fmt.Sprintf(" Reason for the transfer: %s.", reason)
	}
	note += " Remember, the task is not complete until the appropriate action has succeeded. " +
		"If the user changes their mind or needs help with something else, hand control back to the host assistant. " +
		"Do not mention who you are - just act as the proxy for the assistant."
	return note
}

// resumeNote frames the handler that just regained control by pop.
const resumeNote = "Resuming dialog with the host assistant. " +
	"Please reflect on the past conversation and assist the user as needed."

func declineNote(reason string) string {
	return fmt.Sprintf("The requested action was declined by the user. Reason: %q. "+
		"Continue assisting, accounting for the user's input.", reason)
}
