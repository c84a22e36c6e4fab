package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/domain"
)

// execute runs one action call and appends exactly one observation,
// success or failure alike. Collaborator failures never escape: they
// become error observations and control stays with the same handler.
func (e *Engine) execute(ctx context.Context, sessionID string, st *domain.State, h registry.Handler, call domain.ActionCall) {
	e.emitAction(ctx, e.hooks.OnActionCall, domain.EventActionCall, sessionID, h.Name, call, false)

	spec, ok := e.catalog.Lookup(call.Name)
	if !ok {
		// dispatch validated the batch; reaching here means the catalog
		// changed under us, which only tests can do.
		st.Append(domain.NewObservation(h.Name, call.ID,
			fmt.Sprintf("action failed: unknown action %q; please correct and retry.", call.Name)))
		return
	}

	ec := registry.ExecContext{SessionID: sessionID, CallerID: st.SessionContext.CallerID}
	payload, err := spec.Run(ctx, ec, call.Args)
	if err != nil {
		e.logger.Warn("action failed",
			"session_id", sessionID,
			"handler", h.Name,
			"action", call.Name,
			"err", err,
		)
		st.Append(domain.NewObservation(h.Name, call.ID,
			fmt.Sprintf("action failed: %v; please correct and retry.", err)))
		e.emitAction(ctx, e.hooks.OnActionReturn, domain.EventActionReturn, sessionID, h.Name, call, true)
		e.metrics.ObserveAction(call.Name, true)
		return
	}

	st.Append(domain.NewObservation(h.Name, call.ID, renderPayload(payload)))
	e.emitAction(ctx, e.hooks.OnActionReturn, domain.EventActionReturn, sessionID, h.Name, call, false)
	e.metrics.ObserveAction(call.Name, false)
}

// renderPayload flattens an action result into observation text.
// Strings pass through; everything else is JSON.
func renderPayload(v any) string {
	switch p := v.(type) {
	case nil:
		return "OK"
	case string:
		return p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Sprintf("%v", p)
		}
		return string(b)
	}
}

func (e *Engine) emitAction(ctx context.Context, hook func(context.Context, *domain.ActionEvent), typ domain.EventType, sessionID, handler string, call domain.ActionCall, isErr bool) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.ActionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now().UTC(), Type: typ, SessionID: sessionID},
		Handler:   handler,
		Action:    call.Name,
		CallID:    call.ID,
		IsError:   isErr,
	})
}
