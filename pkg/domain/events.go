package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurnStart    EventType = "turn_start"
	EventTurnEnd      EventType = "turn_end"
	EventActionCall   EventType = "action_call"
	EventActionReturn EventType = "action_return"
	EventGateOpen     EventType = "gate_open"
	EventGateResolve  EventType = "gate_resolve"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TurnEvent marks a handler taking or yielding control.
type TurnEvent struct {
	EventBase
	Handler string `json:"handler"`
}

// ActionEvent marks an action execution.
type ActionEvent struct {
	EventBase
	Handler string `json:"handler"`
	Action  string `json:"action"`
	CallID  string `json:"call_id"`
	IsError bool   `json:"is_error,omitempty"`
}

// GateEvent marks the approval gate opening or resolving.
type GateEvent struct {
	EventBase
	Handler  string `json:"handler"`
	GateID   string `json:"gate_id"`
	Approved bool   `json:"approved,omitempty"` // meaningful on resolve only
}

// LifecycleHooks defines callbacks for engine observability. All
// fields are optional; nil hooks are skipped.
//
// Every handler turn that completes emits OnTurnStart and OnTurnEnd as
// a pair, including turns that suspend at the approval gate. A turn
// aborted by a fatal routing or agent error emits no end event.
type LifecycleHooks struct {
	OnTurnStart    func(context.Context, *TurnEvent)
	OnTurnEnd      func(context.Context, *TurnEvent)
	OnActionCall   func(context.Context, *ActionEvent)
	OnActionReturn func(context.Context, *ActionEvent)
	OnGateOpen     func(context.Context, *GateEvent)
	OnGateResolve  func(context.Context, *GateEvent)
}
