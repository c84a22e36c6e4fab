package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/internal/metrics"
	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
	"github.com/aretw0/concierge/pkg/session"
)

const (
	defaultAgentRetries = 2
	defaultTurnHopLimit = 16
)

// TurnResult is what one submission (message or decision) yields.
type TurnResult struct {
	SessionID string        `json:"session_id"`
	Status    domain.Status `json:"status"`

	// Reply is the user-facing text, empty while a decision is pending.
	Reply string `json:"reply,omitempty"`

	// RequiresDecision is set when the turn suspended on a sensitive
	// batch; Pending describes what awaits approval.
	RequiresDecision bool                    `json:"requires_decision,omitempty"`
	Pending          *domain.PendingApproval `json:"pending,omitempty"`
}

// Engine executes conversation turns against a handler topology. All
// state mutation happens under the session manager's lock, and every
// mutation is checkpointed before the result is returned, so a crashed
// process resumes exactly where the store left off.
type Engine struct {
	sessions *session.Manager
	catalog  *registry.Catalog
	handlers *registry.Set
	travel   ports.TravelStore

	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	metrics *metrics.Metrics

	agentRetries int
	turnHopLimit int
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHooks installs lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithMetrics installs Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithAgentRetries bounds re-invocations after degenerate agent output.
func WithAgentRetries(n int) Option {
	return func(e *Engine) { e.agentRetries = n }
}

// WithTurnHopLimit bounds handler transitions within one submission.
func WithTurnHopLimit(n int) Option {
	return func(e *Engine) { e.turnHopLimit = n }
}

// New assembles an engine. travel is used once per new session to
// prime the session context with the caller's bookings; pass nil to
// skip priming.
func New(sessions *session.Manager, catalog *registry.Catalog, handlers *registry.Set, travel ports.TravelStore, opts ...Option) *Engine {
	e := &Engine{
		sessions:     sessions,
		catalog:      catalog,
		handlers:     handlers,
		travel:       travel,
		logger:       logging.NewNop(),
		agentRetries: defaultAgentRetries,
		turnHopLimit: defaultTurnHopLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sessions exposes the session manager for read-side surfaces
// (inspection, listing, deletion).
func (e *Engine) Sessions() *session.Manager { return e.sessions }

// Submit appends one user message to the session and drives the state
// machine until a handler replies or a sensitive batch suspends the
// turn. An unknown session ID starts a fresh session owned by
// callerID. Returns domain.ErrDecisionPending while a gate is open.
func (e *Engine) Submit(ctx context.Context, sessionID, callerID, text string) (*TurnResult, error) {
	if callerID == "" {
		return nil, domain.ErrMissingCaller
	}
	start := time.Now()
	var res *TurnResult
	err := e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		store := e.sessions.Store()
		st, err := store.Load(ctx, sessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			st = e.startSession(ctx, callerID)
		case err != nil:
			return err
		case st.SessionContext.CallerID != callerID:
			return domain.ErrNotOwner
		}

		if st.Status == domain.StatusAwaitingDecision {
			return domain.ErrDecisionPending
		}

		st.Append(domain.NewUserMessage(text))
		res, err = e.drive(ctx, sessionID, st)
		if err != nil {
			return err
		}
		return store.Save(ctx, sessionID, st)
	})
	e.observeTurn(res, err, start)
	return res, err
}

// startSession builds a fresh state and primes its context with the
// caller's current bookings. A failed lookup degrades to an unprimed
// session rather than failing the turn.
func (e *Engine) startSession(ctx context.Context, callerID string) *domain.State {
	sc := domain.SessionContext{
		CallerID:  callerID,
		FetchedAt: time.Now().UTC(),
	}
	if e.travel != nil {
		summary, err := e.bookingSummary(ctx, callerID)
		if err != nil {
			e.logger.Warn("could not prime session context", "caller_id", callerID, "err", err)
		} else {
			sc.Bookings = summary
		}
	}
	return domain.NewState(e.handlers.Primary().Name, sc)
}

func (e *Engine) bookingSummary(ctx context.Context, callerID string) (string, error) {
	var b strings.Builder
	tickets, err := e.travel.UserTickets(ctx, callerID)
	if err != nil {
		return "", fmt.Errorf("fetch tickets: %w", err)
	}
	if len(tickets) == 0 {
		b.WriteString("No flight tickets on file.\n")
	}
	for _, t := range tickets {
		fmt.Fprintf(&b, "Ticket %s: flight %s %s->%s departing %s\n",
			t.TicketNo, t.FlightNo, t.Departure, t.Arrival,
			t.DepartsAt.Format(time.RFC3339))
	}
	hotels, err := e.travel.UserHotelBookings(ctx, callerID)
	if err != nil {
		// Tickets alone are still a usable context.
		e.logger.Warn("could not fetch hotel bookings", "caller_id", callerID, "err", err)
		return b.String(), nil
	}
	for _, h := range hotels {
		fmt.Fprintf(&b, "Hotel booking %d: %s (%s) %s to %s\n",
			h.ID, h.HotelName, h.RoomType, h.Checkin, h.Checkout)
	}
	return b.String(), nil
}

// invokeAgent calls the handler's agent, nudging it a bounded number of
// times when it yields no usable output at all.
func (e *Engine) invokeAgent(ctx context.Context, h registry.Handler, st *domain.State) (domain.AgentTurn, error) {
	framing := e.buildFraming(h, st)
	for attempt := 0; ; attempt++ {
		turn, err := h.Agent.Respond(ctx, framing, st)
		if err != nil {
			return domain.AgentTurn{}, fmt.Errorf("handler %q agent: %w", h.Name, err)
		}
		if !turn.Degenerate() {
			return turn, nil
		}
		if attempt >= e.agentRetries {
			e.logger.Warn("handler produced no usable output", "handler", h.Name, "attempts", attempt+1)
			return domain.ReplyTurn("I was unable to produce a response for that request. Could you rephrase it?"), nil
		}
		st.Append(domain.NewUserMessage("Respond with a real output."))
	}
}

func (e *Engine) buildFraming(h registry.Handler, st *domain.State) string {
	var b strings.Builder
	b.WriteString(h.Framing)
	if st.SessionContext.Bookings != "" {
		fmt.Fprintf(&b, "\n\nCurrent traveler bookings:\n%s", st.SessionContext.Bookings)
	}
	fmt.Fprintf(&b, "\nCurrent time: %s.", time.Now().UTC().Format(time.RFC3339))
	return b.String()
}

func (e *Engine) observeTurn(res *TurnResult, err error, start time.Time) {
	outcome := "reply"
	switch {
	case err != nil:
		outcome = "error"
	case res != nil && res.RequiresDecision:
		outcome = "suspended"
	}
	e.metrics.ObserveTurn(outcome, time.Since(start))
}

func (e *Engine) emitTurn(ctx context.Context, hook func(context.Context, *domain.TurnEvent), typ domain.EventType, sessionID, handler string) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.TurnEvent{
		EventBase: domain.EventBase{Timestamp: time.Now().UTC(), Type: typ, SessionID: sessionID},
		Handler:   handler,
	})
}
