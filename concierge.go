package concierge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/concierge/internal/actions"
	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/internal/metrics"
	"github.com/aretw0/concierge/internal/orchestrator"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/adapters/scripted"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
	"github.com/aretw0/concierge/pkg/session"
)

// TurnResult is what one submission (message or decision) yields.
type TurnResult = orchestrator.TurnResult

// Agents supplies one reasoning step per handler.
type Agents = actions.Agents

// Metrics aggregates the engine's Prometheus instrumentation.
type Metrics = metrics.Metrics

// NewMetrics builds a Metrics instance with its own registry.
func NewMetrics() *Metrics { return metrics.New() }

// Engine is the high-level entry point for the concierge library.
// It wraps the internal orchestrator and provides a simplified API for
// hosting layers (HTTP, MCP, CLI).
type Engine struct {
	orch     *orchestrator.Engine
	sessions *session.Manager
	metrics  *metrics.Metrics
	logger   *slog.Logger

	store   ports.StateStore
	locker  ports.DistributedLocker
	travel  ports.TravelStore
	policy  ports.PolicyIndex
	agents  actions.Agents
	hooks   domain.LifecycleHooks
	lockTTL time.Duration

	agentRetries int
	turnHopLimit int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects the session checkpoint store (default: in-memory).
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLocker enables distributed session locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) { e.locker = locker }
}

// WithLockTTL overrides the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.lockTTL = ttl }
}

// WithTravelStore injects the travel inventory collaborator.
func WithTravelStore(travel ports.TravelStore) Option {
	return func(e *Engine) { e.travel = travel }
}

// WithPolicyIndex injects the policy retrieval collaborator.
func WithPolicyIndex(policy ports.PolicyIndex) Option {
	return func(e *Engine) { e.policy = policy }
}

// WithAgents injects the reasoning step behind each handler
// (default: deterministic scripted agents).
func WithAgents(agents actions.Agents) Option {
	return func(e *Engine) { e.agents = agents }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics enables Prometheus instrumentation.
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

// noopPolicy satisfies ports.PolicyIndex when no corpus is configured.
type noopPolicy struct{}

func (noopPolicy) Search(ctx context.Context, query string) ([]ports.Snippet, error) {
	return nil, nil
}

// New assembles a concierge engine. With no options it runs fully
// in-memory with the scripted demo agents, which is enough for tests
// and the chat CLI.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		logger:       logging.NewNop(),
		agentRetries: 2,
		turnHopLimit: 16,
		lockTTL:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.travel == nil {
		eng.travel = memory.NewTravelStore()
	}
	if eng.policy == nil {
		eng.policy = noopPolicy{}
	}
	if eng.agents.Primary == nil {
		eng.agents.Primary = scripted.DemoPrimary()
	}
	if eng.agents.Flight == nil {
		eng.agents.Flight = scripted.DemoFlight()
	}
	if eng.agents.Hotel == nil {
		eng.agents.Hotel = scripted.DemoHotel()
	}

	catalog, err := actions.NewCatalog(eng.travel, eng.policy)
	if err != nil {
		return nil, fmt.Errorf("build action catalog: %w", err)
	}
	handlers, err := actions.NewHandlerSet(catalog, eng.agents)
	if err != nil {
		return nil, fmt.Errorf("build handler set: %w", err)
	}

	sessionOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithLockTTL(eng.lockTTL),
	}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	eng.orch = orchestrator.New(eng.sessions, catalog, handlers, eng.travel,
		orchestrator.WithLogger(eng.logger),
		orchestrator.WithHooks(eng.hooks),
		orchestrator.WithMetrics(eng.metrics),
		orchestrator.WithAgentRetries(eng.agentRetries),
		orchestrator.WithTurnHopLimit(eng.turnHopLimit),
	)
	return eng, nil
}

// Submit appends one user message to the session and drives the state
// machine until a reply or an approval gate. An unknown session ID
// starts a fresh session owned by callerID.
func (e *Engine) Submit(ctx context.Context, sessionID, callerID, text string) (*TurnResult, error) {
	return e.orch.Submit(ctx, sessionID, callerID, text)
}

// SubmitDecision resolves the open approval gate on a session.
func (e *Engine) SubmitDecision(ctx context.Context, sessionID, callerID string, approved bool, reason string) (*TurnResult, error) {
	return e.orch.SubmitDecision(ctx, sessionID, callerID, approved, reason)
}

// GetSession returns the full persisted state of a session.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.sessions.Load(ctx, sessionID)
}

// DeleteSession removes a session and its checkpoint.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

// ListSessions lists known session IDs.
func (e *Engine) ListSessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Metrics returns the installed instrumentation, if any.
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }
