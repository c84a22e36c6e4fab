package ports

import (
	"context"

	"github.com/aretw0/concierge/pkg/domain"
)

// StateStore defines the interface for persisting conversation state.
// This is what makes the approval gate durable: a session suspended on
// a sensitive action can be resumed after a process restart.
type StateStore interface {
	// Save persists the state for a given session ID, atomically
	// overwriting any previous snapshot.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
