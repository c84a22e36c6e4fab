package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests verifying that a
// StateStore implementation adheres to the interface contract. Every
// adapter (memory, redis, ...) runs this same suite.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState("primary", domain.SessionContext{CallerID: "3442 587242"})
		state.Append(domain.NewUserMessage("hello"))
		state.PushHandler("flight")

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, []string{"primary", "flight"}, loaded.DialogStack)
		assert.Equal(t, "3442 587242", loaded.SessionContext.CallerID)
		require.Len(t, loaded.Messages, 1)
		assert.Equal(t, "hello", loaded.Messages[0].Content)
	})

	t.Run("Overwrite", func(t *testing.T) {
		state := domain.NewState("primary", domain.SessionContext{})
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.OpenGate("flight", []domain.ActionCall{{ID: "c1", Name: "cancel_ticket"}})
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAwaitingDecision, loaded.Status)
		require.NotNil(t, loaded.Pending)
		assert.Equal(t, "cancel_ticket", loaded.Pending.Actions[0].Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState("primary", domain.SessionContext{}))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState("primary", domain.SessionContext{}))
		_ = store.Save(ctx, id2, domain.NewState("primary", domain.SessionContext{}))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
