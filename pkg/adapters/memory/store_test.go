package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	state := domain.NewState("primary", domain.SessionContext{CallerID: "p1"})
	require.NoError(t, store.Save(ctx, "s1", state))

	// Mutating the original after Save must not leak into the store.
	state.PushHandler("hotel")
	state.Append(domain.NewUserMessage("late mutation"))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"primary"}, loaded.DialogStack)
	assert.Empty(t, loaded.Messages)

	// Mutating a loaded copy must not leak either.
	loaded.PushHandler("flight")
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"primary"}, again.DialogStack)
}
