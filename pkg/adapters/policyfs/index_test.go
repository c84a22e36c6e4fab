package policyfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge/pkg/adapters/policyfs"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func setupCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeDoc(t, dir, "cancellations.md", `---
title: Ticket Cancellations
tags: [refund, cancel]
---
Tickets are fully refundable within 24 hours of booking.
After that, cancellation fees apply depending on the fare class.`)

	writeDoc(t, dir, "rebooking.md", `---
title: Flight Changes
tags: [rebooking, change]
---
Flexible fares can be rebooked free of charge.
Changes must be made more than 3 hours before departure.`)

	writeDoc(t, dir, "baggage.md", `---
title: Baggage Allowance
---
Economy passengers may check one bag up to 23kg.`)

	return dir
}

func TestIndex_Search(t *testing.T) {
	idx, err := policyfs.New(setupCorpus(t))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Ranks Title Matches First", func(t *testing.T) {
		got, err := idx.Search(ctx, "cancellation refund policy")
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "Ticket Cancellations", got[0].Title)
		assert.Contains(t, got[0].Text, "refundable within 24 hours")
	})

	t.Run("Respects Limit", func(t *testing.T) {
		idx, err := policyfs.New(setupCorpus(t), policyfs.WithLimit(1))
		require.NoError(t, err)
		got, err := idx.Search(ctx, "cancellation rebooking baggage")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("No Matches", func(t *testing.T) {
		got, err := idx.Search(ctx, "submarine schedules")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Empty Query", func(t *testing.T) {
		got, err := idx.Search(ctx, "a an")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
