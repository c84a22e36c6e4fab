package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	concierge "github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/ports"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	travel := memory.NewTravelStore()
	flightID := travel.AddFlight(ports.Flight{
		FlightNo:           "LX0112",
		DepartureAirport:   "CDG",
		ArrivalAirport:     "BSL",
		ScheduledDeparture: time.Now().Add(48 * time.Hour),
		ScheduledArrival:   time.Now().Add(50 * time.Hour),
	})
	travel.AddTicket("7240005432906569", "C46E9F", "passenger-42", flightID)

	eng, err := concierge.New(concierge.WithTravelStore(travel))
	require.NoError(t, err)
	return NewServer(eng, logging.NewNop())
}

func TestSubmitMessageTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleSubmitMessage(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"caller_id":  "passenger-42",
		"text":       "what bookings do I have?",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", result.SessionID)
	assert.False(t, result.RequiresDecision)
	assert.NotEmpty(t, result.Reply)
}

func TestSubmitMessageTool_MissingCaller(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleSubmitMessage(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"text":       "hello",
	})
	require.Error(t, err)
}

func TestDecisionTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleSubmitMessage(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"caller_id":  "passenger-42",
		"text":       "cancel ticket 7240005432906569",
	})
	require.NoError(t, err)
	require.True(t, result.RequiresDecision)

	result, err = s.handleSubmitDecision(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"caller_id":  "passenger-42",
		"approved":   true,
	})
	require.NoError(t, err)
	assert.False(t, result.RequiresDecision)
	assert.Contains(t, result.Reply, "successfully cancelled")
}
