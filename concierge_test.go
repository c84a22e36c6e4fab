package concierge_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	concierge "github.com/aretw0/concierge"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

func seededEngine(t *testing.T) (*concierge.Engine, *memory.TravelStore) {
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
	return eng, travel
}

func TestFacade_CancelTicketEndToEnd(t *testing.T) {
	eng, travel := seededEngine(t)
	ctx := context.Background()

	// The scripted primary delegates cancellation to the flight handler,
	// which requests the sensitive action and suspends.
	res, err := eng.Submit(ctx, "session-1", "passenger-42", "please cancel ticket 7240005432906569")
	require.NoError(t, err)
	require.True(t, res.RequiresDecision)
	require.NotNil(t, res.Pending)
	assert.Equal(t, "cancel_ticket", res.Pending.Actions[0].Name)

	// Nothing ran yet.
	tickets, err := travel.UserTickets(ctx, "passenger-42")
	require.NoError(t, err)
	assert.Len(t, tickets, 1)

	res, err = eng.SubmitDecision(ctx, "session-1", "passenger-42", true, "")
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "successfully cancelled")

	tickets, err = travel.UserTickets(ctx, "passenger-42")
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestFacade_RejectionKeepsTicket(t *testing.T) {
	eng, travel := seededEngine(t)
	ctx := context.Background()

	res, err := eng.Submit(ctx, "session-1", "passenger-42", "cancel ticket 7240005432906569")
	require.NoError(t, err)
	require.True(t, res.RequiresDecision)

	res, err = eng.SubmitDecision(ctx, "session-1", "passenger-42", false, "changed my mind")
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "changed my mind")

	tickets, err := travel.UserTickets(ctx, "passenger-42")
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestFacade_SessionLifecycle(t *testing.T) {
	eng, _ := seededEngine(t)
	ctx := context.Background()

	_, err := eng.Submit(ctx, "session-1", "passenger-42", "hello")
	require.NoError(t, err)

	st, err := eng.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "passenger-42", st.SessionContext.CallerID)
	assert.Contains(t, st.SessionContext.Bookings, "LX0112")

	ids, err := eng.ListSessions(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "session-1")

	require.NoError(t, eng.DeleteSession(ctx, "session-1"))
	_, err = eng.GetSession(ctx, "session-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
