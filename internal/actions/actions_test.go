package actions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

type fakeTravel struct {
	ports.TravelStore

	updatedTicket string
	updatedFlight int64
	roomTypes     []ports.RoomType
}

func (f *fakeTravel) UpdateTicket(ctx context.Context, callerID, ticketNo string, newFlightID int64) error {
	f.updatedTicket = ticketNo
	f.updatedFlight = newFlightID
	return nil
}

func (f *fakeTravel) RoomTypes(ctx context.Context, hotelID int64) ([]ports.RoomType, error) {
	return f.roomTypes, nil
}

func (f *fakeTravel) UserTickets(ctx context.Context, callerID string) ([]ports.TicketInfo, error) {
	return nil, nil
}

type fakePolicy struct {
	snippets []ports.Snippet
}

func (f *fakePolicy) Search(ctx context.Context, query string) ([]ports.Snippet, error) {
	return f.snippets, nil
}

func lookup(t *testing.T, c *registry.Catalog, name string) registry.ActionSpec {
	t.Helper()
	spec, ok := c.Lookup(name)
	require.True(t, ok, "action %s not registered", name)
	return spec
}

func TestCatalog_Sensitivity(t *testing.T) {
	c, err := NewCatalog(&fakeTravel{}, &fakePolicy{})
	require.NoError(t, err)

	safe := []string{
		ActionSearchFlights, ActionFetchUserFlight, ActionLookupPolicy, ActionAllBookings,
		ActionSearchHotels, ActionHotelDetails, ActionHotelRoomTypes, ActionUserHotels,
	}
	for _, name := range safe {
		assert.False(t, lookup(t, c, name).Sensitive, "%s must be safe", name)
	}
	sensitive := []string{ActionUpdateTicket, ActionCancelTicket, ActionBookHotel, ActionCancelHotel}
	for _, name := range sensitive {
		assert.True(t, lookup(t, c, name).Sensitive, "%s must be sensitive", name)
	}
}

func TestUpdateTicket_WeaklyTypedArgs(t *testing.T) {
	travel := &fakeTravel{}
	c, err := NewCatalog(travel, &fakePolicy{})
	require.NoError(t, err)

	spec := lookup(t, c, ActionUpdateTicket)
	// Agents routinely send numeric IDs as strings.
	out, err := spec.Run(context.Background(), registry.ExecContext{CallerID: "caller-1"}, map[string]any{
		"ticket_no":     "7240005432906569",
		"new_flight_id": "19250",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ticket successfully updated to new flight.", out)
	assert.Equal(t, "7240005432906569", travel.updatedTicket)
	assert.EqualValues(t, 19250, travel.updatedFlight)
}

func TestMutatingActions_RequireCaller(t *testing.T) {
	c, err := NewCatalog(&fakeTravel{}, &fakePolicy{})
	require.NoError(t, err)

	for _, name := range []string{ActionUpdateTicket, ActionCancelTicket, ActionBookHotel, ActionCancelHotel, ActionFetchUserFlight} {
		t.Run(name, func(t *testing.T) {
			_, err := lookup(t, c, name).Run(context.Background(), registry.ExecContext{}, map[string]any{})
			assert.ErrorIs(t, err, domain.ErrMissingCaller)
		})
	}
}

func TestLookupPolicy_FormatsSnippets(t *testing.T) {
	policy := &fakePolicy{snippets: []ports.Snippet{
		{Title: "Cancellations", Text: "Tickets are refundable within 24 hours."},
		{Title: "Rebooking", Text: "Changes are free on flexible fares."},
	}}
	c, err := NewCatalog(&fakeTravel{}, policy)
	require.NoError(t, err)

	out, err := lookup(t, c, ActionLookupPolicy).Run(context.Background(), registry.ExecContext{}, map[string]any{
		"query": "cancel",
	})
	require.NoError(t, err)
	text, ok := out.(string)
	require.True(t, ok)
	assert.Contains(t, text, "## Cancellations")
	assert.Contains(t, text, "## Rebooking")
	assert.Contains(t, text, "refundable within 24 hours")
}

func TestLookupPolicy_NoMatches(t *testing.T) {
	c, err := NewCatalog(&fakeTravel{}, &fakePolicy{})
	require.NoError(t, err)

	out, err := lookup(t, c, ActionLookupPolicy).Run(context.Background(), registry.ExecContext{}, map[string]any{
		"query": "submarines",
	})
	require.NoError(t, err)
	assert.Equal(t, "No policy documents matched the query.", out)
}

func TestParseWhen(t *testing.T) {
	got, err := parseWhen("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseWhen("2026-09-01T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = parseWhen("next tuesday")
	assert.Error(t, err)

	got, err = parseWhen("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestNewHandlerSet_Topology(t *testing.T) {
	c, err := NewCatalog(&fakeTravel{}, &fakePolicy{})
	require.NoError(t, err)

	agent := ports.AgentFunc(func(ctx context.Context, framing string, state *domain.State) (domain.AgentTurn, error) {
		return domain.ReplyTurn("ok"), nil
	})
	set, err := NewHandlerSet(c, Agents{Primary: agent, Flight: agent, Hotel: agent})
	require.NoError(t, err)

	assert.Equal(t, HandlerPrimary, set.Primary().Name)

	flight, ok := set.Get(HandlerFlight)
	require.True(t, ok)
	assert.True(t, flight.IsSafe(ActionSearchFlights))
	assert.False(t, flight.IsSafe(ActionCancelTicket))
	assert.True(t, flight.Allowed(ActionCancelTicket))
	assert.False(t, flight.Allowed(ActionBookHotel))

	primary := set.Primary()
	assert.False(t, primary.Allowed(ActionCancelTicket), "primary has read-only reach")
}
