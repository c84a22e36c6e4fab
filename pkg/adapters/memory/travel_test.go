package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

func seededTravel(t *testing.T) (*memory.TravelStore, int64, int64) {
	t.Helper()
	s := memory.NewTravelStore()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return base })

	near := s.AddFlight(ports.Flight{
		FlightNo:           "LX0112",
		DepartureAirport:   "CDG",
		ArrivalAirport:     "BSL",
		ScheduledDeparture: base.Add(time.Hour),
		ScheduledArrival:   base.Add(2 * time.Hour),
	})
	far := s.AddFlight(ports.Flight{
		FlightNo:           "LX0114",
		DepartureAirport:   "CDG",
		ArrivalAirport:     "BSL",
		ScheduledDeparture: base.Add(48 * time.Hour),
		ScheduledArrival:   base.Add(49 * time.Hour),
	})
	s.AddTicket("7240005432906569", "C46E9F", "caller-1", near)
	return s, near, far
}

func TestTravelStore_RebookCutoff(t *testing.T) {
	s, near, far := seededTravel(t)
	ctx := context.Background()

	err := s.UpdateTicket(ctx, "caller-1", "7240005432906569", near)
	assert.ErrorIs(t, err, domain.ErrTooCloseToDeparture)

	require.NoError(t, s.UpdateTicket(ctx, "caller-1", "7240005432906569", far))
	tickets, err := s.UserTickets(ctx, "caller-1")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, far, tickets[0].FlightID)
}

func TestTravelStore_Ownership(t *testing.T) {
	s, _, far := seededTravel(t)
	ctx := context.Background()

	err := s.UpdateTicket(ctx, "intruder", "7240005432906569", far)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	err = s.CancelTicket(ctx, "intruder", "7240005432906569")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	require.NoError(t, s.CancelTicket(ctx, "caller-1", "7240005432906569"))
	err = s.CancelTicket(ctx, "caller-1", "7240005432906569")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTravelStore_HotelLifecycle(t *testing.T) {
	s := memory.NewTravelStore()
	ctx := context.Background()

	id := s.AddHotel(
		ports.Hotel{Name: "Hilton Basel", Location: "Basel", PriceTier: "Luxury", StarRating: 5},
		ports.RoomType{Name: "Double", Capacity: 2, PricePerNite: 210},
	)

	hotels, err := s.SearchHotels(ctx, ports.HotelQuery{Location: "basel"})
	require.NoError(t, err)
	require.Len(t, hotels, 1)

	_, err = s.BookHotel(ctx, "caller-1", id, "Penthouse", "2026-09-10", "2026-09-12")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	booking, err := s.BookHotel(ctx, "caller-1", id, "Double", "2026-09-10", "2026-09-12")
	require.NoError(t, err)
	assert.Equal(t, "Hilton Basel", booking.HotelName)

	h, err := s.HotelDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Booked)

	require.NoError(t, s.CancelHotelBooking(ctx, "caller-1", booking.ID))
	h, err = s.HotelDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Booked)
}
