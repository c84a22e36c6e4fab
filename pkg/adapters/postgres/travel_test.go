package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge/pkg/adapters/postgres"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// setupStore connects, runs all migrations, and returns a ready travel
// store. The pool is closed via t.Cleanup.
func setupStore(t *testing.T) (*postgres.Store, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()
	require.NoError(t, postgres.RunMigrations(ctx, dsn))

	pool, err := postgres.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return postgres.NewStore(pool), pool
}

func seedFlight(t *testing.T, pool *pgxpool.Pool, departs time.Time) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO flights (flight_no, departure_airport, arrival_airport, scheduled_departure, scheduled_arrival)
		 VALUES ('LX0112', 'CDG', 'BSL', $1, $2) RETURNING id`,
		departs, departs.Add(90*time.Minute)).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedTicket(t *testing.T, pool *pgxpool.Pool, callerID string, flightID int64) string {
	t.Helper()
	ticketNo := uuid.NewString()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO tickets (ticket_no, book_ref, caller_id, flight_id) VALUES ($1, 'C46E9F', $2, $3)`,
		ticketNo, callerID, flightID)
	require.NoError(t, err)
	return ticketNo
}

func TestTravelStore_Flights(t *testing.T) {
	store, pool := setupStore(t)
	ctx := context.Background()
	caller := uuid.NewString()

	near := seedFlight(t, pool, time.Now().Add(time.Hour))
	far := seedFlight(t, pool, time.Now().Add(48*time.Hour))
	ticket := seedTicket(t, pool, caller, near)

	t.Run("Search", func(t *testing.T) {
		flights, err := store.SearchFlights(ctx, ports.FlightQuery{
			DepartureAirport: "CDG",
			ArrivalAirport:   "BSL",
			DepartsBefore:    time.Now().Add(72 * time.Hour),
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(flights), 2)
	})

	t.Run("UserTickets", func(t *testing.T) {
		tickets, err := store.UserTickets(ctx, caller)
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, ticket, tickets[0].TicketNo)
		assert.Equal(t, "LX0112", tickets[0].FlightNo)
	})

	t.Run("UpdateRejectsCloseDeparture", func(t *testing.T) {
		err := store.UpdateTicket(ctx, caller, ticket, near)
		assert.ErrorIs(t, err, domain.ErrTooCloseToDeparture)
	})

	t.Run("UpdateEnforcesOwnership", func(t *testing.T) {
		err := store.UpdateTicket(ctx, "someone-else", ticket, far)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("UpdateMovesTicket", func(t *testing.T) {
		require.NoError(t, store.UpdateTicket(ctx, caller, ticket, far))
		tickets, err := store.UserTickets(ctx, caller)
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, far, tickets[0].FlightID)
	})

	t.Run("UpdateUnknownFlight", func(t *testing.T) {
		err := store.UpdateTicket(ctx, caller, ticket, 99999999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Cancel", func(t *testing.T) {
		require.NoError(t, store.CancelTicket(ctx, caller, ticket))
		tickets, err := store.UserTickets(ctx, caller)
		require.NoError(t, err)
		assert.Empty(t, tickets)

		err = store.CancelTicket(ctx, caller, ticket)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTravelStore_Hotels(t *testing.T) {
	store, pool := setupStore(t)
	ctx := context.Background()
	caller := uuid.NewString()

	name := fmt.Sprintf("Hotel %s", uuid.NewString()[:8])
	var hotelID int64
	err := pool.QueryRow(ctx,
		`INSERT INTO hotels (name, location, price_tier, star_rating) VALUES ($1, 'Basel', 'Upscale', 4) RETURNING id`,
		name).Scan(&hotelID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		`INSERT INTO hotel_room_types (hotel_id, name, capacity, price_per_night) VALUES ($1, 'Double', 2, 210.00)`,
		hotelID)
	require.NoError(t, err)

	t.Run("SearchAndDetails", func(t *testing.T) {
		hotels, err := store.SearchHotels(ctx, ports.HotelQuery{Location: "basel", PriceTier: "Upscale"})
		require.NoError(t, err)
		assert.NotEmpty(t, hotels)

		h, err := store.HotelDetails(ctx, hotelID)
		require.NoError(t, err)
		assert.Equal(t, name, h.Name)

		rooms, err := store.RoomTypes(ctx, hotelID)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "Double", rooms[0].Name)
	})

	t.Run("BookAndCancel", func(t *testing.T) {
		booking, err := store.BookHotel(ctx, caller, hotelID, "Double", "2026-09-10", "2026-09-12")
		require.NoError(t, err)
		assert.Equal(t, name, booking.HotelName)

		bookings, err := store.UserHotelBookings(ctx, caller)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, booking.ID, bookings[0].ID)

		err = store.CancelHotelBooking(ctx, "someone-else", booking.ID)
		assert.ErrorIs(t, err, domain.ErrNotOwner)

		require.NoError(t, store.CancelHotelBooking(ctx, caller, booking.ID))
		err = store.CancelHotelBooking(ctx, caller, booking.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("BookUnknownRoomType", func(t *testing.T) {
		_, err := store.BookHotel(ctx, caller, hotelID, "Penthouse", "2026-09-10", "2026-09-12")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("BookedCounterStaysConsistent", func(t *testing.T) {
		countBooked := func() int {
			var n int
			require.NoError(t, pool.QueryRow(ctx, `SELECT booked FROM hotels WHERE id = $1`, hotelID).Scan(&n))
			return n
		}
		base := countBooked()

		booking, err := store.BookHotel(ctx, caller, hotelID, "Double", "2026-10-01", "2026-10-03")
		require.NoError(t, err)
		assert.Equal(t, base+1, countBooked())

		// A refused cancellation must not touch the counter.
		err = store.CancelHotelBooking(ctx, "someone-else", booking.ID)
		require.ErrorIs(t, err, domain.ErrNotOwner)
		assert.Equal(t, base+1, countBooked())

		// A failed booking leaves neither a row nor a counter bump.
		_, err = store.BookHotel(ctx, caller, hotelID, "Penthouse", "2026-10-01", "2026-10-03")
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, base+1, countBooked())
		bookings, err := store.UserHotelBookings(ctx, caller)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)

		require.NoError(t, store.CancelHotelBooking(ctx, caller, booking.ID))
		assert.Equal(t, base, countBooked())
	})
}
