package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// rebookCutoff is the minimum lead time before departure for moving a
// ticket onto a flight.
const rebookCutoff = 3 * time.Hour

const defaultFlightLimit = 20

// Store implements ports.TravelStore on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewStore creates a travel store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}

func (s *Store) SearchFlights(ctx context.Context, q ports.FlightQuery) ([]ports.Flight, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if q.DepartureAirport != "" {
		add("departure_airport = $%d", q.DepartureAirport)
	}
	if q.ArrivalAirport != "" {
		add("arrival_airport = $%d", q.ArrivalAirport)
	}
	if !q.DepartsAfter.IsZero() {
		add("scheduled_departure >= $%d", q.DepartsAfter)
	}
	if !q.DepartsBefore.IsZero() {
		add("scheduled_departure <= $%d", q.DepartsBefore)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultFlightLimit
	}
	args = append(args, limit)

	sql := `SELECT id, flight_no, departure_airport, arrival_airport, scheduled_departure, scheduled_arrival
	        FROM flights`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += fmt.Sprintf(" ORDER BY scheduled_departure LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}
	defer rows.Close()

	var flights []ports.Flight
	for rows.Next() {
		var f ports.Flight
		if err := rows.Scan(&f.ID, &f.FlightNo, &f.DepartureAirport, &f.ArrivalAirport, &f.ScheduledDeparture, &f.ScheduledArrival); err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (s *Store) UserTickets(ctx context.Context, callerID string) ([]ports.TicketInfo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT t.ticket_no, t.book_ref, f.id, f.flight_no, f.departure_airport, f.arrival_airport, f.scheduled_departure,
		        COALESCE(t.seat_no, ''), COALESCE(t.fare_conditions, '')
		 FROM tickets t
		 JOIN flights f ON f.id = t.flight_id
		 WHERE t.caller_id = $1
		 ORDER BY f.scheduled_departure`, callerID)
	if err != nil {
		return nil, fmt.Errorf("user tickets: %w", err)
	}
	defer rows.Close()

	var tickets []ports.TicketInfo
	for rows.Next() {
		var t ports.TicketInfo
		if err := rows.Scan(&t.TicketNo, &t.BookRef, &t.FlightID, &t.FlightNo, &t.Departure, &t.Arrival, &t.DepartsAt, &t.SeatNo, &t.FareConditions); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (s *Store) UpdateTicket(ctx context.Context, callerID, ticketNo string, newFlightID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var departs time.Time
	err = tx.QueryRow(ctx,
		`SELECT scheduled_departure FROM flights WHERE id = $1`, newFlightID).Scan(&departs)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("flight %d: %w", newFlightID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup flight: %w", err)
	}
	if departs.Sub(s.now()) < rebookCutoff {
		return domain.ErrTooCloseToDeparture
	}

	tag, err := tx.Exec(ctx,
		`UPDATE tickets SET flight_id = $1 WHERE ticket_no = $2 AND caller_id = $3`,
		newFlightID, ticketNo, callerID)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ticketMiss(ctx, tx, ticketNo)
	}
	return tx.Commit(ctx)
}

func (s *Store) CancelTicket(ctx context.Context, callerID, ticketNo string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	tag, err := tx.Exec(ctx,
		`DELETE FROM tickets WHERE ticket_no = $1 AND caller_id = $2`, ticketNo, callerID)
	if err != nil {
		return fmt.Errorf("cancel ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ticketMiss(ctx, tx, ticketNo)
	}
	return tx.Commit(ctx)
}

// ticketMiss explains a mutation that matched no row: the ticket is
// either absent or owned by someone else.
func ticketMiss(ctx context.Context, tx pgx.Tx, ticketNo string) error {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tickets WHERE ticket_no = $1)`, ticketNo).Scan(&exists)
	if err != nil {
		return fmt.Errorf("lookup ticket: %w", err)
	}
	if !exists {
		return fmt.Errorf("ticket %s: %w", ticketNo, domain.ErrNotFound)
	}
	return fmt.Errorf("ticket %s: %w", ticketNo, domain.ErrNotOwner)
}

func (s *Store) SearchHotels(ctx context.Context, q ports.HotelQuery) ([]ports.Hotel, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if q.Location != "" {
		add("location ILIKE '%%' || $%d || '%%'", q.Location)
	}
	if q.Name != "" {
		add("name ILIKE '%%' || $%d || '%%'", q.Name)
	}
	if q.PriceTier != "" {
		add("price_tier = $%d", q.PriceTier)
	}

	sql := `SELECT id, name, location, price_tier, star_rating, booked FROM hotels`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY name"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search hotels: %w", err)
	}
	defer rows.Close()

	var hotels []ports.Hotel
	for rows.Next() {
		var h ports.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Location, &h.PriceTier, &h.StarRating, &h.Booked); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

func (s *Store) HotelDetails(ctx context.Context, hotelID int64) (*ports.Hotel, error) {
	var h ports.Hotel
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, location, price_tier, star_rating, booked FROM hotels WHERE id = $1`, hotelID).
		Scan(&h.ID, &h.Name, &h.Location, &h.PriceTier, &h.StarRating, &h.Booked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("hotel %d: %w", hotelID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("hotel details: %w", err)
	}
	return &h, nil
}

func (s *Store) RoomTypes(ctx context.Context, hotelID int64) ([]ports.RoomType, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT hotel_id, name, capacity, price_per_night FROM hotel_room_types WHERE hotel_id = $1 ORDER BY price_per_night`, hotelID)
	if err != nil {
		return nil, fmt.Errorf("room types: %w", err)
	}
	defer rows.Close()

	var rooms []ports.RoomType
	for rows.Next() {
		var r ports.RoomType
		if err := rows.Scan(&r.HotelID, &r.Name, &r.Capacity, &r.PricePerNite); err != nil {
			return nil, fmt.Errorf("scan room type: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (s *Store) UserHotelBookings(ctx context.Context, callerID string) ([]ports.HotelBooking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT b.id, b.caller_id, b.hotel_id, h.name, b.room_type,
		        to_char(b.checkin_date, 'YYYY-MM-DD'), to_char(b.checkout_date, 'YYYY-MM-DD'),
		        to_char(b.booked_at, 'YYYY-MM-DD')
		 FROM hotel_bookings b
		 JOIN hotels h ON h.id = b.hotel_id
		 WHERE b.caller_id = $1
		 ORDER BY b.checkin_date`, callerID)
	if err != nil {
		return nil, fmt.Errorf("user hotel bookings: %w", err)
	}
	defer rows.Close()

	var bookings []ports.HotelBooking
	for rows.Next() {
		var b ports.HotelBooking
		if err := rows.Scan(&b.ID, &b.CallerID, &b.HotelID, &b.HotelName, &b.RoomType, &b.Checkin, &b.Checkout, &b.BookedAt); err != nil {
			return nil, fmt.Errorf("scan hotel booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (s *Store) BookHotel(ctx context.Context, callerID string, hotelID int64, roomType, checkin, checkout string) (*ports.HotelBooking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var hotelName string
	err = tx.QueryRow(ctx, `SELECT name FROM hotels WHERE id = $1`, hotelID).Scan(&hotelName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("hotel %d: %w", hotelID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup hotel: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM hotel_room_types WHERE hotel_id = $1 AND name = $2)`, hotelID, roomType).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("lookup room type: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("room type %q at hotel %d: %w", roomType, hotelID, domain.ErrNotFound)
	}

	booking := &ports.HotelBooking{
		CallerID:  callerID,
		HotelID:   hotelID,
		HotelName: hotelName,
		RoomType:  roomType,
		Checkin:   checkin,
		Checkout:  checkout,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO hotel_bookings (caller_id, hotel_id, room_type, checkin_date, checkout_date)
		 VALUES ($1, $2, $3, $4::date, $5::date)
		 RETURNING id, to_char(booked_at, 'YYYY-MM-DD')`,
		callerID, hotelID, roomType, checkin, checkout).Scan(&booking.ID, &booking.BookedAt)
	if err != nil {
		return nil, fmt.Errorf("book hotel: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE hotels SET booked = booked + 1 WHERE id = $1`, hotelID)
	if err != nil {
		return nil, fmt.Errorf("mark hotel booked: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return booking, nil
}

func (s *Store) CancelHotelBooking(ctx context.Context, callerID string, bookingID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var hotelID int64
	err = tx.QueryRow(ctx,
		`DELETE FROM hotel_bookings WHERE id = $1 AND caller_id = $2 RETURNING hotel_id`,
		bookingID, callerID).Scan(&hotelID)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM hotel_bookings WHERE id = $1)`, bookingID).Scan(&exists); err != nil {
			return fmt.Errorf("lookup hotel booking: %w", err)
		}
		if !exists {
			return fmt.Errorf("hotel booking %d: %w", bookingID, domain.ErrNotFound)
		}
		return fmt.Errorf("hotel booking %d: %w", bookingID, domain.ErrNotOwner)
	}
	if err != nil {
		return fmt.Errorf("cancel hotel booking: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE hotels SET booked = GREATEST(booked - 1, 0) WHERE id = $1`, hotelID)
	if err != nil {
		return fmt.Errorf("unmark hotel booked: %w", err)
	}
	return tx.Commit(ctx)
}
