package ports

import (
	"context"
	"time"
)

// Flight is one scheduled flight row.
type Flight struct {
	ID                 int64     `json:"flight_id"`
	FlightNo           string    `json:"flight_no"`
	DepartureAirport   string    `json:"departure_airport"`
	ArrivalAirport     string    `json:"arrival_airport"`
	ScheduledDeparture time.Time `json:"scheduled_departure"`
	ScheduledArrival   time.Time `json:"scheduled_arrival"`
}

// FlightQuery filters SearchFlights. Zero fields are ignored.
type FlightQuery struct {
	DepartureAirport string
	ArrivalAirport   string
	DepartsAfter     time.Time
	DepartsBefore    time.Time
	Limit            int
}

// TicketInfo joins a ticket with its current flight and seat.
type TicketInfo struct {
	TicketNo       string    `json:"ticket_no"`
	BookRef        string    `json:"book_ref"`
	FlightID       int64     `json:"flight_id"`
	FlightNo       string    `json:"flight_no"`
	Departure      string    `json:"departure_airport"`
	Arrival        string    `json:"arrival_airport"`
	DepartsAt      time.Time `json:"scheduled_departure"`
	SeatNo         string    `json:"seat_no,omitempty"`
	FareConditions string    `json:"fare_conditions,omitempty"`
}

// Hotel is one bookable property.
type Hotel struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	PriceTier  string `json:"price_tier"`
	StarRating int    `json:"star_rating,omitempty"`
	Booked     int    `json:"booked"`
}

// HotelQuery filters SearchHotels. Zero fields are ignored.
type HotelQuery struct {
	Location  string
	Name      string
	PriceTier string
}

// RoomType is one room category offered by a hotel.
type RoomType struct {
	HotelID      int64   `json:"hotel_id"`
	Name         string  `json:"name"`
	Capacity     int     `json:"capacity"`
	PricePerNite float64 `json:"price_per_night"`
}

// HotelBooking is one reservation owned by a caller.
type HotelBooking struct {
	ID        int64  `json:"id"`
	CallerID  string `json:"caller_id"`
	HotelID   int64  `json:"hotel_id"`
	HotelName string `json:"hotel_name,omitempty"`
	RoomType  string `json:"room_type"`
	Checkin   string `json:"checkin_date"`
	Checkout  string `json:"checkout_date"`
	BookedAt  string `json:"booking_date"`
}

// TravelStore is the relational booking/record collaborator. Safe
// operations are idempotent to retry; mutating operations verify
// ownership (domain.ErrNotOwner) instead of silently succeeding, and
// each mutation is atomic within a single call — nothing here holds a
// lock across an engine suspension.
type TravelStore interface {
	SearchFlights(ctx context.Context, q FlightQuery) ([]Flight, error)
	UserTickets(ctx context.Context, callerID string) ([]TicketInfo, error)

	// UpdateTicket moves a ticket to a new flight. Fails with
	// domain.ErrNotFound for an unknown ticket or flight,
	// domain.ErrNotOwner on ownership mismatch, and
	// domain.ErrTooCloseToDeparture inside the rebooking cut-off.
	UpdateTicket(ctx context.Context, callerID, ticketNo string, newFlightID int64) error

	// CancelTicket removes the caller's ticket.
	CancelTicket(ctx context.Context, callerID, ticketNo string) error

	SearchHotels(ctx context.Context, q HotelQuery) ([]Hotel, error)
	HotelDetails(ctx context.Context, hotelID int64) (*Hotel, error)
	RoomTypes(ctx context.Context, hotelID int64) ([]RoomType, error)
	UserHotelBookings(ctx context.Context, callerID string) ([]HotelBooking, error)

	// BookHotel creates a reservation for the caller.
	BookHotel(ctx context.Context, callerID string, hotelID int64, roomType, checkin, checkout string) (*HotelBooking, error)

	// CancelHotelBooking removes the caller's reservation.
	CancelHotelBooking(ctx context.Context, callerID string, bookingID int64) error
}
