package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

const rebookCutoff = 3 * time.Hour

// TravelStore is an in-memory travel inventory with the same ownership
// and lead-time rules as the PostgreSQL adapter. It backs the demo CLI
// and tests.
type TravelStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	flights  map[int64]ports.Flight
	tickets  map[string]ticket
	hotels   map[int64]ports.Hotel
	rooms    map[int64][]ports.RoomType
	bookings map[int64]ports.HotelBooking
	nextID   int64
}

type ticket struct {
	no             string
	bookRef        string
	callerID       string
	flightID       int64
	seatNo         string
	fareConditions string
}

// NewTravelStore creates an empty inventory.
func NewTravelStore() *TravelStore {
	return &TravelStore{
		now:      time.Now,
		flights:  make(map[int64]ports.Flight),
		tickets:  make(map[string]ticket),
		hotels:   make(map[int64]ports.Hotel),
		rooms:    make(map[int64][]ports.RoomType),
		bookings: make(map[int64]ports.HotelBooking),
		nextID:   1,
	}
}

// SetClock overrides the time source, for lead-time tests.
func (s *TravelStore) SetClock(now func() time.Time) { s.now = now }

// AddFlight registers a flight and returns its ID.
func (s *TravelStore) AddFlight(f ports.Flight) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		f.ID = s.nextID
		s.nextID++
	}
	s.flights[f.ID] = f
	return f.ID
}

// AddTicket registers a ticket owned by callerID on the given flight.
func (s *TravelStore) AddTicket(ticketNo, bookRef, callerID string, flightID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticketNo] = ticket{no: ticketNo, bookRef: bookRef, callerID: callerID, flightID: flightID}
}

// AddHotel registers a hotel with its room types and returns its ID.
func (s *TravelStore) AddHotel(h ports.Hotel, rooms ...ports.RoomType) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == 0 {
		h.ID = s.nextID
		s.nextID++
	}
	s.hotels[h.ID] = h
	for i := range rooms {
		rooms[i].HotelID = h.ID
	}
	s.rooms[h.ID] = rooms
	return h.ID
}

func (s *TravelStore) SearchFlights(ctx context.Context, q ports.FlightQuery) ([]ports.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ports.Flight
	for _, f := range s.flights {
		if q.DepartureAirport != "" && f.DepartureAirport != q.DepartureAirport {
			continue
		}
		if q.ArrivalAirport != "" && f.ArrivalAirport != q.ArrivalAirport {
			continue
		}
		if !q.DepartsAfter.IsZero() && f.ScheduledDeparture.Before(q.DepartsAfter) {
			continue
		}
		if !q.DepartsBefore.IsZero() && f.ScheduledDeparture.After(q.DepartsBefore) {
			continue
		}
		out = append(out, f)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (s *TravelStore) UserTickets(ctx context.Context, callerID string) ([]ports.TicketInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ports.TicketInfo
	for _, t := range s.tickets {
		if t.callerID != callerID {
			continue
		}
		f, ok := s.flights[t.flightID]
		if !ok {
			continue
		}
		out = append(out, ports.TicketInfo{
			TicketNo:       t.no,
			BookRef:        t.bookRef,
			FlightID:       f.ID,
			FlightNo:       f.FlightNo,
			Departure:      f.DepartureAirport,
			Arrival:        f.ArrivalAirport,
			DepartsAt:      f.ScheduledDeparture,
			SeatNo:         t.seatNo,
			FareConditions: t.fareConditions,
		})
	}
	return out, nil
}

func (s *TravelStore) UpdateTicket(ctx context.Context, callerID, ticketNo string, newFlightID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[newFlightID]
	if !ok {
		return fmt.Errorf("flight %d: %w", newFlightID, domain.ErrNotFound)
	}
	if f.ScheduledDeparture.Sub(s.now()) < rebookCutoff {
		return domain.ErrTooCloseToDeparture
	}
	t, ok := s.tickets[ticketNo]
	if !ok {
		return fmt.Errorf("ticket %s: %w", ticketNo, domain.ErrNotFound)
	}
	if t.callerID != callerID {
		return fmt.Errorf("ticket %s: %w", ticketNo, domain.ErrNotOwner)
	}
	t.flightID = newFlightID
	s.tickets[ticketNo] = t
	return nil
}

func (s *TravelStore) CancelTicket(ctx context.Context, callerID, ticketNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[ticketNo]
	if !ok {
		return fmt.Errorf("ticket %s: %w", ticketNo, domain.ErrNotFound)
	}
	if t.callerID != callerID {
		return fmt.Errorf("ticket %s: %w", ticketNo, domain.ErrNotOwner)
	}
	delete(s.tickets, ticketNo)
	return nil
}

func (s *TravelStore) SearchHotels(ctx context.Context, q ports.HotelQuery) ([]ports.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ports.Hotel
	for _, h := range s.hotels {
		if q.Location != "" && !strings.Contains(strings.ToLower(h.Location), strings.ToLower(q.Location)) {
			continue
		}
		if q.Name != "" && !strings.Contains(strings.ToLower(h.Name), strings.ToLower(q.Name)) {
			continue
		}
		if q.PriceTier != "" && h.PriceTier != q.PriceTier {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *TravelStore) HotelDetails(ctx context.Context, hotelID int64) (*ports.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[hotelID]
	if !ok {
		return nil, fmt.Errorf("hotel %d: %w", hotelID, domain.ErrNotFound)
	}
	return &h, nil
}

func (s *TravelStore) RoomTypes(ctx context.Context, hotelID int64) ([]ports.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.RoomType(nil), s.rooms[hotelID]...), nil
}

func (s *TravelStore) UserHotelBookings(ctx context.Context, callerID string) ([]ports.HotelBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ports.HotelBooking
	for _, b := range s.bookings {
		if b.CallerID == callerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *TravelStore) BookHotel(ctx context.Context, callerID string, hotelID int64, roomType, checkin, checkout string) (*ports.HotelBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hotels[hotelID]
	if !ok {
		return nil, fmt.Errorf("hotel %d: %w", hotelID, domain.ErrNotFound)
	}
	var found bool
	for _, r := range s.rooms[hotelID] {
		if r.Name == roomType {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("room type %q at hotel %d: %w", roomType, hotelID, domain.ErrNotFound)
	}

	b := ports.HotelBooking{
		ID:        s.nextID,
		CallerID:  callerID,
		HotelID:   hotelID,
		HotelName: h.Name,
		RoomType:  roomType,
		Checkin:   checkin,
		Checkout:  checkout,
		BookedAt:  s.now().Format("2006-01-02"),
	}
	s.nextID++
	s.bookings[b.ID] = b
	h.Booked++
	s.hotels[hotelID] = h
	return &b, nil
}

func (s *TravelStore) CancelHotelBooking(ctx context.Context, callerID string, bookingID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return fmt.Errorf("hotel booking %d: %w", bookingID, domain.ErrNotFound)
	}
	if b.CallerID != callerID {
		return fmt.Errorf("hotel booking %d: %w", bookingID, domain.ErrNotOwner)
	}
	delete(s.bookings, bookingID)
	if h, ok := s.hotels[b.HotelID]; ok && h.Booked > 0 {
		h.Booked--
		s.hotels[b.HotelID] = h
	}
	return nil
}
