package actions

import (
	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/ports"
)

// Handler names on the dialog stack.
const (
	HandlerPrimary = "primary"
	HandlerFlight  = "flight"
	HandlerHotel   = "hotel"
)

const primaryFraming = "You are a helpful customer support assistant for an airline. " +
	"Your primary role is to search for flight information, traveler bookings, and company policies to answer customer queries. " +
	"If a customer requests a flight update, a cancellation, or anything hotel related, delegate the task to the appropriate specialized assistant. " +
	"You are not able to make those changes yourself. " +
	"The customer is not aware of the different specialized assistants, so do not mention them; just quietly delegate. " +
	"When searching, be persistent. Expand your query bounds before concluding that nothing was found."

const flightFraming = "You are a specialized assistant for handling flight updates. " +
	"The host assistant delegates work to you whenever the customer needs to change or cancel a flight. " +
	"Confirm the updated flight details with the customer and inform them of any policy constraints before acting. " +
	"Remember that a change is not complete until the appropriate action has succeeded. " +
	"If the customer changes their mind or asks for something outside your scope, hand control back to the host assistant. " +
	"Do not waste the customer's time, and do not make up invalid ticket numbers or flights."

const hotelFraming = "You are a specialized assistant for handling hotel bookings. " +
	"The host assistant delegates work to you whenever the customer needs to book, inspect, or cancel a hotel stay. " +
	"Search for available hotels based on the customer's preferences and confirm the booking details with them before acting. " +
	"Remember that a booking is not complete until the appropriate action has succeeded. " +
	"If the customer changes their mind or asks for something outside your scope, hand control back to the host assistant."

// Agents supplies one reasoning step per handler.
type Agents struct {
	Primary ports.Agent
	Flight  ports.Agent
	Hotel   ports.Agent
}

// NewHandlerSet wires the default airline topology: a primary handler
// with read-only reach, plus flight and hotel delegates that own the
// mutating actions for their domain.
func NewHandlerSet(catalog *registry.Catalog, agents Agents) (*registry.Set, error) {
	return registry.NewSet(catalog,
		registry.Handler{
			Name:    HandlerPrimary,
			Title:   "Airline Support Assistant",
			Framing: primaryFraming,
			Agent:   agents.Primary,
			Safe: []string{
				ActionSearchFlights,
				ActionFetchUserFlight,
				ActionLookupPolicy,
				ActionAllBookings,
			},
		},
		registry.Handler{
			Name:    HandlerFlight,
			Title:   "Flight Updates Assistant",
			Framing: flightFraming,
			Agent:   agents.Flight,
			Safe: []string{
				ActionSearchFlights,
				ActionFetchUserFlight,
				ActionLookupPolicy,
			},
			Sensitive: []string{
				ActionUpdateTicket,
				ActionCancelTicket,
			},
		},
		registry.Handler{
			Name:    HandlerHotel,
			Title:   "Hotel Booking Assistant",
			Framing: hotelFraming,
			Agent:   agents.Hotel,
			Safe: []string{
				ActionSearchHotels,
				ActionHotelDetails,
				ActionHotelRoomTypes,
				ActionUserHotels,
			},
			Sensitive: []string{
				ActionBookHotel,
				ActionCancelHotel,
			},
		},
	)
}
