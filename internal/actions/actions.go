// Package actions binds the travel and policy collaborators into the
// action catalog and defines the handler topology that requests them.
package actions

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// Action names, as handlers request them.
const (
	ActionSearchFlights   = "search_flights"
	ActionFetchUserFlight = "fetch_user_flight_information"
	ActionLookupPolicy    = "lookup_policy"
	ActionAllBookings     = "get_all_user_bookings"
	ActionUpdateTicket    = "update_ticket_to_new_flight"
	ActionCancelTicket    = "cancel_ticket"

	ActionSearchHotels   = "search_hotels"
	ActionHotelDetails   = "get_hotel_details"
	ActionHotelRoomTypes = "list_hotel_room_types"
	ActionUserHotels     = "get_user_hotel_bookings"
	ActionBookHotel      = "create_hotel_booking"
	ActionCancelHotel    = "cancel_hotel_booking"
)

// NewCatalog builds the full action catalog over the given collaborators.
func NewCatalog(travel ports.TravelStore, policy ports.PolicyIndex) (*registry.Catalog, error) {
	specs := flightActions(travel)
	specs = append(specs, hotelActions(travel)...)
	specs = append(specs, policyActions(policy)...)
	specs = append(specs, bookingActions(travel)...)
	return registry.NewCatalog(specs...)
}

// decodeArgs maps the raw argument map onto a typed struct. Input is
// decoded weakly: agents routinely send numbers as strings.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func requireCaller(ec registry.ExecContext) error {
	if ec.CallerID == "" {
		return domain.ErrMissingCaller
	}
	return nil
}

// parseWhen accepts RFC 3339 timestamps and bare dates.
func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
