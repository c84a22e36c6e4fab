package actions

import (
	"context"

	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/ports"
)

type searchFlightsArgs struct {
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Limit            int    `json:"limit"`
}

type updateTicketArgs struct {
	TicketNo    string `json:"ticket_no"`
	NewFlightID int64  `json:"new_flight_id"`
}

type cancelTicketArgs struct {
	TicketNo string `json:"ticket_no"`
}

func flightActions(travel ports.TravelStore) []registry.ActionSpec {
	return []registry.ActionSpec{
		{
			Name: ActionSearchFlights,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				var args searchFlightsArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				after, err := parseWhen(args.StartTime)
				if err != nil {
					return nil, err
				}
				before, err := parseWhen(args.EndTime)
				if err != nil {
					return nil, err
				}
				flights, err := travel.SearchFlights(ctx, ports.FlightQuery{
					DepartureAirport: args.DepartureAirport,
					ArrivalAirport:   args.ArrivalAirport,
					DepartsAfter:     after,
					DepartsBefore:    before,
					Limit:            args.Limit,
				})
				if err != nil {
					return nil, err
				}
				if len(flights) == 0 {
					return "No flights matched the search.", nil
				}
				return flights, nil
			},
		},
		{
			Name: ActionFetchUserFlight,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				if err := requireCaller(ec); err != nil {
					return nil, err
				}
				tickets, err := travel.UserTickets(ctx, ec.CallerID)
				if err != nil {
					return nil, err
				}
				if len(tickets) == 0 {
					return "No tickets on file for this traveler.", nil
				}
				return tickets, nil
			},
		},
		{
			Name:      ActionUpdateTicket,
			Sensitive: true,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				if err := requireCaller(ec); err != nil {
					return nil, err
				}
				var args updateTicketArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := travel.UpdateTicket(ctx, ec.CallerID, args.TicketNo, args.NewFlightID); err != nil {
					return nil, err
				}
				return "Ticket successfully updated to new flight.", nil
			},
		},
		{
			Name:      ActionCancelTicket,
			Sensitive: true,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				if err := requireCaller(ec); err != nil {
					return nil, err
				}
				var args cancelTicketArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := travel.CancelTicket(ctx, ec.CallerID, args.TicketNo); err != nil {
					return nil, err
				}
				return "Ticket successfully cancelled.", nil
			},
		},
	}
}
