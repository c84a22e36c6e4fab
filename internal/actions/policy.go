package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/ports"
)

type lookupPolicyArgs struct {
	Query string `json:"query"`
}

func policyActions(policy ports.PolicyIndex) []registry.ActionSpec {
	return []registry.ActionSpec{
		{
			Name: ActionLookupPolicy,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				var args lookupPolicyArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				snippets, err := policy.Search(ctx, args.Query)
				if err != nil {
					return nil, err
				}
				if len(snippets) == 0 {
					return "No policy documents matched the query.", nil
				}
				var b strings.Builder
				for i, s := range snippets {
					if i > 0 {
						b.WriteString("\n\n")
					}
					fmt.Fprintf(&b, "## %s\n%s", s.Title, s.Text)
				}
				return b.String(), nil
			},
		},
	}
}

// bookingActions aggregates flights and hotels into one overview, so
// the primary handler can answer "what do I have booked" in one call.
func bookingActions(travel ports.TravelStore) []registry.ActionSpec {
	return []registry.ActionSpec{
		{
			Name: ActionAllBookings,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				if err := requireCaller(ec); err != nil {
					return nil, err
				}
				tickets, err := travel.UserTickets(ctx, ec.CallerID)
				if err != nil {
					return nil, err
				}
				hotels, err := travel.UserHotelBookings(ctx, ec.CallerID)
				if err != nil {
					return nil, err
				}
				return struct {
					Flights []ports.TicketInfo   `json:"flights"`
					Hotels  []ports.HotelBooking `json:"hotels"`
				}{Flights: tickets, Hotels: hotels}, nil
			},
		},
	}
}
