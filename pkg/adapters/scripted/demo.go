package scripted

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

var numberPattern = regexp.MustCompile(`\d+`)

// numbers extracts every integer literal from the input, in order.
func numbers(input string) []string {
	return numberPattern.FindAllString(input, -1)
}

// DemoPrimary scripts the host assistant: answer reads directly,
// delegate everything mutating.
func DemoPrimary() *Agent {
	return New(
		"I can look up flights, bookings, and policies, or hand you to a specialist for changes. What do you need?",
		Rule{Keywords: []string{"policy"}, Respond: func(input string) domain.AgentTurn {
			return domain.ActionsTurn(domain.ActionCall{
				Name: "lookup_policy",
				Args: map[string]any{"query": input},
			})
		}},
		Rule{Keywords: []string{"hotel"}, Turn: domain.HandoffTurn(domain.Handoff{
			Kind:   domain.HandoffPush,
			Target: "hotel",
			Reason: "customer needs help with a hotel stay",
		})},
		Rule{Keywords: []string{"cancel"}, Turn: domain.HandoffTurn(domain.Handoff{
			Kind:   domain.HandoffPush,
			Target: "flight",
			Reason: "customer wants to cancel a flight",
		})},
		Rule{Keywords: []string{"change"}, Turn: domain.HandoffTurn(domain.Handoff{
			Kind:   domain.HandoffPush,
			Target: "flight",
			Reason: "customer wants to change a flight",
		})},
		Rule{Keywords: []string{"bookings"}, Turn: domain.ActionsTurn(domain.ActionCall{
			Name: "get_all_user_bookings",
		})},
		Rule{Keywords: []string{"flight"}, Turn: domain.ActionsTurn(domain.ActionCall{
			Name: "fetch_user_flight_information",
		})},
	)
}

// DemoFlight scripts the flight updates delegate. Ticket and flight
// numbers are read straight out of the message.
func DemoFlight() *Agent {
	return New(
		"Tell me the ticket number you want to cancel, or the ticket and new flight IDs to change.",
		Rule{Keywords: []string{"back"}, Turn: domain.HandoffTurn(domain.Handoff{Kind: domain.HandoffPop})},
		Rule{Keywords: []string{"cancel"}, Respond: func(input string) domain.AgentTurn {
			nums := numbers(input)
			if len(nums) == 0 {
				return domain.ReplyTurn("Which ticket number should I cancel?")
			}
			return domain.ActionsTurn(domain.ActionCall{
				Name: "cancel_ticket",
				Args: map[string]any{"ticket_no": nums[0]},
			})
		}},
		Rule{Keywords: []string{"change"}, Respond: func(input string) domain.AgentTurn {
			nums := numbers(input)
			if len(nums) < 2 {
				return domain.ReplyTurn("I need both the ticket number and the new flight ID.")
			}
			flightID, _ := strconv.ParseInt(nums[1], 10, 64)
			return domain.ActionsTurn(domain.ActionCall{
				Name: "update_ticket_to_new_flight",
				Args: map[string]any{"ticket_no": nums[0], "new_flight_id": flightID},
			})
		}},
	)
}

// DemoHotel scripts the hotel delegate.
func DemoHotel() *Agent {
	return New(
		"I can search hotels, book a room, or cancel a hotel booking. What would you like?",
		Rule{Keywords: []string{"back"}, Turn: domain.HandoffTurn(domain.Handoff{Kind: domain.HandoffPop})},
		Rule{Keywords: []string{"cancel"}, Respond: func(input string) domain.AgentTurn {
			nums := numbers(input)
			if len(nums) == 0 {
				return domain.ReplyTurn("Which booking ID should I cancel?")
			}
			bookingID, _ := strconv.ParseInt(nums[0], 10, 64)
			return domain.ActionsTurn(domain.ActionCall{
				Name: "cancel_hotel_booking",
				Args: map[string]any{"booking_id": bookingID},
			})
		}},
		Rule{Keywords: []string{"book"}, Respond: func(input string) domain.AgentTurn {
			nums := numbers(input)
			if len(nums) == 0 {
				return domain.ReplyTurn("Which hotel ID should I book? You can search first.")
			}
			hotelID, _ := strconv.ParseInt(nums[0], 10, 64)
			roomType := "Double"
			if strings.Contains(strings.ToLower(input), "single") {
				roomType = "Single"
			}
			return domain.ActionsTurn(domain.ActionCall{
				Name: "create_hotel_booking",
				Args: map[string]any{
					"hotel_id":      hotelID,
					"room_type":     roomType,
					"checkin_date":  "2026-09-10",
					"checkout_date": "2026-09-12",
				},
			})
		}},
		Rule{Keywords: []string{"search"}, Respond: func(input string) domain.AgentTurn {
			return domain.ActionsTurn(domain.ActionCall{
				Name: "search_hotels",
				Args: map[string]any{},
			})
		}},
	)
}
