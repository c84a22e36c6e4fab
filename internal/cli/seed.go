package cli

import (
	"time"

	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/ports"
)

// DemoCallerID owns the seeded demo ticket and hotel booking.
const DemoCallerID = "demo-passenger"

func seedDemo(travel *memory.TravelStore) {
	now := time.Now()

	lx112 := travel.AddFlight(ports.Flight{
		FlightNo:           "LX0112",
		DepartureAirport:   "CDG",
		ArrivalAirport:     "BSL",
		ScheduledDeparture: now.Add(48 * time.Hour),
		ScheduledArrival:   now.Add(49*time.Hour + 25*time.Minute),
	})
	travel.AddFlight(ports.Flight{
		FlightNo:           "LX0116",
		DepartureAirport:   "CDG",
		ArrivalAirport:     "BSL",
		ScheduledDeparture: now.Add(72 * time.Hour),
		ScheduledArrival:   now.Add(73*time.Hour + 25*time.Minute),
	})
	travel.AddFlight(ports.Flight{
		FlightNo:           "LX0355",
		DepartureAirport:   "BSL",
		ArrivalAirport:     "ZRH",
		ScheduledDeparture: now.Add(96 * time.Hour),
		ScheduledArrival:   now.Add(97 * time.Hour),
	})

	travel.AddTicket("7240005432906569", "C46E9F", DemoCallerID, lx112)

	travel.AddHotel(ports.Hotel{
		Name:       "Hilton Basel",
		Location:   "Basel",
		PriceTier:  "Luxury",
		StarRating: 5,
	},
		ports.RoomType{Name: "Standard Double", Capacity: 2, PricePerNite: 280},
		ports.RoomType{Name: "Junior Suite", Capacity: 3, PricePerNite: 440},
	)
	travel.AddHotel(ports.Hotel{
		Name:       "Holiday Inn Basel",
		Location:   "Basel",
		PriceTier:  "Upper Midscale",
		StarRating: 4,
	},
		ports.RoomType{Name: "Standard Queen", Capacity: 2, PricePerNite: 160},
	)
	travel.AddHotel(ports.Hotel{
		Name:       "Hyatt Regency Zurich",
		Location:   "Zurich",
		PriceTier:  "Upscale",
		StarRating: 4,
	},
		ports.RoomType{Name: "King Room", Capacity: 2, PricePerNite: 210},
	)
}
