package actions

import (
	"context"

	"github.com/aretw0/concierge/internal/registry"
	"github.com/aretw0/concierge/pkg/ports"
)

type searchHotelsArgs struct {
	Location  string `json:"location"`
	Name      string `json:"name"`
	PriceTier string `json:"price_tier"`
}

type hotelIDArgs struct {
	HotelID int64 `json:"hotel_id"`
}

type bookHotelArgs struct {
	HotelID  int64  `json:"hotel_id"`
	RoomType string `json:"room_type"`
	Checkin  string `json:"checkin_date"`
	Checkout string `json:"checkout_date"`
}

type cancelHotelArgs struct {
	BookingID int64 `json:"booking_id"`
}

func hotelActions(travel ports.TravelStore) []registry.ActionSpec {
	return []registry.ActionSpec{
		{
			Name: ActionSearchHotels,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				var args searchHotelsArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				hotels, err := travel.SearchHotels(ctx, ports.HotelQuery{
					Location:  args.Location,
					Name:      args.Name,
					PriceTier: args.PriceTier,
				})
				if err != nil {
					return nil, err
				}
				if len(hotels) == 0 {
					return "No hotels matched the search.", nil
				}
				return hotels, nil
			},
		},
		{
			Name: ActionHotelDetails,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				var args hotelIDArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				return travel.HotelDetails(ctx, args.HotelID)
			},
		},
		{
			Name: ActionHotelRoomTypes,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				var args hotelIDArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				rooms, err := travel.RoomTypes(ctx, args.HotelID)
				if err != nil {
					return nil, err
				}
				if len(rooms) == 0 {
					return "No room types on file for this hotel.", nil
				}
				return rooms, nil
			},
		},
		{
			Name: ActionUserHotels,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				if err := requireCaller(ec); err != nil {
					return nil, err
				}
				bookings, err := travel.UserHotelBookings(ctx, ec.CallerID)
				if err != nil {
					return nil, err
				}
				if len(bookings) == 0 {
					return "No hotel bookings on file for this traveler.", nil
				}
				return bookings, nil
			},
		},
		{
			Name:      ActionBookHotel,
			Sensitive: true,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				if err := requireCaller(ec); err != nil {
					return nil, err
				}
				var args bookHotelArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				return travel.BookHotel(ctx, ec.CallerID, args.HotelID, args.RoomType, args.Checkin, args.Checkout)
			},
		},
		{
			Name:      ActionCancelHotel,
			Sensitive: true,
			Run: func(ctx context.Context, ec registry.ExecContext, raw map[string]any) (any, error) {
				if err := requireCaller(ec); err != nil {
					return nil, err
				}
				var args cancelHotelArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				if err := travel.CancelHotelBooking(ctx, ec.CallerID, args.BookingID); err != nil {
					return nil, err
				}
				return "Hotel booking cancelled.", nil
			},
		},
	}
}
