package service

import (
	"context"
	"fmt"
	"strings"

	"prenotazioni/internal/db"
)

var weekdayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type RestaurantService struct {
	Restaurants  RestaurantStore
	RestaurantID int
}

func NewRestaurantService(restaurants RestaurantStore, restaurantID int) *RestaurantService {
	return &RestaurantService{Restaurants: restaurants, RestaurantID: restaurantID}
}

func (s *RestaurantService) Get(ctx context.Context) (*db.Restaurant, error) {
	return s.Restaurants.GetRestaurant(ctx, s.RestaurantID)
}

// Describe renders restaurant information as speakable text. infoType is a
// free-form hint from the conversational layer ("hours", "location", ...).
func (s *RestaurantService) Describe(ctx context.Context, infoType string) string {
	restaurant, err := s.Restaurants.GetRestaurant(ctx, s.RestaurantID)
	if err != nil {
		return "I'm sorry, I don't have restaurant information available right now."
	}

	switch {
	case containsAny(infoType, "hours", "time", "open"):
		var sb strings.Builder
		sb.WriteString("Our operating hours are:\n")
		for _, day := range weekdayOrder {
			hours, ok := restaurant.OpeningHours[day]
			title := strings.ToUpper(day[:1]) + day[1:]
			if !ok || hours.Closed {
				fmt.Fprintf(&sb, "%s: Closed\n", title)
			} else {
				fmt.Fprintf(&sb, "%s: %s - %s\n", title, hours.Open, hours.Close)
			}
		}
		return sb.String()

	case containsAny(infoType, "location", "address", "where"):
		return fmt.Sprintf("We're located at %s. You can reach us at %s.", restaurant.Address, restaurant.Phone)

	case containsAny(infoType, "ambience", "atmosphere", "vibe", "setting"):
		return "Our restaurant offers a warm and elegant dining atmosphere perfect for any occasion, " +
			"with intimate lighting and comfortable seating for romantic dinners, business lunches, and family celebrations alike."

	default:
		return fmt.Sprintf("Welcome to %s! We're located at %s. You can reach us at %s for any questions.",
			restaurant.Name, restaurant.Address, restaurant.Phone)
	}
}

func containsAny(s string, keywords ...string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
