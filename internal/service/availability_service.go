package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"prenotazioni/internal/db"
	"prenotazioni/internal/entities"
	apperrors "prenotazioni/internal/errors"
)

// Conflict window around a requested time: bookings inside it compete for
// the same seats.
const (
	windowBefore = 1 * time.Hour
	windowAfter  = 2 * time.Hour
)

// Offsets tried when the requested time is full, in priority order.
var alternativeOffsets = []time.Duration{
	-1 * time.Hour, 1 * time.Hour,
	-2 * time.Hour, 2 * time.Hour,
	-3 * time.Hour, 3 * time.Hour,
}

const maxSuggestions = 3

// AvailabilityService decides whether a reservation request can be admitted
// given opening hours, capacity, and competing bookings. It never returns an
// error to its caller: store failures become an unavailable result carrying
// the failure message.
type AvailabilityService struct {
	Restaurants RestaurantStore
	Bookings    BookingStore

	// Now is swappable for tests.
	Now func() time.Time
}

func NewAvailabilityService(restaurants RestaurantStore, bookings BookingStore) *AvailabilityService {
	return &AvailabilityService{
		Restaurants: restaurants,
		Bookings:    bookings,
		Now:         time.Now,
	}
}

// CheckAvailability applies the admission algorithm:
// opening hours first, then the party-size sum over the conflict window
// against max capacity. When full, it proposes up to three future
// alternative times without re-validating them.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, bookingDate time.Time, partySize, restaurantID int) *entities.AvailabilityResult {
	restaurant, err := s.Restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &entities.AvailabilityResult{Available: false, Message: "Restaurant not found"}
		}
		log.Printf("Error loading restaurant %d for availability check: %v", restaurantID, err)
		return &entities.AvailabilityResult{
			Available: false,
			Message:   fmt.Sprintf("Error checking availability: %v", err),
		}
	}

	day := strings.ToLower(bookingDate.Weekday().String())
	hours, ok := restaurant.OpeningHours[day]
	if !ok || hours.Closed {
		return &entities.AvailabilityResult{
			Available: false,
			Message:   fmt.Sprintf("Restaurant is closed on %s", bookingDate.Weekday()),
		}
	}

	booked, err := s.Bookings.SumPartySizeInWindow(ctx, restaurantID,
		bookingDate.Add(-windowBefore), bookingDate.Add(windowAfter),
		[]db.BookingStatus{db.BookingPending, db.BookingConfirmed})
	if err != nil {
		log.Printf("Error summing booked seats for restaurant %d: %v", restaurantID, err)
		return &entities.AvailabilityResult{
			Available: false,
			Message:   fmt.Sprintf("Error checking availability: %v", err),
		}
	}

	if booked+partySize <= restaurant.MaxCapacity {
		return &entities.AvailabilityResult{Available: true, Message: "Table available"}
	}

	return &entities.AvailabilityResult{
		Available:      false,
		SuggestedTimes: s.suggestAlternatives(bookingDate),
		Message:        "Requested time not available. Here are some alternatives.",
	}
}

// suggestAlternatives applies the hour offsets in priority order and keeps
// times strictly in the future. Candidates are not checked for capacity.
func (s *AvailabilityService) suggestAlternatives(bookingDate time.Time) []time.Time {
	now := s.Now()
	var suggestions []time.Time
	for _, offset := range alternativeOffsets {
		alt := bookingDate.Add(offset)
		if alt.After(now) {
			suggestions = append(suggestions, alt)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}
