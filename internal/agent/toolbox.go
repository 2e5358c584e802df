package agent

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"prenotazioni/internal/service"
	"prenotazioni/internal/utils"
)

// toolTimeout bounds every store round-trip made on behalf of a live call.
// A hung query must not hang the caller on the phone.
const toolTimeout = 5 * time.Second

// Toolbox is the set of named operations exposed to the conversational
// layer. Every method takes primitive arguments and returns text meant to
// be spoken back to the caller; failures come back as polite sentences,
// never as errors.
type Toolbox struct {
	Bookings     *service.BookingService
	Availability *service.AvailabilityService
	Menu         *service.MenuService
	Restaurant   *service.RestaurantService
	RestaurantID int

	// Tracker, when set, links created bookings to the active call log.
	Tracker *service.CallTracker
}

func NewToolbox(bookings *service.BookingService, availability *service.AvailabilityService, menu *service.MenuService, restaurant *service.RestaurantService, restaurantID int) *Toolbox {
	return &Toolbox{
		Bookings:     bookings,
		Availability: availability,
		Menu:         menu,
		Restaurant:   restaurant,
		RestaurantID: restaurantID,
	}
}

func (t *Toolbox) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, toolTimeout)
}

const formatHint = "Please provide the date in YYYY-MM-DD format and time in HH:MM format (24-hour)."

// CreateBooking books a table and answers with the confirmation code.
func (t *Toolbox) CreateBooking(ctx context.Context, customerName, phoneNumber, bookingDate, bookingTime string, partySize int, specialRequests string) string {
	when, err := utils.ParseBookingDateTime(bookingDate, bookingTime)
	if err != nil {
		return formatHint
	}

	ctx, cancel := t.bound(ctx)
	defer cancel()

	result := t.Bookings.CreateBooking(ctx, phoneNumber, customerName, when, partySize, specialRequests, t.RestaurantID)
	if !result.Success {
		return fmt.Sprintf("Sorry, %s", lowerFirst(result.Message))
	}

	if t.Tracker != nil && result.Booking != nil {
		t.Tracker.AttachBooking(ctx, result.Booking.ID)
	}

	return fmt.Sprintf("Booking confirmed! Your confirmation code is %s. "+
		"We have you down for %d people on %s at %s. We look forward to seeing you!",
		result.ConfirmationCode, partySize, bookingDate, bookingTime)
}

// CheckAvailability answers whether a slot is open and offers alternatives.
func (t *Toolbox) CheckAvailability(ctx context.Context, bookingDate, bookingTime string, partySize int) string {
	when, err := utils.ParseBookingDateTime(bookingDate, bookingTime)
	if err != nil {
		return formatHint
	}

	ctx, cancel := t.bound(ctx)
	defer cancel()

	result := t.Availability.CheckAvailability(ctx, when, partySize, t.RestaurantID)
	if result.Available {
		return fmt.Sprintf("Great news! We have availability for %d people on %s at %s.",
			partySize, bookingDate, bookingTime)
	}

	message := fmt.Sprintf("Sorry, we don't have availability for %d people on %s at %s. ",
		partySize, bookingDate, bookingTime)
	if len(result.SuggestedTimes) > 0 {
		spoken := make([]string, len(result.SuggestedTimes))
		for i, alt := range result.SuggestedTimes {
			spoken[i] = utils.SpeakableTime(alt)
		}
		message += fmt.Sprintf("How about one of these alternative times: %s?", strings.Join(spoken, ", "))
	} else {
		message += lowerFirst(result.Message)
	}
	return message
}

// FindBooking looks up a reservation by confirmation code.
func (t *Toolbox) FindBooking(ctx context.Context, confirmationCode string) string {
	ctx, cancel := t.bound(ctx)
	defer cancel()

	booking, err := t.Bookings.FindByConfirmation(ctx, confirmationCode)
	if err != nil {
		return "I couldn't find a booking with that confirmation code. Could you please double-check the code?"
	}
	return fmt.Sprintf("I found your booking: %d people on %s. Status: %s.",
		booking.PartySize, utils.SpeakableDate(booking.BookingDate), booking.Status)
}

// CancelBooking cancels a reservation by confirmation code.
func (t *Toolbox) CancelBooking(ctx context.Context, confirmationCode string) string {
	ctx, cancel := t.bound(ctx)
	defer cancel()

	result := t.Bookings.CancelBooking(ctx, confirmationCode)
	if !result.Success {
		return fmt.Sprintf("I'm sorry, %s.", lowerFirst(result.Message))
	}
	if result.Message == service.MsgAlreadyCancelled {
		return service.MsgAlreadyCancelled + "."
	}
	if result.Booking != nil {
		return fmt.Sprintf("Your booking for %d people on %s has been cancelled.",
			result.Booking.PartySize, utils.SpeakableDate(result.Booking.BookingDate))
	}
	return "Your booking has been cancelled."
}

// MenuInfo answers menu questions, by category or search term.
func (t *Toolbox) MenuInfo(ctx context.Context, category, searchTerm string) string {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.Menu.Describe(ctx, category, searchTerm)
}

// RestaurantInfo answers questions about hours, location, or ambience.
func (t *Toolbox) RestaurantInfo(ctx context.Context, infoType string) string {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	return t.Restaurant.Describe(ctx, infoType)
}

// SpecialRequest notes a special request and routes seating, dietary, and
// event asks toward the manager.
func (t *Toolbox) SpecialRequest(ctx context.Context, requestType, details string) string {
	managerPhone := os.Getenv("MANAGER_PHONE")
	if managerPhone == "" {
		managerPhone = "+1234567890"
	}

	switch {
	case containsAnyKeyword(requestType, "seat", "table", "location", "view", "private", "booth"):
		return fmt.Sprintf("I understand you have a special seating request: %s. "+
			"For specific seating arrangements I'd be happy to connect you with our manager at %s, "+
			"or I can note this request and have them call you back. Which would you prefer?",
			details, managerPhone)
	case containsAnyKeyword(requestType, "dietary", "allergy", "food", "kitchen"):
		return fmt.Sprintf("I've noted your dietary request: %s. "+
			"Our kitchen team is very accommodating with dietary restrictions and allergies, "+
			"and I'll make sure this information is included with your reservation.", details)
	case containsAnyKeyword(requestType, "event", "celebration", "party", "occasion"):
		return fmt.Sprintf("That sounds wonderful! I've noted: %s. "+
			"For special celebrations our manager at %s can help arrange decorations or special menus.",
			details, managerPhone)
	}
	return fmt.Sprintf("I've noted your special request: %s. I'll include this with your reservation.", details)
}

func containsAnyKeyword(s string, keywords ...string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
