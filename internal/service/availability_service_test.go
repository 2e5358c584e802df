package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prenotazioni/internal/db"
)

func testRestaurant() *db.Restaurant {
	return &db.Restaurant{
		ID:          1,
		Name:        "La Tavola",
		MaxCapacity: 50,
		OpeningHours: db.OpeningHours{
			"tuesday":   {Open: "17:00", Close: "22:00"},
			"wednesday": {Open: "17:00", Close: "22:00"},
			"thursday":  {Open: "17:00", Close: "22:00"},
			"friday":    {Open: "17:00", Close: "23:00"},
			"saturday":  {Open: "12:00", Close: "23:00"},
			"sunday":    {Open: "12:00", Close: "21:00"},
		},
	}
}

func newAvailabilityFixture(t *testing.T) (*AvailabilityService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.restaurant = testRestaurant()
	svc := NewAvailabilityService(store, store)
	svc.Now = func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	}
	return svc, store
}

func TestCheckAvailabilityOpenSlot(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	// Friday evening, nothing booked.
	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CheckAvailability(context.Background(), when, 4, 1)

	assert.True(t, result.Available)
	assert.Equal(t, "Table available", result.Message)
	assert.Empty(t, result.SuggestedTimes)
}

func TestCheckAvailabilityClosedDay(t *testing.T) {
	svc, _ := newAvailabilityFixture(t)

	// Monday has no opening-hours entry.
	when := time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)
	result := svc.CheckAvailability(context.Background(), when, 2, 1)

	assert.False(t, result.Available)
	assert.Equal(t, "Restaurant is closed on Monday", result.Message)
}

func TestCheckAvailabilityExplicitlyClosedDay(t *testing.T) {
	svc, store := newAvailabilityFixture(t)
	store.restaurant.OpeningHours["friday"] = db.DayHours{Closed: true}

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CheckAvailability(context.Background(), when, 2, 1)

	assert.False(t, result.Available)
	assert.Equal(t, "Restaurant is closed on Friday", result.Message)
}

func TestCheckAvailabilityCountsConflictWindow(t *testing.T) {
	svc, store := newAvailabilityFixture(t)

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	store.bookings = []*db.Booking{
		// Inside [18:00, 21:00]: counts.
		{ID: 1, RestaurantID: 1, BookingDate: when.Add(-30 * time.Minute), PartySize: 20, Status: db.BookingConfirmed},
		{ID: 2, RestaurantID: 1, BookingDate: when.Add(90 * time.Minute), PartySize: 25, Status: db.BookingPending},
		// Outside the window: ignored.
		{ID: 3, RestaurantID: 1, BookingDate: when.Add(-2 * time.Hour), PartySize: 30, Status: db.BookingConfirmed},
		// Cancelled never counts.
		{ID: 4, RestaurantID: 1, BookingDate: when, PartySize: 30, Status: db.BookingCancelled},
	}

	// 45 seats taken, 5 left.
	result := svc.CheckAvailability(context.Background(), when, 5, 1)
	assert.True(t, result.Available)

	result = svc.CheckAvailability(context.Background(), when, 6, 1)
	assert.False(t, result.Available)
}

func TestCheckAvailabilityFullSuggestsAlternatives(t *testing.T) {
	svc, store := newAvailabilityFixture(t)

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	store.bookings = []*db.Booking{
		{ID: 1, RestaurantID: 1, BookingDate: when, PartySize: 45, Status: db.BookingConfirmed},
	}

	result := svc.CheckAvailability(context.Background(), when, 10, 1)

	assert.False(t, result.Available)
	assert.Equal(t, "Requested time not available. Here are some alternatives.", result.Message)
	require.Len(t, result.SuggestedTimes, 3)
	// Offsets are tried nearest-first: -1h, +1h, -2h.
	assert.Equal(t, when.Add(-1*time.Hour), result.SuggestedTimes[0])
	assert.Equal(t, when.Add(1*time.Hour), result.SuggestedTimes[1])
	assert.Equal(t, when.Add(-2*time.Hour), result.SuggestedTimes[2])
}

func TestSuggestedTimesAreFutureOnly(t *testing.T) {
	svc, store := newAvailabilityFixture(t)

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	store.bookings = []*db.Booking{
		{ID: 1, RestaurantID: 1, BookingDate: when, PartySize: 50, Status: db.BookingConfirmed},
	}
	// The call happens half an hour before the requested slot, so every
	// earlier offset is already in the past.
	svc.Now = func() time.Time {
		return time.Date(2025, 6, 6, 18, 30, 0, 0, time.UTC)
	}

	result := svc.CheckAvailability(context.Background(), when, 2, 1)

	assert.False(t, result.Available)
	require.Len(t, result.SuggestedTimes, 3)
	assert.Equal(t, when.Add(1*time.Hour), result.SuggestedTimes[0])
	assert.Equal(t, when.Add(2*time.Hour), result.SuggestedTimes[1])
	assert.Equal(t, when.Add(3*time.Hour), result.SuggestedTimes[2])
}

func TestCheckAvailabilityRestaurantMissing(t *testing.T) {
	svc, store := newAvailabilityFixture(t)
	store.restaurant = nil

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CheckAvailability(context.Background(), when, 2, 1)

	assert.False(t, result.Available)
	assert.Equal(t, "Restaurant not found", result.Message)
}

func TestCheckAvailabilityStoreFailure(t *testing.T) {
	svc, store := newAvailabilityFixture(t)
	store.sumErr = errors.New("connection refused")

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CheckAvailability(context.Background(), when, 2, 1)

	assert.False(t, result.Available)
	assert.Contains(t, result.Message, "Error checking availability")
}
