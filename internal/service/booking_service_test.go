package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prenotazioni/internal/db"
	apperrors "prenotazioni/internal/errors"
	"prenotazioni/internal/repository"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func newBookingFixture(t *testing.T) (*BookingService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.restaurant = testRestaurant()
	availability := NewAvailabilityService(store, store)
	availability.Now = func() time.Time {
		return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	}
	return NewBookingService(store, store, availability), store
}

func TestCreateBooking(t *testing.T) {
	svc, store := newBookingFixture(t)

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CreateBooking(context.Background(), "+15551234", "Maria", when, 4, "window seat", 1)

	require.True(t, result.Success, result.Message)
	require.NotNil(t, result.Booking)
	assert.Equal(t, db.BookingPending, result.Booking.Status)
	assert.Equal(t, 4, result.Booking.PartySize)
	assert.Equal(t, "window seat", result.Booking.SpecialRequests.String)
	assert.Regexp(t, codePattern, result.ConfirmationCode)

	// The caller was registered as a customer.
	customer, err := store.FindByPhone(context.Background(), "+15551234")
	require.NoError(t, err)
	assert.Equal(t, "Maria", customer.Name.String)
	assert.Equal(t, customer.ID, result.Booking.CustomerID)
}

func TestCreateBookingClosedDay(t *testing.T) {
	svc, _ := newBookingFixture(t)

	when := time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)
	result := svc.CreateBooking(context.Background(), "+15551234", "Maria", when, 4, "", 1)

	assert.False(t, result.Success)
	assert.Equal(t, "Restaurant is closed on Monday", result.Message)
}

func TestCreateBookingRetriesOnCodeCollision(t *testing.T) {
	svc, store := newBookingFixture(t)
	store.createErrs = []error{repository.ErrDuplicateCode}

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CreateBooking(context.Background(), "+15551234", "Maria", when, 4, "", 1)

	require.True(t, result.Success, result.Message)
	assert.Regexp(t, codePattern, result.ConfirmationCode)
}

func TestCreateBookingGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, store := newBookingFixture(t)
	for i := 0; i < codeAttempts; i++ {
		store.createErrs = append(store.createErrs, repository.ErrDuplicateCode)
	}

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CreateBooking(context.Background(), "+15551234", "Maria", when, 4, "", 1)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "confirmation code")
}

func TestCreateBookingOverbookedRace(t *testing.T) {
	svc, store := newBookingFixture(t)
	// The advisory check passes but a concurrent booking takes the seats
	// before the serialized insert.
	store.createErrs = []error{apperrors.ErrOverbooked}

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CreateBooking(context.Background(), "+15551234", "Maria", when, 4, "", 1)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "just filled up")
}

func TestCreateBookingNotifiesOnSuccess(t *testing.T) {
	svc, _ := newBookingFixture(t)
	notifier := &recordingNotifier{}
	svc.Notifier = notifier

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CreateBooking(context.Background(), "+15551234", "Maria", when, 4, "", 1)

	require.True(t, result.Success, result.Message)
	require.Len(t, notifier.bookings, 1)
	assert.Equal(t, result.Booking.ID, notifier.bookings[0].ID)
}

func TestCancelBooking(t *testing.T) {
	svc, _ := newBookingFixture(t)

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	created := svc.CreateBooking(context.Background(), "+15551234", "Maria", when, 4, "", 1)
	require.True(t, created.Success)

	result := svc.CancelBooking(context.Background(), created.ConfirmationCode)
	require.True(t, result.Success)
	assert.Equal(t, db.BookingCancelled, result.Booking.Status)

	// Cancelling again succeeds with a distinct message.
	result = svc.CancelBooking(context.Background(), created.ConfirmationCode)
	require.True(t, result.Success)
	assert.Equal(t, MsgAlreadyCancelled, result.Message)
}

func TestCancelBookingUnknownCode(t *testing.T) {
	svc, _ := newBookingFixture(t)

	result := svc.CancelBooking(context.Background(), "ZZZZZZ")

	assert.False(t, result.Success)
	assert.Equal(t, MsgBookingNotFound, result.Message)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newBookingFixture(t)

	result := svc.UpdateStatus(context.Background(), 1, db.BookingStatus("seated"))

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "seated")
}

func TestGetOrCreateCustomerKeepsFirstName(t *testing.T) {
	svc, _ := newBookingFixture(t)

	first := svc.GetOrCreateCustomer(context.Background(), "+15551234", "Maria")
	require.True(t, first.Success)

	// A later call with a different name returns the existing record.
	second := svc.GetOrCreateCustomer(context.Background(), "+15551234", "Someone Else")
	require.True(t, second.Success)
	assert.Equal(t, first.Customer.ID, second.Customer.ID)
	assert.Equal(t, "Maria", second.Customer.Name.String)
}

func TestGetOrCreateCustomerConcurrentFirstContact(t *testing.T) {
	svc, store := newBookingFixture(t)

	var wg sync.WaitGroup
	ids := make([]int, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result := svc.GetOrCreateCustomer(context.Background(), "+15551234", "Maria")
			if result.Success {
				ids[i] = result.Customer.ID
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, store.customers, 1)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestCreateBookingStoreFailure(t *testing.T) {
	svc, store := newBookingFixture(t)
	store.customerErr = errors.New("connection refused")

	when := time.Date(2025, 6, 6, 19, 0, 0, 0, time.UTC)
	result := svc.CreateBooking(context.Background(), "+15551234", "Maria", when, 4, "", 1)

	assert.False(t, result.Success)
	assert.Equal(t, apperrors.ErrStoreUnavailable.Error(), result.Message)
}

func TestStoreFailureMessageTimeout(t *testing.T) {
	assert.Contains(t, storeFailureMessage(context.DeadlineExceeded), "taking too long")
	assert.Equal(t, apperrors.ErrStoreUnavailable.Error(), storeFailureMessage(errors.New("boom")))
}

type recordingNotifier struct {
	mu       sync.Mutex
	bookings []*db.Booking
}

func (n *recordingNotifier) BookingConfirmed(customer *db.Customer, booking *db.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, booking)
}
