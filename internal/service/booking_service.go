package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"time"

	"prenotazioni/internal/db"
	"prenotazioni/internal/entities"
	apperrors "prenotazioni/internal/errors"
	"prenotazioni/internal/repository"
)

// codeAttempts bounds confirmation-code retries when an insert collides
// with an existing code.
const codeAttempts = 5

// MsgAlreadyCancelled marks the idempotent-cancel success so callers can
// phrase it differently from a fresh cancellation.
const MsgAlreadyCancelled = "This booking is already cancelled"

// MsgBookingNotFound is the failure message for unknown confirmation codes.
const MsgBookingNotFound = "No booking found with that confirmation code"

// BookingNotifier receives successful bookings for out-of-band confirmation
// (SMS, email). Implementations must not block the booking path.
type BookingNotifier interface {
	BookingConfirmed(customer *db.Customer, booking *db.Booking)
}

// BookingService orchestrates the reservation lifecycle: resolving the
// customer, gating on availability, issuing a confirmation code, and
// persisting the booking. Store failures never escape as errors; they
// become failure results with a speakable message.
type BookingService struct {
	Customers    CustomerStore
	Bookings     BookingStore
	Availability *AvailabilityService
	Notifier     BookingNotifier
}

func NewBookingService(customers CustomerStore, bookings BookingStore, availability *AvailabilityService) *BookingService {
	return &BookingService{
		Customers:    customers,
		Bookings:     bookings,
		Availability: availability,
	}
}

// CreateBooking runs the full create path. The availability check here is
// advisory; the authoritative capacity decision happens inside the store's
// serialized insert, which reports ErrOverbooked when a concurrent booking
// takes the remaining seats between check and insert.
func (s *BookingService) CreateBooking(ctx context.Context, phone, customerName string, bookingDate time.Time, partySize int, specialRequests string, restaurantID int) *entities.BookingResult {
	customer, err := s.Customers.GetOrCreate(ctx, phone, customerName)
	if err != nil {
		log.Printf("Error resolving customer %s: %v", phone, err)
		return &entities.BookingResult{Success: false, Message: storeFailureMessage(err)}
	}

	availability := s.Availability.CheckAvailability(ctx, bookingDate, partySize, restaurantID)
	if !availability.Available {
		return &entities.BookingResult{Success: false, Message: availability.Message}
	}

	booking := &db.Booking{
		CustomerID:   customer.ID,
		RestaurantID: restaurantID,
		BookingDate:  bookingDate,
		PartySize:    partySize,
		Status:       db.BookingPending,
	}
	if specialRequests != "" {
		booking.SpecialRequests = sql.NullString{String: specialRequests, Valid: true}
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := GenerateConfirmationCode()
		if err != nil {
			log.Printf("Error generating confirmation code: %v", err)
			return &entities.BookingResult{Success: false, Message: storeFailureMessage(err)}
		}
		booking.ConfirmationCode = code

		err = s.Bookings.Create(ctx, booking)
		if err == nil {
			if s.Notifier != nil {
				s.Notifier.BookingConfirmed(customer, booking)
			}
			return &entities.BookingResult{
				Success:          true,
				Message:          "Booking created successfully",
				Booking:          booking,
				ConfirmationCode: code,
			}
		}
		if errors.Is(err, repository.ErrDuplicateCode) {
			log.Printf("Confirmation code collision on %s, retrying", code)
			continue
		}
		if errors.Is(err, apperrors.ErrOverbooked) {
			return &entities.BookingResult{
				Success: false,
				Message: "Sorry, that time just filled up. Would you like to try another time?",
			}
		}
		log.Printf("Error creating booking: %v", err)
		return &entities.BookingResult{Success: false, Message: storeFailureMessage(err)}
	}

	return &entities.BookingResult{Success: false, Message: "Could not issue a confirmation code, please try again"}
}

// FindByConfirmation looks a booking up by its code. Unknown codes surface
// as ErrNotFound.
func (s *BookingService) FindByConfirmation(ctx context.Context, code string) (*db.Booking, error) {
	return s.Bookings.FindByConfirmationCode(ctx, code)
}

// CancelBooking cancels the booking behind a confirmation code. Cancelling
// an already-cancelled booking is a success with a distinct message, not an
// error.
func (s *BookingService) CancelBooking(ctx context.Context, code string) *entities.BookingResult {
	booking, err := s.Bookings.FindByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &entities.BookingResult{Success: false, Message: MsgBookingNotFound}
		}
		log.Printf("Error finding booking %s for cancellation: %v", code, err)
		return &entities.BookingResult{Success: false, Message: storeFailureMessage(err)}
	}

	if booking.Status == db.BookingCancelled {
		return &entities.BookingResult{
			Success: true,
			Message: MsgAlreadyCancelled,
			Booking: booking,
		}
	}

	updated, err := s.Bookings.UpdateStatus(ctx, booking.ID, db.BookingCancelled)
	if err != nil {
		log.Printf("Error cancelling booking %d: %v", booking.ID, err)
		return &entities.BookingResult{Success: false, Message: storeFailureMessage(err)}
	}
	return &entities.BookingResult{Success: true, Message: "Booking cancelled", Booking: updated}
}

// UpdateStatus writes a new status unconditionally; unknown booking IDs fail.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int, status db.BookingStatus) *entities.BookingResult {
	if !status.Valid() {
		return &entities.BookingResult{Success: false, Message: fmt.Sprintf("Unknown booking status %q", status)}
	}
	updated, err := s.Bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &entities.BookingResult{Success: false, Message: "Booking not found"}
		}
		log.Printf("Error updating booking %d status: %v", bookingID, err)
		return &entities.BookingResult{Success: false, Message: storeFailureMessage(err)}
	}
	return &entities.BookingResult{
		Success: true,
		Message: fmt.Sprintf("Booking status updated to %s", status),
		Booking: updated,
	}
}

// GetOrCreateCustomer resolves a customer by phone, creating one on first
// contact.
func (s *BookingService) GetOrCreateCustomer(ctx context.Context, phone, name string) *entities.CustomerResult {
	customer, err := s.Customers.GetOrCreate(ctx, phone, name)
	if err != nil {
		log.Printf("Error in get-or-create for %s: %v", phone, err)
		return &entities.CustomerResult{Success: false, Message: storeFailureMessage(err)}
	}
	return &entities.CustomerResult{Success: true, Message: "Customer found", Customer: customer}
}

// CustomerBookings lists a customer's upcoming bookings.
func (s *BookingService) CustomerBookings(ctx context.Context, customerID int, includePast bool) ([]db.Booking, error) {
	return s.Bookings.ListForCustomer(ctx, customerID, includePast)
}

// storeFailureMessage keeps raw store errors behind a polite message while
// still distinguishing timeouts.
func storeFailureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "The reservation system is taking too long to respond, please try again"
	}
	return apperrors.ErrStoreUnavailable.Error()
}
