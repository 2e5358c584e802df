package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "prenotazioni/internal/errors"
	"prenotazioni/internal/service"
	"prenotazioni/internal/utils"
)

type BookingHandler struct {
	Bookings     *service.BookingService
	Availability *service.AvailabilityService
	RestaurantID int
}

func NewBookingHandler(bookings *service.BookingService, availability *service.AvailabilityService, restaurantID int) *BookingHandler {
	return &BookingHandler{
		Bookings:     bookings,
		Availability: availability,
		RestaurantID: restaurantID,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	when, err := utils.ParseBookingDateTime(req.BookingDate, req.BookingTime)
	if err != nil {
		http.Error(w, "Invalid date/time format, expected YYYY-MM-DD and HH:MM", http.StatusBadRequest)
		return
	}

	result := h.Bookings.CreateBooking(r.Context(), req.PhoneNumber, req.CustomerName,
		when, req.PartySize, req.SpecialRequests, h.RestaurantID)
	if !result.Success {
		writeJSON(w, http.StatusConflict, result)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	when, err := utils.ParseBookingDateTime(req.BookingDate, req.BookingTime)
	if err != nil {
		http.Error(w, "Invalid date/time format, expected YYYY-MM-DD and HH:MM", http.StatusBadRequest)
		return
	}

	result := h.Availability.CheckAvailability(r.Context(), when, req.PartySize, h.RestaurantID)
	writeJSON(w, http.StatusOK, result)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	booking, err := h.Bookings.FindByConfirmation(r.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			http.Error(w, "Booking not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error looking up booking", apperrors.StatusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "booking": booking})
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	result := h.Bookings.CancelBooking(r.Context(), code)
	if !result.Success {
		status := http.StatusInternalServerError
		if result.Message == service.MsgBookingNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetCustomer returns a customer's profile and upcoming bookings, creating
// the customer on first contact.
func (h *BookingHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]
	result := h.Bookings.GetOrCreateCustomer(r.Context(), phone, "")
	if !result.Success {
		http.Error(w, result.Message, http.StatusServiceUnavailable)
		return
	}

	bookings, err := h.Bookings.CustomerBookings(r.Context(), result.Customer.ID, false)
	if err != nil {
		http.Error(w, "Error listing bookings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"customer": result.Customer,
		"bookings": bookings,
	})
}
