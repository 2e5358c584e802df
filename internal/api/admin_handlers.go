package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"prenotazioni/internal/db"
	"prenotazioni/internal/repository"
	"prenotazioni/internal/service"
)

type AdminHandler struct {
	Bookings     *service.BookingService
	BookingRepo  *repository.BookingRepository
	Restaurants  *repository.RestaurantRepository
	RestaurantID int
}

func NewAdminHandler(bookings *service.BookingService, bookingRepo *repository.BookingRepository, restaurants *repository.RestaurantRepository, restaurantID int) *AdminHandler {
	return &AdminHandler{
		Bookings:     bookings,
		BookingRepo:  bookingRepo,
		Restaurants:  restaurants,
		RestaurantID: restaurantID,
	}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	if status != "" && !db.BookingStatus(status).Valid() {
		http.Error(w, "Unknown booking status", http.StatusBadRequest)
		return
	}

	bookings, err := h.BookingRepo.List(r.Context(), h.RestaurantID, date, status)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if bookings == nil {
		bookings = []db.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	var req UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.Bookings.UpdateStatus(r.Context(), id, db.BookingStatus(req.Status))
	if !result.Success {
		status := http.StatusInternalServerError
		if result.Message == "Booking not found" {
			status = http.StatusNotFound
		} else if !db.BookingStatus(req.Status).Valid() {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateRestaurant adjusts capacity and/or opening hours.
func (h *AdminHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req UpdateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.MaxCapacity != nil {
		if *req.MaxCapacity <= 0 {
			http.Error(w, "max_capacity must be positive", http.StatusBadRequest)
			return
		}
		if err := h.Restaurants.UpdateCapacity(r.Context(), h.RestaurantID, *req.MaxCapacity); err != nil {
			http.Error(w, "Could not update capacity", http.StatusInternalServerError)
			return
		}
	}
	if req.OpeningHours != nil {
		if err := h.Restaurants.UpdateOpeningHours(r.Context(), h.RestaurantID, req.OpeningHours); err != nil {
			http.Error(w, "Could not update opening hours", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Restaurant updated"})
}
