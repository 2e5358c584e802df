package api

import "prenotazioni/internal/db"

// Bookings
type CreateBookingRequest struct {
	CustomerName    string `json:"customer_name"`
	PhoneNumber     string `json:"phone_number"`
	BookingDate     string `json:"booking_date"` // YYYY-MM-DD
	BookingTime     string `json:"booking_time"` // HH:MM, 24-hour
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type AvailabilityRequest struct {
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
	PartySize   int    `json:"party_size"`
}

// Call sessions
type CallStartRequest struct {
	PhoneNumber string `json:"phone_number"`
	Purpose     string `json:"purpose,omitempty"`
}

type CallEndRequest struct {
	CallLogID  int    `json:"call_log_id"`
	Transcript string `json:"transcript,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type OutboundCallRequest struct {
	PhoneNumber string `json:"phone_number"`
	Purpose     string `json:"purpose,omitempty"`
}

// Menu
type MenuSearchRequest struct {
	SearchTerm string `json:"search_term,omitempty"`
	Category   string `json:"category,omitempty"`
}

// Special requests
type SpecialRequestRequest struct {
	RequestType   string `json:"request_type"`
	Details       string `json:"details"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

// Admin
type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}

type UpdateRestaurantRequest struct {
	MaxCapacity  *int            `json:"max_capacity,omitempty"`
	OpeningHours db.OpeningHours `json:"opening_hours,omitempty"`
}
