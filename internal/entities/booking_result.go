package entities

import "prenotazioni/internal/db"

// BookingResult is the outcome of a lifecycle operation (create, cancel,
// status update). Failures carry a human-readable message instead of an
// error so the conversational layer can speak them back directly.
type BookingResult struct {
	Success          bool        `json:"success"`
	Message          string      `json:"message"`
	Booking          *db.Booking `json:"booking,omitempty"`
	ConfirmationCode string      `json:"confirmation_code,omitempty"`
}

type CustomerResult struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Customer *db.Customer `json:"customer,omitempty"`
}
