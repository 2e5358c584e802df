package db

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// BookingStatus values are the only ones accepted by the bookings table.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted, BookingNoShow:
		return true
	}
	return false
}

// CallStatus values are the only ones accepted by the call_logs table.
type CallStatus string

const (
	CallIncoming  CallStatus = "incoming"
	CallAnswered  CallStatus = "answered"
	CallMissed    CallStatus = "missed"
	CallCompleted CallStatus = "completed"
	CallFailed    CallStatus = "failed"
)

func (s CallStatus) Valid() bool {
	switch s {
	case CallIncoming, CallAnswered, CallMissed, CallCompleted, CallFailed:
		return true
	}
	return false
}

// DayHours is one day's entry in a restaurant's opening hours.
// Closed days either carry Closed=true or have no entry at all.
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// OpeningHours maps lowercase weekday names ("monday"...) to hours.
// Stored as JSONB.
type OpeningHours map[string]DayHours

func (h OpeningHours) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *OpeningHours) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	case nil:
		*h = nil
		return nil
	}
	return fmt.Errorf("cannot scan opening hours from %T", src)
}

type Customer struct {
	ID          int
	PhoneNumber string
	Name        sql.NullString
	Email       sql.NullString
	Preferences sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Restaurant struct {
	ID           int
	Name         string
	Address      string
	Phone        string
	Email        sql.NullString
	OpeningHours OpeningHours
	MaxCapacity  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Booking struct {
	ID               int
	CustomerID       int
	RestaurantID     int
	BookingDate      time.Time
	PartySize        int
	Status           BookingStatus
	SpecialRequests  sql.NullString
	ConfirmationCode string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CallLog struct {
	ID              int
	CustomerID      sql.NullInt64
	PhoneNumber     string
	CallStart       time.Time
	CallEnd         sql.NullTime
	DurationSeconds sql.NullInt64
	Status          CallStatus
	Purpose         sql.NullString
	BookingID       sql.NullInt64
	Transcript      sql.NullString
	AgentNotes      sql.NullString
	CreatedAt       time.Time
}

type MenuItem struct {
	ID           int
	RestaurantID int
	Category     string
	ItemName     string
	Description  sql.NullString
	Price        float64
	Allergens    pq.StringArray
	IsAvailable  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
