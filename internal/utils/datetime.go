package utils

import (
	"fmt"
	"time"

	apperrors "prenotazioni/internal/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ParseBookingDateTime combines a YYYY-MM-DD date and a 24-hour HH:MM time
// into a single timestamp. Malformed input returns ErrInvalidFormat so
// callers can answer with a format hint instead of a generic failure.
func ParseBookingDateTime(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", apperrors.ErrInvalidFormat, date, clock)
	}
	return t, nil
}

// SpeakableTime renders a timestamp the way the voice agent says it,
// e.g. "7:30 PM".
func SpeakableTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// SpeakableDate renders a timestamp for confirmations,
// e.g. "June 1, 2025 at 7:30 PM".
func SpeakableDate(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}
