package entities

import "time"

// AvailabilityResult reports whether a requested slot can be admitted.
// SuggestedTimes are candidate alternatives only. They are not re-checked
// against capacity; the caller re-validates whichever slot is chosen.
type AvailabilityResult struct {
	Available      bool        `json:"available"`
	SuggestedTimes []time.Time `json:"suggested_times,omitempty"`
	Message        string      `json:"message"`
}
