package entities

// CallAnalytics aggregates call activity over a trailing window of days.
type CallAnalytics struct {
	PeriodDays             int     `json:"period_days"`
	TotalCalls             int     `json:"total_calls"`
	CompletedCalls         int     `json:"completed_calls"`
	MissedCalls            int     `json:"missed_calls"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
	BookingsCreated        int     `json:"bookings_created"`
}
