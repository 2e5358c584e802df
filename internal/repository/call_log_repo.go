package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prenotazioni/internal/db"
	"prenotazioni/internal/entities"
	apperrors "prenotazioni/internal/errors"
)

type CallLogRepository struct {
	DB *sql.DB
}

func NewCallLogRepository(database *sql.DB) *CallLogRepository {
	return &CallLogRepository{DB: database}
}

const callLogColumns = `id, customer_id, phone_number, call_start, call_end, duration_seconds,
	status, purpose, booking_id, transcript, agent_notes, created_at`

func scanCallLog(row interface{ Scan(...interface{}) error }) (*db.CallLog, error) {
	var cl db.CallLog
	err := row.Scan(&cl.ID, &cl.CustomerID, &cl.PhoneNumber, &cl.CallStart, &cl.CallEnd,
		&cl.DurationSeconds, &cl.Status, &cl.Purpose, &cl.BookingID, &cl.Transcript,
		&cl.AgentNotes, &cl.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func (r *CallLogRepository) Insert(ctx context.Context, cl *db.CallLog) error {
	if !cl.Status.Valid() {
		return fmt.Errorf("refusing to insert call log with status %q", cl.Status)
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO call_logs (customer_id, phone_number, call_start, status, purpose)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		cl.CustomerID, cl.PhoneNumber, cl.CallStart, cl.Status, cl.Purpose,
	).Scan(&cl.ID, &cl.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting call log: %w", err)
	}
	return nil
}

// End stamps call_end, derives duration_seconds from the stored call_start,
// and records the final status plus optional transcript and notes.
// duration_seconds is written only here, when both timestamps exist.
func (r *CallLogRepository) End(ctx context.Context, id int, callEnd time.Time, status db.CallStatus, transcript, notes *string) (*db.CallLog, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("refusing to set unknown call status %q", status)
	}
	row := r.DB.QueryRowContext(ctx, `
		UPDATE call_logs
		SET call_end         = $1,
		    duration_seconds = EXTRACT(EPOCH FROM ($1::timestamptz - call_start))::int,
		    status           = $2,
		    transcript       = COALESCE($3, transcript),
		    agent_notes      = COALESCE($4, agent_notes)
		WHERE id = $5
		RETURNING `+callLogColumns,
		callEnd, status, transcript, notes, id)
	cl, err := scanCallLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("call log %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error ending call log: %w", err)
	}
	return cl, nil
}

// LinkBooking associates a call with the booking it produced.
func (r *CallLogRepository) LinkBooking(ctx context.Context, id, bookingID int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE call_logs SET booking_id = $1 WHERE id = $2`, bookingID, id)
	if err != nil {
		return fmt.Errorf("error linking booking to call log: %w", err)
	}
	return nil
}

// Analytics aggregates call activity over the trailing number of days.
func (r *CallLogRepository) Analytics(ctx context.Context, days int) (*entities.CallAnalytics, error) {
	stats := entities.CallAnalytics{PeriodDays: days}
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'missed'),
			COALESCE(AVG(duration_seconds) FILTER (WHERE duration_seconds IS NOT NULL), 0),
			COUNT(booking_id)
		FROM call_logs
		WHERE call_start >= NOW() - make_interval(days => $1)`,
		days,
	).Scan(&stats.TotalCalls, &stats.CompletedCalls, &stats.MissedCalls,
		&stats.AverageDurationSeconds, &stats.BookingsCreated)
	if err != nil {
		return nil, fmt.Errorf("error aggregating call analytics: %w", err)
	}
	return &stats, nil
}
