package repository

import (
	"context"
	"database/sql"
	"fmt"

	"prenotazioni/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// SweepPastBookings transitions bookings whose date has passed the grace
// window: confirmed ones are assumed honored and become completed, pending
// ones were never confirmed and become no_show. Returns IDs per transition.
func (r *JobRepository) SweepPastBookings(ctx context.Context) (completed, noShow []int, err error) {
	completed, err = r.transitionPast(ctx, db.BookingConfirmed, db.BookingCompleted)
	if err != nil {
		return nil, nil, err
	}
	noShow, err = r.transitionPast(ctx, db.BookingPending, db.BookingNoShow)
	if err != nil {
		return completed, nil, err
	}
	return completed, noShow, nil
}

func (r *JobRepository) transitionPast(ctx context.Context, from, to db.BookingStatus) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND booking_date < NOW() - interval '2 hours'
		RETURNING id`,
		to, from)
	if err != nil {
		return nil, fmt.Errorf("error sweeping %s bookings to %s: %w", from, to, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning swept booking id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after sweeping bookings: %w", err)
	}
	return ids, nil
}

// CloseStaleCalls marks calls still open after the cutoff as failed so the
// log does not accumulate sessions that never received an end event.
func (r *JobRepository) CloseStaleCalls(ctx context.Context) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE call_logs
		SET status = $1
		WHERE call_end IS NULL
		  AND status IN ($2, $3)
		  AND call_start < NOW() - interval '6 hours'`,
		db.CallFailed, db.CallIncoming, db.CallAnswered)
	if err != nil {
		return 0, fmt.Errorf("error closing stale call logs: %w", err)
	}
	return result.RowsAffected()
}
