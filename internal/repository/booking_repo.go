package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/lib/pq"

	"prenotazioni/internal/db"
	apperrors "prenotazioni/internal/errors"
)

// ErrDuplicateCode reports that an insert hit the per-restaurant unique
// index on confirmation codes. The lifecycle retries with a fresh code.
var ErrDuplicateCode = errors.New("confirmation code already in use")

const uniqueViolation = "23505"

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `id, customer_id, restaurant_id, booking_date, party_size, status,
	special_requests, confirmation_code, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(&b.ID, &b.CustomerID, &b.RestaurantID, &b.BookingDate, &b.PartySize,
		&b.Status, &b.SpecialRequests, &b.ConfirmationCode, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if !b.Status.Valid() {
		return nil, fmt.Errorf("booking %d has unknown status %q", b.ID, b.Status)
	}
	return &b, nil
}

// SumPartySizeInWindow totals party sizes of bookings for a restaurant whose
// booking_date falls inside [start, end] and whose status is one of statuses.
func (r *BookingRepository) SumPartySizeInWindow(ctx context.Context, restaurantID int, start, end time.Time, statuses []db.BookingStatus) (int, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	var total int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(party_size), 0)
		FROM bookings
		WHERE restaurant_id = $1
		  AND booking_date >= $2 AND booking_date <= $3
		  AND status = ANY($4)`,
		restaurantID, start, end, pq.Array(names)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error summing booked party sizes: %w", err)
	}
	return total, nil
}

// Create inserts a booking after re-validating capacity inside a single
// transaction. The restaurant row is locked FOR UPDATE first, which
// serializes creations per restaurant, so the sum it reads cannot be
// invalidated by a concurrent insert between check and write.
//
// Returns ErrOverbooked when the locked re-check fails and ErrDuplicateCode
// when the confirmation code collides.
func (r *BookingRepository) Create(ctx context.Context, b *db.Booking) error {
	if !b.Status.Valid() {
		return fmt.Errorf("refusing to insert booking with status %q", b.Status)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("Error rolling back booking transaction: %v", err)
		}
	}()

	var maxCapacity int
	err = tx.QueryRowContext(ctx,
		`SELECT max_capacity FROM restaurants WHERE id = $1 FOR UPDATE`,
		b.RestaurantID).Scan(&maxCapacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("restaurant %d: %w", b.RestaurantID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("error locking restaurant row: %w", err)
	}

	windowStart := b.BookingDate.Add(-1 * time.Hour)
	windowEnd := b.BookingDate.Add(2 * time.Hour)
	var booked int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(party_size), 0)
		FROM bookings
		WHERE restaurant_id = $1
		  AND booking_date >= $2 AND booking_date <= $3
		  AND status = ANY($4)`,
		b.RestaurantID, windowStart, windowEnd,
		pq.Array([]string{string(db.BookingPending), string(db.BookingConfirmed)})).Scan(&booked)
	if err != nil {
		return fmt.Errorf("error re-checking capacity: %w", err)
	}
	if booked+b.PartySize > maxCapacity {
		return apperrors.ErrOverbooked
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings
			(customer_id, restaurant_id, booking_date, party_size, status, special_requests, confirmation_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		b.CustomerID, b.RestaurantID, b.BookingDate, b.PartySize, b.Status,
		b.SpecialRequests, b.ConfirmationCode,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("code %s: %w", b.ConfirmationCode, ErrDuplicateCode)
		}
		return fmt.Errorf("error inserting booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByConfirmationCode(ctx context.Context, code string) (*db.Booking, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE confirmation_code = $1
		 ORDER BY created_at DESC LIMIT 1`, code)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s': %w", code, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying booking by code: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int, status db.BookingStatus) (*db.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("refusing to set unknown booking status %q", status)
	}
	row := r.DB.QueryRowContext(ctx, `
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+bookingColumns,
		status, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error updating booking status: %w", err)
	}
	return b, nil
}

// ListForCustomer returns a customer's bookings, soonest first. Past
// bookings are excluded unless includePast is set.
func (r *BookingRepository) ListForCustomer(ctx context.Context, customerID int, includePast bool) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1`
	args := []interface{}{customerID}
	if !includePast {
		query += ` AND booking_date >= NOW()`
	}
	query += ` ORDER BY booking_date`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing customer bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, nil
}

// List supports the admin view with optional date and status filters.
func (r *BookingRepository) List(ctx context.Context, restaurantID int, date, status string) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE restaurant_id = $1`
	args := []interface{}{restaurantID}
	idx := 2

	if date != "" {
		query += ` AND DATE(booking_date) = $` + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += ` ORDER BY booking_date DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, nil
}
