package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prenotazioni/internal/db"
	apperrors "prenotazioni/internal/errors"
)

type RestaurantRepository struct {
	DB *sql.DB
}

func NewRestaurantRepository(database *sql.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: database}
}

func (r *RestaurantRepository) GetRestaurant(ctx context.Context, id int) (*db.Restaurant, error) {
	var rest db.Restaurant
	query := `
		SELECT id, name, address, phone, email, opening_hours, max_capacity, created_at, updated_at
		FROM restaurants WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&rest.ID, &rest.Name, &rest.Address, &rest.Phone, &rest.Email,
		&rest.OpeningHours, &rest.MaxCapacity, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("restaurant %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying restaurant %d: %w", id, err)
	}
	return &rest, nil
}

// UpdateCapacity sets a restaurant's max simultaneous seats.
func (r *RestaurantRepository) UpdateCapacity(ctx context.Context, id, maxCapacity int) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE restaurants SET max_capacity = $1, updated_at = NOW() WHERE id = $2`,
		maxCapacity, id)
	if err != nil {
		return fmt.Errorf("error updating restaurant capacity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("restaurant %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateOpeningHours replaces the full weekly schedule.
func (r *RestaurantRepository) UpdateOpeningHours(ctx context.Context, id int, hours db.OpeningHours) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE restaurants SET opening_hours = $1, updated_at = NOW() WHERE id = $2`,
		hours, id)
	if err != nil {
		return fmt.Errorf("error updating opening hours: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("restaurant %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
