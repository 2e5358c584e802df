package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"prenotazioni/internal/db"
)

type MenuRepository struct {
	DB *sql.DB
}

func NewMenuRepository(database *sql.DB) *MenuRepository {
	return &MenuRepository{DB: database}
}

const menuColumns = `id, restaurant_id, category, item_name, description, price,
	allergens, is_available, created_at, updated_at`

func (r *MenuRepository) collect(rows *sql.Rows) ([]db.MenuItem, error) {
	defer rows.Close()

	var items []db.MenuItem
	for rows.Next() {
		var m db.MenuItem
		err := rows.Scan(&m.ID, &m.RestaurantID, &m.Category, &m.ItemName, &m.Description,
			&m.Price, &m.Allergens, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning menu item: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating menu items: %w", err)
	}
	return items, nil
}

// List returns available items, optionally limited to one category.
func (r *MenuRepository) List(ctx context.Context, restaurantID int, category string) ([]db.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu
		WHERE restaurant_id = $1 AND is_available = TRUE`
	args := []interface{}{restaurantID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY category, item_name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing menu: %w", err)
	}
	return r.collect(rows)
}

// Search matches available items by name or description, case-insensitively.
func (r *MenuRepository) Search(ctx context.Context, restaurantID int, term string) ([]db.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuColumns+` FROM menu
		WHERE restaurant_id = $1 AND is_available = TRUE
		  AND (item_name ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY category, item_name`,
		restaurantID, term)
	if err != nil {
		return nil, fmt.Errorf("error searching menu: %w", err)
	}
	return r.collect(rows)
}

// Seed inserts sample items for a fresh install. Existing rows are left alone.
func (r *MenuRepository) Seed(ctx context.Context, restaurantID int, items []db.MenuItem) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM menu WHERE restaurant_id = $1`, restaurantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting menu items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, m := range items {
		_, err := r.DB.ExecContext(ctx, `
			INSERT INTO menu (restaurant_id, category, item_name, description, price, allergens, is_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			restaurantID, m.Category, m.ItemName, m.Description, m.Price,
			pq.StringArray(m.Allergens), m.IsAvailable)
		if err != nil {
			return inserted, fmt.Errorf("error seeding menu item %q: %w", m.ItemName, err)
		}
		inserted++
	}
	return inserted, nil
}
