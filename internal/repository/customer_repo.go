package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prenotazioni/internal/db"
	apperrors "prenotazioni/internal/errors"
)

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(database *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: database}
}

const customerColumns = `id, phone_number, name, email, preferences, created_at, updated_at`

func scanCustomer(row *sql.Row) (*db.Customer, error) {
	var c db.Customer
	err := row.Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.Email, &c.Preferences, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*db.Customer, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone_number = $1`, phone)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer with phone '%s': %w", phone, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying customer by phone: %w", err)
	}
	return c, nil
}

// GetOrCreate returns the customer keyed by phone number, inserting one if
// none exists. An existing customer's name is never overwritten here; only
// Update does that. Two concurrent first-time calls resolve to a single row
// through the unique constraint on phone_number: the losing insert returns
// no row and falls back to a lookup.
func (r *CustomerRepository) GetOrCreate(ctx context.Context, phone, name string) (*db.Customer, error) {
	c, err := r.FindByPhone(ctx, phone)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	var nullableName sql.NullString
	if name != "" {
		nullableName = sql.NullString{String: name, Valid: true}
	}
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO customers (phone_number, name)
		VALUES ($1, $2)
		ON CONFLICT (phone_number) DO NOTHING
		RETURNING `+customerColumns,
		phone, nullableName)
	c, err = scanCustomer(row)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("error inserting customer: %w", err)
	}

	// Lost the insert race; the row exists now.
	return r.FindByPhone(ctx, phone)
}

// Update overwrites the provided fields; nil pointers leave a field untouched.
func (r *CustomerRepository) Update(ctx context.Context, id int, name, email, preferences *string) (*db.Customer, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE customers
		SET name        = COALESCE($1, name),
		    email       = COALESCE($2, email),
		    preferences = COALESCE($3, preferences),
		    updated_at  = NOW()
		WHERE id = $4
		RETURNING `+customerColumns,
		name, email, preferences, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error updating customer: %w", err)
	}
	return c, nil
}
