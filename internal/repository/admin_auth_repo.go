package repository

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}

type AdminAuthRepository interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	CreateAdmin(ctx context.Context, email, password string) error
}

type adminAuthRepository struct {
	db *sql.DB
}

func NewAdminAuthRepository(database *sql.DB) AdminAuthRepository {
	return &adminAuthRepository{db: database}
}

func (r *adminAuthRepository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var admin Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash FROM admins WHERE email = $1`, email).
		Scan(&admin.ID, &admin.Email, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminAuthRepository) CreateAdmin(ctx context.Context, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO admins (email, password_hash) VALUES ($1, $2)`, email, hashed)
	return err
}
