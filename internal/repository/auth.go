// Package repository provides persistence implementations for the
// authentication and sales services.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
)

// ErrUserNotFound is returned when no active user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// PostgresUserRepository implements seller lookups against PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetByUsername fetches an active seller by login name. Returns
// ErrUserNotFound when no such seller exists.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, full_name, email, role,
		       seller_code, branch_province, branch_district, is_active
		  FROM users
		 WHERE username = $1 AND is_active = true
	`, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role,
		&u.SellerCode, &u.BranchProvince, &u.BranchDistrict, &u.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: %w", err)
	}
	return &u, nil
}
