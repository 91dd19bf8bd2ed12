package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "username", "password_hash", "full_name", "email", "role",
		"seller_code", "branch_province", "branch_district", "is_active",
	}).AddRow(1, "jperez", "$2a$10$hash", "Juan Pérez", "jperez@automotrizjj.pe",
		"seller", "V-001", "Lima", "Miraflores", true)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, password_hash")).
		WithArgs("jperez").
		WillReturnRows(rows)

	repo := NewPostgresUserRepository(db)
	u, err := repo.GetByUsername(context.Background(), "jperez")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u.Username != "jperez" || u.BranchProvince != "Lima" || u.SellerCode != "V-001" {
		t.Errorf("unexpected user: %+v", u)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, password_hash")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewPostgresUserRepository(db)
	_, err = repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v; want ErrUserNotFound", err)
	}
}

func TestGetByUsername_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, password_hash")).
		WithArgs("jperez").
		WillReturnError(errors.New("connection reset"))

	repo := NewPostgresUserRepository(db)
	_, err = repo.GetByUsername(context.Background(), "jperez")
	if err == nil || errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v; want wrapped query error", err)
	}
}
