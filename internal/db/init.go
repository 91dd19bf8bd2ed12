package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'seller',
    seller_code TEXT NOT NULL DEFAULT '',
    branch_province TEXT NOT NULL DEFAULT '',
    branch_district TEXT NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS vehicles (
    id SERIAL PRIMARY KEY,
    make TEXT NOT NULL,
    model TEXT NOT NULL,
    year INT NOT NULL,
    reference_price NUMERIC(12,2),
    stock INT NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    deactivated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS sales (
    id SERIAL PRIMARY KEY,
    receipt TEXT UNIQUE NOT NULL,
    seller_id INT NOT NULL REFERENCES users(id),
    vehicle_id INT NOT NULL REFERENCES vehicles(id),
    purchase_type TEXT NOT NULL,
    amount_or_financing TEXT NOT NULL,
    buyer_name TEXT NOT NULL,
    buyer_national_id TEXT NOT NULL,
    buyer_contact TEXT NOT NULL,
    seller_name TEXT NOT NULL,
    branch_province TEXT NOT NULL,
    branch_district TEXT NOT NULL,
    sold_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
