package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
)

// PostgresSalesRepository implements inventory and sale persistence
// against a PostgreSQL database.
type PostgresSalesRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresSalesRepository creates a new PostgresSalesRepository using
// the provided *sql.DB.
func NewPostgresSalesRepository(db *sql.DB) *PostgresSalesRepository {
	return &PostgresSalesRepository{DB: db}
}

// AvailableVehicles lists active, in-stock vehicles ordered by year DESC,
// make, model. A non-empty search narrows by case-insensitive substring
// over make, model and year.
func (r *PostgresSalesRepository) AvailableVehicles(ctx context.Context, search string) ([]models.Vehicle, error) {
	query := `
		SELECT id, make, model, year, COALESCE(reference_price, 0), stock
		  FROM vehicles
		 WHERE is_active = true AND stock > 0
	`
	args := []any{}
	if search != "" {
		query += ` AND (make ILIKE $1 OR model ILIKE $1 OR CAST(year AS TEXT) LIKE $2)`
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	query += ` ORDER BY year DESC, make, model`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("AvailableVehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.ReferencePrice, &v.Stock); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// InsertSale stores a registered sale and returns its id.
func (r *PostgresSalesRepository) InsertSale(ctx context.Context, sellerID int, receipt string, draft models.SaleDraft, sellerName, province, district string) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO sales (
			receipt, seller_id, vehicle_id, purchase_type, amount_or_financing,
			buyer_name, buyer_national_id, buyer_contact,
			seller_name, branch_province, branch_district
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, receipt, sellerID, draft.VehicleID, draft.PurchaseType, draft.AmountFinancing,
		draft.BuyerName, draft.BuyerNationalID, draft.BuyerContact,
		sellerName, province, district,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("InsertSale: %w", err)
	}
	return id, nil
}

// SalesBySeller fetches the seller's most recent sales, newest first.
func (r *PostgresSalesRepository) SalesBySeller(ctx context.Context, sellerID, limit int) ([]models.Sale, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, receipt, vehicle_id, purchase_type, amount_or_financing,
		       buyer_name, buyer_national_id, buyer_contact,
		       seller_name, branch_province, branch_district,
		       TO_CHAR(sold_at, 'YYYY-MM-DD HH24:MI:SS')
		  FROM sales
		 WHERE seller_id = $1
		 ORDER BY sold_at DESC
		 LIMIT $2
	`, sellerID, limit)
	if err != nil {
		return nil, fmt.Errorf("SalesBySeller: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(
			&s.ID, &s.Receipt, &s.VehicleID, &s.PurchaseType, &s.AmountFinancing,
			&s.BuyerName, &s.BuyerNationalID, &s.BuyerContact,
			&s.SellerName, &s.BranchProvince, &s.BranchDistrict, &s.SoldAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
