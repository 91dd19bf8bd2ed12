// Package models defines the core data structures shared by the seller
// terminal client and the sales API server.
package models

// UserProfile describes the logged-in seller. It is returned by the login
// and /auth/me endpoints and cached by the client alongside the token.
type UserProfile struct {
	// Username is the login name of the seller.
	Username string `json:"username"`
	// FullName is the seller's display name.
	FullName string `json:"full_name"`
	// Email is the seller's contact address.
	Email string `json:"email"`
	// Role is the access role ("seller", "admin").
	Role string `json:"role"`
	// SellerCode is the internal seller identifier printed on receipts.
	SellerCode string `json:"seller_code"`
	// BranchProvince and BranchDistrict locate the seller's branch.
	BranchProvince string `json:"branch_province"`
	BranchDistrict string `json:"branch_district"`
	// Branch is the display label "<province>/<district>", derived at login.
	Branch string `json:"branch,omitempty"`
}

// Vehicle is one entry of the available-vehicle inventory.
type Vehicle struct {
	ID    int    `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	// ReferencePrice is the suggested price in soles, zero when unset.
	ReferencePrice float64 `json:"reference_price,omitempty"`
	// Stock is the number of units on the lot, zero when unknown.
	Stock int `json:"stock,omitempty"`
}

// SaleDraft is an in-progress sale as collected by the form. Field names
// match the registration endpoint's JSON body.
type SaleDraft struct {
	VehicleID       int    `json:"vehicle_id"`
	PurchaseType    string `json:"purchase_type"`
	AmountFinancing string `json:"amount_or_financing"`
	BuyerName       string `json:"buyer_name"`
	BuyerNationalID string `json:"buyer_national_id"`
	BuyerContact    string `json:"buyer_contact"`
}

// Sale is a registered sale record as returned by the sales-history endpoint.
type Sale struct {
	ID              int    `json:"id"`
	Receipt         string `json:"receipt"`
	VehicleID       int    `json:"vehicle_id"`
	PurchaseType    string `json:"purchase_type"`
	AmountFinancing string `json:"amount_or_financing"`
	BuyerName       string `json:"buyer_name"`
	BuyerNationalID string `json:"buyer_national_id"`
	BuyerContact    string `json:"buyer_contact"`
	SellerName      string `json:"seller_name"`
	BranchProvince  string `json:"branch_province"`
	BranchDistrict  string `json:"branch_district"`
	SoldAt          string `json:"sold_at"`
}

// PurchaseType values accepted on the wire.
const (
	PurchaseCash   = "Cash"
	PurchaseCredit = "Credit"
)

// User is the server-side seller record with credentials.
type User struct {
	// ID is the unique identifier of the seller.
	ID int
	// Username is the login name.
	Username string
	// PasswordHash is the bcrypt hash of the password.
	PasswordHash   string
	FullName       string
	Email          string
	Role           string
	SellerCode     string
	BranchProvince string
	BranchDistrict string
	// IsActive marks whether the seller may still log in.
	IsActive bool
}

// Profile derives the wire profile of the user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		Username:       u.Username,
		FullName:       u.FullName,
		Email:          u.Email,
		Role:           u.Role,
		SellerCode:     u.SellerCode,
		BranchProvince: u.BranchProvince,
		BranchDistrict: u.BranchDistrict,
	}
}
