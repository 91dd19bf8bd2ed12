package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
)

// SalesRepository defines the persistence operations needed by the SalesService.
type SalesRepository interface {
	// AvailableVehicles lists active, in-stock vehicles, optionally narrowed
	// by a search term.
	AvailableVehicles(ctx context.Context, search string) ([]models.Vehicle, error)
	// InsertSale stores a registered sale and returns its id.
	InsertSale(ctx context.Context, sellerID int, receipt string, draft models.SaleDraft, sellerName, province, district string) (int, error)
	// SalesBySeller fetches the seller's most recent sales, newest first.
	SalesBySeller(ctx context.Context, sellerID, limit int) ([]models.Sale, error)
}

// ValidationError rejects a sale draft with a detail fit for the client.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// SaleConfirmation is the result of a registered sale.
type SaleConfirmation struct {
	SaleID  int
	Receipt string
}

// SalesHistory is a seller's recent sales with the seller's identity.
type SalesHistory struct {
	Seller string
	Branch string
	Sales  []models.Sale
}

// SalesService implements the inventory listing and sale registration logic.
type SalesService struct {
	repo  SalesRepository
	users UserRepository
}

// NewSalesService constructs a SalesService with the provided repositories.
func NewSalesService(repo SalesRepository, users UserRepository) *SalesService {
	return &SalesService{repo: repo, users: users}
}

// AvailableVehicles lists the vehicles on the lot.
func (s *SalesService) AvailableVehicles(ctx context.Context, search string) ([]models.Vehicle, error) {
	return s.repo.AvailableVehicles(ctx, search)
}

// RegisterSale validates the draft, stamps it with the seller's identity
// and branch, assigns a receipt code and stores it.
func (s *SalesService) RegisterSale(ctx context.Context, username string, draft models.SaleDraft) (*SaleConfirmation, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup seller: %w", err)
	}

	receipt := uuid.NewString()
	id, err := s.repo.InsertSale(ctx, user.ID, receipt, draft,
		user.FullName, user.BranchProvince, user.BranchDistrict)
	if err != nil {
		return nil, err
	}
	return &SaleConfirmation{SaleID: id, Receipt: receipt}, nil
}

// SalesBySeller fetches the seller's most recent sales.
func (s *SalesService) SalesBySeller(ctx context.Context, username string, limit int) (*SalesHistory, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup seller: %w", err)
	}
	sales, err := s.repo.SalesBySeller(ctx, user.ID, limit)
	if err != nil {
		return nil, err
	}
	return &SalesHistory{
		Seller: user.FullName,
		Branch: user.BranchProvince + "/" + user.BranchDistrict,
		Sales:  sales,
	}, nil
}

func validateDraft(draft models.SaleDraft) error {
	if draft.VehicleID <= 0 {
		return &ValidationError{Detail: "Auto inválido"}
	}
	if draft.PurchaseType != models.PurchaseCash && draft.PurchaseType != models.PurchaseCredit {
		return &ValidationError{Detail: "Tipo de compra inválido"}
	}
	if draft.AmountFinancing == "" || draft.BuyerName == "" || draft.BuyerContact == "" {
		return &ValidationError{Detail: "Es obligatorio rellenar todos los campos"}
	}
	if len(draft.BuyerNationalID) != 8 {
		return &ValidationError{Detail: "El DNI debe tener exactamente 8 dígitos"}
	}
	for _, r := range draft.BuyerNationalID {
		if r < '0' || r > '9' {
			return &ValidationError{Detail: "El DNI debe tener exactamente 8 dígitos"}
		}
	}
	return nil
}
