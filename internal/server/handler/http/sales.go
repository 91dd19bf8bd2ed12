package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/middleware"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/repository"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/service"
)

// SalesService defines the interface for inventory and sale operations
// required by the SalesHandler.
type SalesService interface {
	// AvailableVehicles lists vehicles on the lot, optionally filtered.
	AvailableVehicles(ctx context.Context, search string) ([]models.Vehicle, error)
	// RegisterSale validates and stores a sale for the given seller.
	RegisterSale(ctx context.Context, username string, draft models.SaleDraft) (*service.SaleConfirmation, error)
	// SalesBySeller fetches the seller's most recent sales.
	SalesBySeller(ctx context.Context, username string, limit int) (*service.SalesHistory, error)
}

// SalesHandler handles inventory and sale registration requests.
type SalesHandler struct {
	SalesService SalesService
}

// Vehicles handles GET /api/vehicles with an optional search query
// parameter.
func (h *SalesHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	vehicles, err := h.SalesService.AvailableVehicles(r.Context(), search)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":    len(vehicles),
		"vehicles": vehicles,
	})
}

// CreateSale handles POST /api/sales with a JSON sale draft.
func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUserFromContext(r.Context())

	var draft models.SaleDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}

	conf, err := h.SalesService.RegisterSale(r.Context(), username, draft)
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeDetail(w, http.StatusUnprocessableEntity, vErr.Detail)
		return
	case errors.Is(err, repository.ErrUserNotFound):
		writeDetail(w, http.StatusNotFound, "Usuario no encontrado")
		return
	case err != nil:
		writeDetail(w, http.StatusInternalServerError, "Error al registrar la venta")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Venta registrada exitosamente",
		"sale_id": conf.SaleID,
		"receipt": conf.Receipt,
	})
}

// MySales handles GET /api/sales/mine with an optional limit query
// parameter, clamped to 1..100 with a default of 50.
func (h *SalesHandler) MySales(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUserFromContext(r.Context())

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	history, err := h.SalesService.SalesBySeller(r.Context(), username, limit)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeDetail(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":  len(history.Sales),
		"seller": history.Seller,
		"branch": history.Branch,
		"sales":  history.Sales,
	})
}
