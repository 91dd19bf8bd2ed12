// Package saleform collects and validates the sale registration form and
// drives the submission against the sales API.
package saleform

import (
	"context"
	"strconv"
	"strings"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/client/api"
	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"go.uber.org/zap"
)

// dialogTitle heads every result dialog of the sales screen.
const dialogTitle = "Gestor de Ventas"

// Dialog kinds.
const (
	KindSuccess = "success"
	KindError   = "error"
)

// Validation failure kinds.
const (
	ValidationMissingFields = "missing-fields"
	ValidationInvalidID     = "invalid-id"
)

// User-facing messages, first failing rule wins.
const (
	msgMissingFields = "⚠️ Es obligatorio rellenar todos los campos"
	msgInvalidID     = "⚠️ El DNI debe tener exactamente 8 dígitos"
	msgSubmitOK      = "💾 Registro de venta completado con éxito."
	msgSubmitFailed  = "⚠️ Error al registrar la venta. Por favor intente nuevamente."
)

// Dialog is the transient result dialog shown after a submit attempt.
type Dialog struct {
	Open    bool
	Title   string
	Message string
	Kind    string
}

// Fields holds the raw user input. The vehicle id stays text until submit,
// when it is parsed to an integer for the wire.
type Fields struct {
	VehicleID       string
	VehicleText     string
	PurchaseType    string
	AmountFinancing string
	BuyerName       string
	BuyerNationalID string
	BuyerContact    string
}

// Submitter is the slice of the API client the form needs.
type Submitter interface {
	SubmitSale(ctx context.Context, draft models.SaleDraft) (*api.SaleConfirmation, error)
}

// Form owns the draft, the submitting flag and the result dialog.
type Form struct {
	submitter Submitter
	log       *zap.Logger

	Fields     Fields
	submitting bool
	dialog     Dialog
}

// New returns an empty Form.
func New(submitter Submitter, log *zap.Logger) *Form {
	return &Form{submitter: submitter, log: log}
}

// SetVehicle records the picker's selection.
func (f *Form) SetVehicle(id int, text string) {
	f.Fields.VehicleID = strconv.Itoa(id)
	f.Fields.VehicleText = text
}

// Validate applies the form rules in order and returns the kind of the
// first failing one: every required field must be non-empty after
// trimming, then the buyer's national id must be exactly 8 digits.
func (f *Form) Validate() (kind string, ok bool) {
	required := []string{
		f.Fields.VehicleID,
		f.Fields.PurchaseType,
		f.Fields.AmountFinancing,
		f.Fields.BuyerName,
		f.Fields.BuyerNationalID,
		f.Fields.BuyerContact,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return ValidationMissingFields, false
		}
	}

	dni := strings.TrimSpace(f.Fields.BuyerNationalID)
	if len(dni) != 8 {
		return ValidationInvalidID, false
	}
	for _, r := range dni {
		if r < '0' || r > '9' {
			return ValidationInvalidID, false
		}
	}
	return "", true
}

// Submit validates the form and registers the sale. Validation failures
// never reach the network. While a submission is in flight further calls
// are rejected. The returned dialog is also retained on the form.
func (f *Form) Submit(ctx context.Context) Dialog {
	if f.submitting {
		return f.dialog
	}

	if kind, ok := f.Validate(); !ok {
		switch kind {
		case ValidationInvalidID:
			return f.showDialog(KindError, msgInvalidID)
		default:
			return f.showDialog(KindError, msgMissingFields)
		}
	}

	vehicleID, err := strconv.Atoi(strings.TrimSpace(f.Fields.VehicleID))
	if err != nil {
		f.log.Error("invalid vehicle id in form", zap.String("vehicle_id", f.Fields.VehicleID))
		return f.showDialog(KindError, msgSubmitFailed)
	}

	f.submitting = true
	defer func() { f.submitting = false }()

	draft := models.SaleDraft{
		VehicleID:       vehicleID,
		PurchaseType:    f.Fields.PurchaseType,
		AmountFinancing: f.Fields.AmountFinancing,
		BuyerName:       f.Fields.BuyerName,
		BuyerNationalID: f.Fields.BuyerNationalID,
		BuyerContact:    f.Fields.BuyerContact,
	}

	conf, err := f.submitter.SubmitSale(ctx, draft)
	if err != nil {
		// The cause goes to the log; the seller gets a generic retry message.
		f.log.Error("failed to register sale", zap.Error(err))
		return f.showDialog(KindError, msgSubmitFailed)
	}

	f.log.Info("sale registered",
		zap.Int("sale_id", conf.SaleID),
		zap.String("receipt", conf.Receipt),
		zap.Int("vehicle_id", vehicleID))

	f.Fields = Fields{}
	return f.showDialog(KindSuccess, msgSubmitOK)
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	return f.submitting
}

// Dialog returns the last result dialog.
func (f *Form) Dialog() Dialog {
	return f.dialog
}

// CloseDialog dismisses the result dialog.
func (f *Form) CloseDialog() {
	f.dialog.Open = false
}

func (f *Form) showDialog(kind, message string) Dialog {
	f.dialog = Dialog{Open: true, Title: dialogTitle, Message: message, Kind: kind}
	return f.dialog
}
