// Package search implements the vehicle picker: the inventory is loaded
// once and then filtered locally as the seller types.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdaniel1609/aplicacion-web-AutomotrizJJ-2/internal/models"
	"go.uber.org/zap"
)

// Loader is the slice of the API client the picker needs.
type Loader interface {
	FetchAvailableVehicles(ctx context.Context, search string) ([]models.Vehicle, error)
}

// Picker holds the candidate list, the free-text query and the current
// selection. It mirrors the search-select control of the sales screen:
// a dropdown that opens on focus and closes when the seller interacts
// elsewhere.
type Picker struct {
	loader Loader
	log    *zap.Logger

	vehicles []models.Vehicle
	query    string
	open     bool

	selectedID   int
	selectedText string
	selected     bool
}

// NewPicker returns an empty Picker. Call Load before filtering.
func NewPicker(loader Loader, log *zap.Logger) *Picker {
	return &Picker{loader: loader, log: log}
}

// Load fetches the full available-vehicle list once. A failed load is
// logged and leaves the list empty; the seller just sees no candidates.
func (p *Picker) Load(ctx context.Context) {
	vehicles, err := p.loader.FetchAvailableVehicles(ctx, "")
	if err != nil {
		p.log.Error("failed to load available vehicles", zap.Error(err))
		p.vehicles = nil
		return
	}
	p.vehicles = vehicles
}

// DisplayText is the composite label of a vehicle: "make model year".
func DisplayText(v models.Vehicle) string {
	return fmt.Sprintf("%s %s %d", v.Make, v.Model, v.Year)
}

// SetQuery updates the free-text query and opens the dropdown. Filtering
// is synchronous; there is nothing else to debounce.
func (p *Picker) SetQuery(q string) {
	p.query = q
	p.open = true
}

// Query returns the current query text.
func (p *Picker) Query() string {
	return p.query
}

// Filtered returns the vehicles matching the query: a blank query yields
// the full list, otherwise a case-insensitive substring match against the
// display text, preserving the original order.
func (p *Picker) Filtered() []models.Vehicle {
	if strings.TrimSpace(p.query) == "" {
		return p.vehicles
	}
	q := strings.ToLower(p.query)
	var out []models.Vehicle
	for _, v := range p.vehicles {
		if strings.Contains(strings.ToLower(DisplayText(v)), q) {
			out = append(out, v)
		}
	}
	return out
}

// Select picks the i-th entry of the current filtered list. The query
// becomes the vehicle's display text, the dropdown closes, and the
// selection is reported back to the caller.
func (p *Picker) Select(i int) (id int, text string, ok bool) {
	filtered := p.Filtered()
	if i < 0 || i >= len(filtered) {
		return 0, "", false
	}
	v := filtered[i]
	p.query = DisplayText(v)
	p.selectedID = v.ID
	p.selectedText = p.query
	p.selected = true
	p.open = false
	return p.selectedID, p.selectedText, true
}

// Selection returns the chosen vehicle id and display text, if any.
func (p *Picker) Selection() (id int, text string, ok bool) {
	return p.selectedID, p.selectedText, p.selected
}

// Focus opens the dropdown.
func (p *Picker) Focus() {
	p.open = true
}

// ClickOutside closes the dropdown without touching the selection.
func (p *Picker) ClickOutside() {
	p.open = false
}

// Open reports whether the dropdown is showing.
func (p *Picker) Open() bool {
	return p.open
}

// Reset clears the query and the selection, keeping the loaded list.
func (p *Picker) Reset() {
	p.query = ""
	p.selectedID = 0
	p.selectedText = ""
	p.selected = false
	p.open = false
}
