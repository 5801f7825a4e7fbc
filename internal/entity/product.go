package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is an entry in the master catalog of everything we buy.
type Product struct {
	ID                  uuid.UUID  `json:"id"`
	ShortName           string     `json:"short_name"`             // human-readable name: "Cheese Block"
	Brand               string     `json:"brand,omitempty"`        // nullable for generic items like vegetables
	InvoiceName         string     `json:"invoice_name,omitempty"` // as printed on invoices, for OCR matching
	Category            string     `json:"category,omitempty"`
	Unit                string     `json:"unit"`
	CurrentPrice        *float64   `json:"current_price,omitempty"`
	CurrentPriceDate    *time.Time `json:"current_price_date,omitempty"`
	SupplierID          *uuid.UUID `json:"supplier_id,omitempty"` // main supplier for this product
	IsBackup            bool       `json:"is_backup"`
	UnitSize            *float64   `json:"unit_size,omitempty"` // how much one non-exact unit contains
	UnitSizeMeasurement string     `json:"unit_size_measurement,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// DisplayName returns "Short Name (Brand)" or just the short name.
func (p *Product) DisplayName() string {
	if p.Brand != "" {
		return p.ShortName + " (" + p.Brand + ")"
	}
	return p.ShortName
}

// InvoiceDropdownName returns the name used when attaching items to invoices.
func (p *Product) InvoiceDropdownName() string {
	if p.Brand != "" {
		return p.ShortName + " (" + p.Brand + " - " + p.Unit + ")"
	}
	return p.ShortName + " (" + p.Unit + ")"
}
