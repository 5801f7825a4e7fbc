package entity

import (
	"time"

	"github.com/google/uuid"
)

// PriceHistory tracks the price paid for a product on a given invoice.
type PriceHistory struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	InvoiceID  uuid.UUID `json:"invoice_id"`
	Price      float64   `json:"price"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

// DashboardNote is the shared scratchpad for work notes. There is a single row.
type DashboardNote struct {
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updated_at"`
}
