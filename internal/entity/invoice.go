package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/constants"
)

// Invoice represents a bill received from a supplier.
type Invoice struct {
	ID              uuid.UUID                `json:"id"`
	SupplierID      uuid.UUID                `json:"supplier_id"`
	InvoiceNumber   string                   `json:"invoice_number,omitempty"`
	InvoiceDate     time.Time                `json:"invoice_date"`
	DueDate         *time.Time               `json:"due_date,omitempty"`
	TotalAmount     float64                  `json:"total_amount"`
	PaymentStatus   constants.PaymentStatus  `json:"payment_status"`
	PaymentDate     *time.Time               `json:"payment_date,omitempty"`
	PaymentMethod   *constants.PaymentMethod `json:"payment_method,omitempty"`
	InvoiceFilePath string                   `json:"invoice_file_path,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	NeedsReview     bool                     `json:"needs_review"` // flag for "details to check"
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// InvoiceItem is a line item on an invoice.
type InvoiceItem struct {
	ID          uuid.UUID  `json:"id"`
	InvoiceID   uuid.UUID  `json:"invoice_id"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductName string     `json:"product_name"`
	Category    string     `json:"category,omitempty"`
	Quantity    float64    `json:"quantity"`
	Unit        string     `json:"unit"`
	UnitPrice   float64    `json:"unit_price"`
	TotalPrice  float64    `json:"total_price"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
