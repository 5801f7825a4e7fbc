package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/constants"
)

// Supplier represents a supplier we buy from, for data transfer between layers.
type Supplier struct {
	ID                uuid.UUID              `json:"id"`
	CompanyName       string                 `json:"company_name"` // official/legal name
	ShortName         string                 `json:"short_name"`   // fantasy name/nickname
	Category          string                 `json:"category,omitempty"`
	ContactPerson     string                 `json:"contact_person,omitempty"`
	OrderPhone        string                 `json:"order_phone,omitempty"`
	AdminPhone        string                 `json:"admin_phone,omitempty"`
	Email             string                 `json:"email,omitempty"`
	PaymentTerms      constants.PaymentTerms `json:"payment_terms"`
	PPNHandling       constants.PPNHandling  `json:"ppn_handling"`
	BankName          string                 `json:"bank_name,omitempty"`
	BankAccountNumber string                 `json:"bank_account_number,omitempty"`
	BankAccountName   string                 `json:"bank_account_name,omitempty"`
	DeliveryDays      string                 `json:"delivery_days,omitempty"` // e.g. "Mon, Wed, Fri"
	IsActive          bool                   `json:"is_active"`
	Notes             string                 `json:"notes,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}
