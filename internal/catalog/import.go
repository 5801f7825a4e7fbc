// Package catalog imports supplier/product master data from JSON documents.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/constants"
	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
	"github.com/diegomarmat/chela-suppliers/internal/repository"
)

type supplierDoc struct {
	ShortName         string `json:"short_name"`
	CompanyName       string `json:"company_name"`
	Category          string `json:"category"`
	ContactPerson     string `json:"contact_person"`
	OrderPhone        string `json:"order_phone"`
	AdminPhone        string `json:"admin_phone"`
	Email             string `json:"email"`
	PaymentTerms      string `json:"payment_terms"`
	PPNHandling       string `json:"ppn_handling"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankAccountName   string `json:"bank_account_name"`
	DeliveryDays      string `json:"delivery_days"`
	Notes             string `json:"notes"`
}

type productDoc struct {
	ShortName           string   `json:"short_name"`
	Brand               string   `json:"brand"`
	InvoiceName         string   `json:"invoice_name"`
	Category            string   `json:"category"`
	Unit                string   `json:"unit"`
	SupplierShortName   string   `json:"supplier_short_name"`
	IsBackup            bool     `json:"is_backup"`
	UnitSize            *float64 `json:"unit_size"`
	UnitSizeMeasurement string   `json:"unit_size_measurement"`
	CurrentPrice        *float64 `json:"current_price"`
	Notes               string   `json:"notes"`
}

type document struct {
	Suppliers []supplierDoc `json:"suppliers"`
	Products  []productDoc  `json:"products"`
}

// Summary reports what an import did.
type Summary struct {
	SuppliersCreated int `json:"suppliers_created"`
	SuppliersUpdated int `json:"suppliers_updated"`
	ProductsCreated  int `json:"products_created"`
	ProductsUpdated  int `json:"products_updated"`
}

// Importer upserts catalog documents through the repositories.
type Importer struct {
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	logger    *slog.Logger
}

func NewImporter(suppliers repository.SupplierRepository, products repository.ProductRepository, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		suppliers: suppliers,
		products:  products,
		logger:    logger,
	}
}

// Import validates the document and upserts its suppliers and products.
// Suppliers are keyed by short name, products by short name + brand.
func (im *Importer) Import(ctx context.Context, data []byte) (*Summary, error) {
	if err := validateDocument(data); err != nil {
		return nil, common.NewAppError("CATALOG_INVALID", "catalog document rejected", errors.Join(common.ErrValidation, err))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, common.NewAppError("CATALOG_INVALID", "catalog document rejected", errors.Join(common.ErrValidation, err))
	}

	summary := &Summary{}
	for _, sd := range doc.Suppliers {
		if err := im.upsertSupplier(ctx, sd, summary); err != nil {
			return nil, err
		}
	}
	for _, pd := range doc.Products {
		if err := im.upsertProduct(ctx, pd, summary); err != nil {
			return nil, err
		}
	}

	im.logger.Info("catalog.import.ok",
		"suppliers_created", summary.SuppliersCreated,
		"suppliers_updated", summary.SuppliersUpdated,
		"products_created", summary.ProductsCreated,
		"products_updated", summary.ProductsUpdated)
	return summary, nil
}

func (im *Importer) upsertSupplier(ctx context.Context, sd supplierDoc, summary *Summary) error {
	ppn := constants.PPNIncluded
	if sd.PPNHandling != "" {
		ppn = constants.PPNHandling(sd.PPNHandling)
	}

	existing, err := im.suppliers.GetByShortName(ctx, sd.ShortName)
	switch {
	case err == nil:
		existing.CompanyName = sd.CompanyName
		existing.Category = sd.Category
		existing.ContactPerson = sd.ContactPerson
		existing.OrderPhone = sd.OrderPhone
		existing.AdminPhone = sd.AdminPhone
		existing.Email = sd.Email
		existing.PaymentTerms = constants.PaymentTerms(sd.PaymentTerms)
		existing.PPNHandling = ppn
		existing.BankName = sd.BankName
		existing.BankAccountNumber = sd.BankAccountNumber
		existing.BankAccountName = sd.BankAccountName
		existing.DeliveryDays = sd.DeliveryDays
		existing.Notes = sd.Notes
		if _, err := im.suppliers.Update(ctx, existing); err != nil {
			return err
		}
		summary.SuppliersUpdated++
		return nil
	case errors.Is(err, common.ErrNotFound):
		_, err := im.suppliers.Create(ctx, &entity.Supplier{
			ShortName:         sd.ShortName,
			CompanyName:       sd.CompanyName,
			Category:          sd.Category,
			ContactPerson:     sd.ContactPerson,
			OrderPhone:        sd.OrderPhone,
			AdminPhone:        sd.AdminPhone,
			Email:             sd.Email,
			PaymentTerms:      constants.PaymentTerms(sd.PaymentTerms),
			PPNHandling:       ppn,
			BankName:          sd.BankName,
			BankAccountNumber: sd.BankAccountNumber,
			BankAccountName:   sd.BankAccountName,
			DeliveryDays:      sd.DeliveryDays,
			Notes:             sd.Notes,
		})
		if err != nil {
			return err
		}
		summary.SuppliersCreated++
		return nil
	default:
		return err
	}
}

func (im *Importer) upsertProduct(ctx context.Context, pd productDoc, summary *Summary) error {
	var supplierID *uuid.UUID
	if pd.SupplierShortName != "" {
		sup, err := im.suppliers.GetByShortName(ctx, pd.SupplierShortName)
		if errors.Is(err, common.ErrNotFound) {
			return common.NewAppError("CATALOG_INVALID",
				"product '"+pd.ShortName+"' references unknown supplier '"+pd.SupplierShortName+"'",
				common.ErrValidation)
		}
		if err != nil {
			return err
		}
		supplierID = &sup.ID
	}

	canonical, _ := constants.CanonicalizeUnit(pd.Unit)
	unit := string(canonical)

	var priceDate *time.Time
	if pd.CurrentPrice != nil {
		now := time.Now().UTC()
		priceDate = &now
	}

	existing, err := im.products.GetByShortName(ctx, pd.ShortName, pd.Brand)
	switch {
	case err == nil:
		existing.InvoiceName = pd.InvoiceName
		existing.Category = pd.Category
		existing.Unit = unit
		existing.SupplierID = supplierID
		existing.IsBackup = pd.IsBackup
		existing.UnitSize = pd.UnitSize
		existing.UnitSizeMeasurement = pd.UnitSizeMeasurement
		existing.Notes = pd.Notes
		if pd.CurrentPrice != nil {
			existing.CurrentPrice = pd.CurrentPrice
			existing.CurrentPriceDate = priceDate
		}
		if _, err := im.products.Update(ctx, existing); err != nil {
			return err
		}
		summary.ProductsUpdated++
		return nil
	case errors.Is(err, common.ErrNotFound):
		_, err := im.products.Create(ctx, &entity.Product{
			ShortName:           pd.ShortName,
			Brand:               pd.Brand,
			InvoiceName:         pd.InvoiceName,
			Category:            pd.Category,
			Unit:                unit,
			SupplierID:          supplierID,
			IsBackup:            pd.IsBackup,
			UnitSize:            pd.UnitSize,
			UnitSizeMeasurement: pd.UnitSizeMeasurement,
			CurrentPrice:        pd.CurrentPrice,
			CurrentPriceDate:    priceDate,
			Notes:               pd.Notes,
		})
		if err != nil {
			return err
		}
		summary.ProductsCreated++
		return nil
	default:
		return err
	}
}
