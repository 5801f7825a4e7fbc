package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/constants"
	"github.com/diegomarmat/chela-suppliers/internal/billing"
	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
	"github.com/diegomarmat/chela-suppliers/internal/repository"
)

const dateLayout = "2006-01-02"

type invoiceItemRequest struct {
	ProductID   *string `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Notes       string  `json:"notes"`
}

type createInvoiceRequest struct {
	SupplierID      string               `json:"supplier_id"`
	InvoiceNumber   string               `json:"invoice_number"`
	InvoiceDate     string               `json:"invoice_date"` // YYYY-MM-DD
	DueDate         string               `json:"due_date"`     // optional, computed from terms when empty
	TotalAmount     float64              `json:"total_amount"`
	NeedsReview     bool                 `json:"needs_review"`
	InvoiceFilePath string               `json:"invoice_file_path"`
	Notes           string               `json:"notes"`
	Items           []invoiceItemRequest `json:"items"`
}

func (req *createInvoiceRequest) validate() error {
	v := common.NewValidator()
	v.Field("supplier_id", req.SupplierID, common.Required, common.UUID)
	v.Field("invoice_date", req.InvoiceDate, common.Required)
	v.Field("total_amount", req.TotalAmount, common.Positive)
	for _, item := range req.Items {
		v.Field("items.product_name", item.ProductName, common.Required)
		v.Field("items.quantity", item.Quantity, common.Positive)
		v.Field("items.unit_price", item.UnitPrice, common.Positive)
		if item.ProductID != nil {
			v.Field("items.product_id", *item.ProductID, common.UUID)
		}
	}
	return common.ValidateAndReturnError(v)
}

func (s *Server) handleCreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.InvalidArgumentError("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, err)
		return
	}

	invoiceDate, err := time.Parse(dateLayout, req.InvoiceDate)
	if err != nil {
		s.respondError(c, common.InvalidArgumentError("invoice_date must be YYYY-MM-DD"))
		return
	}

	supplierID := uuid.MustParse(req.SupplierID) // validated above
	sup, err := s.suppliers.GetByID(c.Request.Context(), supplierID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var dueDate time.Time
	if req.DueDate != "" {
		dueDate, err = time.Parse(dateLayout, req.DueDate)
		if err != nil {
			s.respondError(c, common.InvalidArgumentError("due_date must be YYYY-MM-DD"))
			return
		}
	} else {
		dueDate = billing.DueDate(invoiceDate, sup.PaymentTerms)
	}

	inv := &entity.Invoice{
		SupplierID:      supplierID,
		InvoiceNumber:   req.InvoiceNumber,
		InvoiceDate:     invoiceDate,
		DueDate:         &dueDate,
		TotalAmount:     req.TotalAmount,
		NeedsReview:     req.NeedsReview,
		InvoiceFilePath: req.InvoiceFilePath,
		Notes:           req.Notes,
	}

	items := make([]*entity.InvoiceItem, 0, len(req.Items))
	for _, ir := range req.Items {
		unit, _ := constants.CanonicalizeUnit(ir.Unit)
		item := &entity.InvoiceItem{
			ProductName: ir.ProductName,
			Category:    ir.Category,
			Quantity:    ir.Quantity,
			Unit:        string(unit),
			UnitPrice:   ir.UnitPrice,
			Notes:       ir.Notes,
		}
		if ir.ProductID != nil {
			pid := uuid.MustParse(*ir.ProductID) // validated above
			item.ProductID = &pid
		}
		items = append(items, item)
	}

	created, err := s.invoices.CreateWithItems(c.Request.Context(), inv, items)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": created, "items": items})
}

func (s *Server) handleListInvoices(c *gin.Context) {
	var filter repository.InvoiceFilter

	if raw := c.Query("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(c, common.InvalidArgumentError("supplier_id must be a valid UUID"))
			return
		}
		filter.SupplierID = &id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			s.respondError(c, common.InvalidArgumentError("from must be YYYY-MM-DD"))
			return
		}
		filter.FromDate = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			s.respondError(c, common.InvalidArgumentError("to must be YYYY-MM-DD"))
			return
		}
		filter.ToDate = &t
	}
	if raw := c.Query("status"); raw != "" {
		status := constants.PaymentStatus(raw)
		filter.Status = &status
	}

	result, err := s.invoices.List(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetInvoice(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	inv, items, err := s.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": inv, "items": items})
}

type updatePaymentRequest struct {
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	PaymentDate   string `json:"payment_date"` // YYYY-MM-DD, defaults to today for paid
}

func (s *Server) handleUpdatePayment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.InvalidArgumentError("invalid request body"))
		return
	}

	v := common.NewValidator()
	v.Field("status", req.Status, common.OneOf(
		string(constants.StatusPending), string(constants.StatusPaid), string(constants.StatusOverdue)))
	if req.PaymentMethod != "" {
		v.Field("payment_method", req.PaymentMethod, common.OneOf(
			string(constants.MethodCash), string(constants.MethodTransfer)))
	}
	if err := common.ValidateAndReturnError(v); err != nil {
		s.respondError(c, err)
		return
	}

	status := constants.PaymentStatus(req.Status)

	var method *constants.PaymentMethod
	if req.PaymentMethod != "" {
		m := constants.PaymentMethod(req.PaymentMethod)
		method = &m
	}

	var paidAt *time.Time
	if req.PaymentDate != "" {
		t, err := time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			s.respondError(c, common.InvalidArgumentError("payment_date must be YYYY-MM-DD"))
			return
		}
		paidAt = &t
	} else if status == constants.StatusPaid {
		now := time.Now().UTC()
		paidAt = &now
	}

	if err := s.invoices.UpdatePaymentStatus(c.Request.Context(), id, status, method, paidAt); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteInvoice(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.invoices.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
