package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/ocr"
)

type parseInvoiceRequest struct {
	Text string `json:"text"`
}

type parsedItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
}

// parseInvoiceResponse is a suggestion record: every field is the parser's
// best guess and the operator confirms or fixes it before saving.
type parseInvoiceResponse struct {
	SupplierID   *uuid.UUID   `json:"supplier_id"`
	SupplierName string       `json:"supplier_name"`
	InvoiceDate  *string      `json:"invoice_date"`
	TotalAmount  int64        `json:"total_amount"`
	LineItems    []parsedItem `json:"line_items"`
}

func (s *Server) handleParseInvoice(c *gin.Context) {
	var req parseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.InvalidArgumentError("invalid request body"))
		return
	}
	if req.Text == "" {
		s.respondError(c, common.InvalidArgumentError("text is required"))
		return
	}
	if len(req.Text) > s.cfg.Parser.MaxTextBytes {
		s.respondError(c, common.InvalidArgumentErrorf("text exceeds %d bytes", s.cfg.Parser.MaxTextBytes))
		return
	}

	// Active suppliers in short-name order form the matcher catalog; the
	// first catalog hit wins.
	active, err := s.suppliers.ListActive(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	known := make([]ocr.KnownSupplier, len(active))
	for i, sup := range active {
		known[i] = ocr.KnownSupplier{ShortName: sup.ShortName, CompanyName: sup.CompanyName}
	}

	result := ocr.ParseInvoiceText(req.Text, known)

	resp := parseInvoiceResponse{
		SupplierName: result.SupplierName,
		TotalAmount:  result.TotalAmount,
		LineItems:    make([]parsedItem, 0, len(result.LineItems)),
	}
	if result.SupplierName != "" {
		for _, sup := range active {
			if sup.ShortName == result.SupplierName {
				id := sup.ID
				resp.SupplierID = &id
				break
			}
		}
	}
	if !result.InvoiceDate.IsZero() {
		formatted := result.InvoiceDate.Format(dateLayout)
		resp.InvoiceDate = &formatted
	}
	for _, item := range result.LineItems {
		resp.LineItems = append(resp.LineItems, parsedItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
		})
	}

	s.logger.Info("invoice.parse.ok",
		"supplier_matched", resp.SupplierID != nil,
		"date_found", resp.InvoiceDate != nil,
		"total", resp.TotalAmount,
		"items", len(resp.LineItems),
	)
	c.JSON(http.StatusOK, resp)
}
