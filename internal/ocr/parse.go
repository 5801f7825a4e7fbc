// Package ocr turns raw OCR text from photographed supplier invoices into a
// structured, best-effort suggestion record.
//
// The text arrives as a linear sequence of lines with no layout metadata,
// mixed-case, with English and Indonesian labels. Four independent passes
// recover the supplier, the invoice date, the grand total, and the line
// items. Every pass degrades to its zero value on failure; parsing never
// returns an error. The caller (an operator-facing review screen) must treat
// every field as a suggestion, not a fact.
package ocr

import (
	"strings"
	"time"
)

// KnownSupplier is one entry of the reference catalog the matcher scans
// against. Catalog order matters: the first matching entry wins.
type KnownSupplier struct {
	ShortName   string `json:"short_name"`
	CompanyName string `json:"company_name"`
}

// LineItem is a provisional read of one purchased product. It is not linked
// to any catalog product; that is the invoice-entry workflow's job.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
}

// Result is the outcome of one parse. Absent fields keep their zero values:
// empty SupplierName, zero InvoiceDate, TotalAmount 0, empty LineItems.
type Result struct {
	SupplierName string     `json:"supplier_name,omitempty"`
	InvoiceDate  time.Time  `json:"invoice_date"`
	TotalAmount  int64      `json:"total_amount"`
	LineItems    []LineItem `json:"line_items"`
}

// ParseInvoiceText extracts invoice fields from OCR text. It is pure and
// safe to call concurrently; suppliers is read, never written.
func ParseInvoiceText(text string, suppliers []KnownSupplier) Result {
	lines := splitLines(text)

	result := Result{LineItems: []LineItem{}}
	if name, ok := matchSupplier(text, suppliers); ok {
		result.SupplierName = name
	}
	if d, ok := findInvoiceDate(lines); ok {
		result.InvoiceDate = d
	}
	result.TotalAmount = findTotalAmount(lines)
	result.LineItems = findLineItems(lines)
	return result
}

// splitLines trims and drops blank lines, preserving input order.
func splitLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
