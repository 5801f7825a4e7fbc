// Package export produces XLSX reports from the bookkeeping data.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/diegomarmat/chela-suppliers/internal/repository"
)

// Cycle selects which half of the payment calendar a schedule covers.
type Cycle string

const (
	CycleAll      Cycle = ""
	CycleMidMonth Cycle = "15th" // due on or before the 15th
	CycleMonthEnd Cycle = "eom"  // due after the 15th
)

// ScheduleRequest narrows the payment-schedule report.
type ScheduleRequest struct {
	Year     int
	Month    time.Month
	Cycle    Cycle
	Category string // supplier category filter, empty for all
}

// Service is a tiny façade over repositories that produces XLSX bytes for reports.
type Service struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

// PaymentScheduleXLSX returns an XLSX workbook (as bytes) listing the pending
// invoices due in the requested month, grouped by supplier category with
// subtotals and a grand total. Invoices flagged for review are marked.
func (s *Service) PaymentScheduleXLSX(ctx context.Context, req ScheduleRequest) ([]byte, error) {
	start := time.Now()

	from := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := s.invoices.ScheduleRows(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query payment schedule: %w", err)
	}
	rows = filterRows(rows, req)

	f := excelize.NewFile()
	const sheet = "Payment Schedule"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Due Date",
		"Supplier",
		"Invoice No",
		"Invoice Date",
		"Amount",
		"Terms",
		"Bank",
		"Account",
		"Check",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(row, col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	grandTotal := 0.0
	for _, category := range categoriesOf(rows) {
		write(row, 1, categoryLabel(category))
		row++

		subtotal := 0.0
		for _, sr := range rows {
			if sr.SupplierCategory != category {
				continue
			}
			if sr.Invoice.DueDate != nil {
				write(row, 1, sr.Invoice.DueDate.Format("2006-01-02"))
			}
			write(row, 2, sr.SupplierShortName)
			write(row, 3, sr.Invoice.InvoiceNumber)
			write(row, 4, sr.Invoice.InvoiceDate.Format("2006-01-02"))
			write(row, 5, sr.Invoice.TotalAmount)
			write(row, 6, string(sr.PaymentTerms))
			write(row, 7, sr.BankName)
			write(row, 8, bankAccountLabel(sr))
			if sr.Invoice.NeedsReview {
				write(row, 9, "details to check")
			}
			subtotal += sr.Invoice.TotalAmount
			row++
		}

		write(row, 2, "Subtotal")
		write(row, 5, subtotal)
		grandTotal += subtotal
		row += 2 // blank spacer row between categories
	}

	write(row, 2, "Grand Total")
	write(row, 5, grandTotal)

	_ = f.SetColWidth(sheet, "A", "A", 14) // due date
	_ = f.SetColWidth(sheet, "B", "B", 24) // supplier
	_ = f.SetColWidth(sheet, "C", "C", 20) // invoice no
	_ = f.SetColWidth(sheet, "D", "D", 14) // invoice date
	_ = f.SetColWidth(sheet, "E", "E", 16) // amount
	_ = f.SetColWidth(sheet, "G", "H", 26) // bank details

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"month", from.Format("2006-01"),
		"cycle", string(req.Cycle),
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func filterRows(rows []*repository.ScheduleRow, req ScheduleRequest) []*repository.ScheduleRow {
	result := make([]*repository.ScheduleRow, 0, len(rows))
	for _, sr := range rows {
		if req.Category != "" && sr.SupplierCategory != req.Category {
			continue
		}
		if sr.Invoice.DueDate != nil {
			day := sr.Invoice.DueDate.Day()
			if req.Cycle == CycleMidMonth && day > 15 {
				continue
			}
			if req.Cycle == CycleMonthEnd && day <= 15 {
				continue
			}
		}
		result = append(result, sr)
	}
	return result
}

func categoriesOf(rows []*repository.ScheduleRow) []string {
	seen := map[string]bool{}
	var categories []string
	for _, sr := range rows {
		if !seen[sr.SupplierCategory] {
			seen[sr.SupplierCategory] = true
			categories = append(categories, sr.SupplierCategory)
		}
	}
	sort.Strings(categories)
	return categories
}

func categoryLabel(category string) string {
	if category == "" {
		return "Uncategorized"
	}
	return category
}

func bankAccountLabel(sr *repository.ScheduleRow) string {
	if sr.BankAccountNumber == "" {
		return ""
	}
	if sr.BankAccountName == "" {
		return sr.BankAccountNumber
	}
	return sr.BankAccountNumber + " (" + sr.BankAccountName + ")"
}
