// Package billing holds the payment-calendar rules for supplier invoices.
package billing

import (
	"time"

	"github.com/diegomarmat/chela-suppliers/constants"
)

// DueDate computes when an invoice must be paid.
//
// cash: on the invoice date. 2week: the month is split in half — invoices
// dated before the 15th are due on the 15th, the rest at month end.
// monthly: everything is due at month end.
func DueDate(invoiceDate time.Time, terms constants.PaymentTerms) time.Time {
	switch terms {
	case constants.TermsCash:
		return invoiceDate
	case constants.TermsTwoWeek:
		if invoiceDate.Day() < 15 {
			return time.Date(invoiceDate.Year(), invoiceDate.Month(), 15, 0, 0, 0, 0, invoiceDate.Location())
		}
		return endOfMonth(invoiceDate)
	default: // monthly
		return endOfMonth(invoiceDate)
	}
}

func endOfMonth(d time.Time) time.Time {
	// Day 0 of the next month is the last day of this one.
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, d.Location())
}
