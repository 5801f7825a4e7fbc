package constants

// PaymentTerms is how a supplier expects to be paid.
type PaymentTerms string

// Stable values (store these exact strings in DB).
const (
	TermsCash    PaymentTerms = "cash"    // pay on delivery
	TermsTwoWeek PaymentTerms = "2week"   // pay on the 15th / end of month
	TermsMonthly PaymentTerms = "monthly" // pay at end of month
)

// PaymentStatus is the canonical status for rows in invoices.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPaid    PaymentStatus = "paid"
	StatusOverdue PaymentStatus = "overdue"
)

// PaymentMethod is how an invoice was settled.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
)

// PPNHandling says whether the supplier's prices already include PPN
// (Indonesian VAT) or add it on top of the subtotal.
type PPNHandling string

const (
	PPNIncluded PPNHandling = "included"
	PPNAdded    PPNHandling = "added"
)

// PPNRate is the uplift applied to tracked prices for PPNAdded suppliers.
const PPNRate = 1.11

var allPaymentTerms = []PaymentTerms{TermsCash, TermsTwoWeek, TermsMonthly}

// PaymentTermsStrings returns the accepted payment_terms values.
func PaymentTermsStrings() []string {
	result := make([]string, len(allPaymentTerms))
	for i, t := range allPaymentTerms {
		result[i] = string(t)
	}
	return result
}

// ValidPaymentTerms reports whether s is one of the accepted terms.
func ValidPaymentTerms(s string) bool {
	for _, t := range allPaymentTerms {
		if s == string(t) {
			return true
		}
	}
	return false
}
