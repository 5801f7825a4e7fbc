package ocr

import (
	"strings"

	"github.com/diegomarmat/chela-suppliers/constants"
)

// Keyword tables for the extraction passes. All of this is read-only package
// data; the passes never mutate it.

// dateDenylist marks lines whose numbers are phone or account fields. Such
// lines routinely contain date-shaped digit groups and are the dominant
// source of false invoice dates.
var dateDenylist = []string{"ACCOUNT", "REKENING", "NO:", "NO.", "HP", "PHONE", "TELP"}

// amountSkipKeywords disqualify an entire line from contributing total-amount
// candidates.
var amountSkipKeywords = []string{"ACCOUNT", "REKENING", "BANK", "NO.", "NO:", "HP", "PHONE", "TELP", "FAX"}

// totalKeywords flag every number on the line as a likely grand total.
var totalKeywords = []string{"TOTAL AMOUNT", "GRAND TOTAL", "TOTAL:", "JUMLAH", "AMOUNT DUE"}

// itemHeaderKeywords open an items table; the header line itself is consumed,
// never parsed as a data row.
var itemHeaderKeywords = []string{"DESCRIPTION", "ITEM", "PRODUCT", "QTY", "QUANTITY", "NO."}

// itemStopKeywords close an items table (totals, footers, bank details).
var itemStopKeywords = []string{"TOTAL", "SUBTOTAL", "SUB TOTAL", "JUMLAH", "THANK YOU", "BANK"}

// nameRejectFragments are residual header/footer fragments; a derived product
// name containing any of them is discarded.
var nameRejectFragments = []string{"NO", "QTY", "PRICE", "TOTAL"}

type unitKeyword struct {
	keyword string
	unit    constants.Unit
}

// unitKeywords maps invoice wording (English and Indonesian) to canonical
// unit codes. Declaration order is load-bearing: the first keyword found in
// the line wins, and single-letter entries like "L" match aggressively.
var unitKeywords = []unitKeyword{
	{"KG", constants.UnitKg},
	{"KILO", constants.UnitKg},
	{"KILOGRAM", constants.UnitKg},
	{"GRAM", constants.UnitGram},
	{"GR", constants.UnitGram},
	{"LITER", constants.UnitLiter},
	{"L", constants.UnitLiter},
	{"LTR", constants.UnitLiter},
	{"ML", constants.UnitMl},
	{"MILI", constants.UnitMl},
	{"PCS", constants.UnitPcs},
	{"PC", constants.UnitPcs},
	{"PIECE", constants.UnitPcs},
	{"PACK", constants.UnitPack},
	{"PAK", constants.UnitPack},
	{"BOX", constants.UnitBox},
	{"KOTAK", constants.UnitBox},
	{"BOTTLE", constants.UnitBottle},
	{"BTL", constants.UnitBottle},
	{"CAN", constants.UnitCan},
	{"KALENG", constants.UnitCan},
}

// detectUnit returns the unit for the first table keyword present in the
// uppercased line, defaulting to pcs.
func detectUnit(lineUpper string) constants.Unit {
	for _, uk := range unitKeywords {
		if strings.Contains(lineUpper, uk.keyword) {
			return uk.unit
		}
	}
	return constants.UnitPcs
}

func containsAny(upper string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
