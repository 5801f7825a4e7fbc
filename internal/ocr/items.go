package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

// itemNumberRE matches digit runs with at most one embedded separator, the
// shape quantities and prices take on item rows.
var itemNumberRE = regexp.MustCompile(`\d+[.,]?\d*`)

var straySeparatorRE = regexp.MustCompile(`[.,]`)

const (
	maxQuantity  = 10000
	maxUnitPrice = 10000000
	maxNameLen   = 50
)

// itemScanner walks invoice lines accumulating line items.
type itemScanner struct {
	// inItemsSection flips on table headers and off on total/footer lines.
	// It is tracked for section awareness only; data rows are attempted on
	// every non-header, non-footer line regardless of its value.
	inItemsSection bool
	items          []LineItem
}

// findLineItems returns every accepted item row, in input-line order.
func findLineItems(lines []string) []LineItem {
	s := &itemScanner{items: []LineItem{}}
	for _, line := range lines {
		s.scanLine(line)
	}
	return s.items
}

func (s *itemScanner) scanLine(line string) {
	lineUpper := strings.ToUpper(line)

	if containsAny(lineUpper, itemHeaderKeywords) {
		s.inItemsSection = true
		return
	}
	if containsAny(lineUpper, itemStopKeywords) {
		s.inItemsSection = false
		return
	}

	numbers := itemNumberRE.FindAllString(line, -1)
	if len(numbers) < 2 {
		return // cannot hold both a quantity and a price
	}

	name := itemName(line)
	if !validItemName(name) {
		return
	}
	qty, ok := parseQuantity(numbers[0])
	if !ok {
		return
	}
	price, ok := parseUnitPrice(numbers[1])
	if !ok {
		return
	}

	s.items = append(s.items, LineItem{
		Name:      truncate(name, maxNameLen),
		Quantity:  qty,
		Unit:      string(detectUnit(lineUpper)),
		UnitPrice: price,
	})
}

// itemName cuts every matched numeric token out of the line by position,
// then strips stray separators and surrounding whitespace.
func itemName(line string) string {
	var b strings.Builder
	prev := 0
	for _, loc := range itemNumberRE.FindAllStringIndex(line, -1) {
		b.WriteString(line[prev:loc[0]])
		prev = loc[1]
	}
	b.WriteString(line[prev:])
	return strings.TrimSpace(straySeparatorRE.ReplaceAllString(b.String(), ""))
}

// validItemName drops names too short to be products and residual
// header/footer fragments.
func validItemName(name string) bool {
	if len(name) < 3 {
		return false
	}
	return !containsAny(strings.ToUpper(name), nameRejectFragments)
}

// parseQuantity reads the first numeric token with comma as a decimal point
// ("2,5" meaning two and a half).
func parseQuantity(num string) (float64, bool) {
	qty, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", "."), 64)
	if err != nil || qty <= 0 || qty > maxQuantity {
		return 0, false
	}
	return qty, true
}

// parseUnitPrice reads the second numeric token with dot and comma both
// treated as thousand separators ("15.000" meaning fifteen thousand). The
// asymmetry with parseQuantity is deliberate: quantities are written with
// decimal commas, prices with separator dots.
func parseUnitPrice(num string) (float64, bool) {
	clean := strings.NewReplacer(".", "", ",", "").Replace(num)
	price, err := strconv.ParseFloat(clean, 64)
	if err != nil || price <= 0 || price > maxUnitPrice {
		return 0, false
	}
	return price, true
}
