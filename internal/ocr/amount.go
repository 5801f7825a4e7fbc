package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

// numberRunRE grabs every run of digits and separators as one candidate.
var numberRunRE = regexp.MustCompile(`[\d.,]+`)

const (
	minTotalAmount = 5000      // below this it's a quantity or a small unit price
	maxTotalAmount = 999999999 // 10+ digits means bank account, not money
)

// findTotalAmount scores every plausible currency number in the document and
// returns the best one, or 0 when nothing qualifies. Unlike the date scan
// this is not first-match: the winner is the highest score across the whole
// text, ties going to the earlier candidate.
func findTotalAmount(lines []string) int64 {
	var best int64
	bestScore := -1

	for i, line := range lines {
		lineUpper := strings.ToUpper(line)
		if containsAny(lineUpper, amountSkipKeywords) {
			continue
		}
		boosted := containsAny(lineUpper, totalKeywords)

		for _, numStr := range numberRunRE.FindAllString(line, -1) {
			amount, ok := parseAmount(numStr)
			if !ok {
				continue
			}

			score := 0
			if boosted {
				score += 100
			}
			if float64(i) > float64(len(lines))*0.7 {
				score += 50 // totals cluster near the end of the document
			}
			if amount > 100000 {
				score += 10 // totals run larger than line-item prices
			}

			if score > bestScore {
				best, bestScore = amount, score
			}
		}
	}

	if bestScore < 0 {
		return 0
	}
	return best
}

var amountCleaner = strings.NewReplacer(".", "", ",", "", "Rp", "")

// parseAmount normalizes a digit run into whole rupiah. Anything outside
// [minTotalAmount, maxTotalAmount] is rejected, not clamped.
func parseAmount(numStr string) (int64, bool) {
	clean := strings.TrimSpace(amountCleaner.Replace(numStr))
	if clean == "" || !allDigits(clean) {
		return 0, false
	}
	amount, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, false
	}
	if amount < minTotalAmount || amount > maxTotalAmount {
		return 0, false
	}
	return amount, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
