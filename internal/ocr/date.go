package ocr

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day-first date shapes, four-digit years before two-digit ones so that
// "01/01/2024" is never read as "01/01/20".
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`),
	regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2})\b`),
}

// findInvoiceDate returns the first plausible invoice date, scanning lines in
// input order and stopping on the first acceptance. Lines mentioning phone or
// account fields are skipped wholesale before any pattern is tried.
func findInvoiceDate(lines []string) (time.Time, bool) {
	for _, line := range lines {
		if containsAny(strings.ToUpper(line), dateDenylist) {
			continue
		}
		for _, re := range datePatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if d, ok := parseDayMonthYear(m[1], m[2], m[3]); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// parseDayMonthYear validates both the calendar date and the plausibility
// window. Two-digit years are read as 20xx. Years outside [2020, 2030] are
// rejected: OCR noise produces far-future "dates" routinely, and an invoice
// from outside that window is noise, not data.
func parseDayMonthYear(dayStr, monthStr, yearStr string) (time.Time, bool) {
	if len(yearStr) == 2 {
		yearStr = "20" + yearStr
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	if year < 2020 || year > 2030 {
		return time.Time{}, false
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (32/01 becomes 01/02); a round-trip
	// mismatch means the digits never named a real calendar day.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
