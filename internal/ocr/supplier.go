package ocr

import "strings"

// matchSupplier returns the short name of the first catalog supplier found in
// the text. Catalog order is the tie-break policy: the first entry matching
// any strategy wins, even when a later entry would match more of the text.
// Per entry the strategies run in order: exact short-name substring, company
// name substring, fuzzy token match.
func matchSupplier(text string, suppliers []KnownSupplier) (string, bool) {
	textUpper := strings.ToUpper(text)
	for _, s := range suppliers {
		if s.ShortName != "" && strings.Contains(textUpper, strings.ToUpper(s.ShortName)) {
			return s.ShortName, true
		}
		if s.CompanyName != "" && strings.Contains(textUpper, strings.ToUpper(s.CompanyName)) {
			return s.ShortName, true
		}
		if fuzzyTokenMatch(textUpper, s.ShortName) {
			return s.ShortName, true
		}
	}
	return "", false
}

// fuzzyTokenMatch accepts when at least 60% of the short name's
// whitespace-separated tokens appear somewhere in the text.
func fuzzyTokenMatch(textUpper, shortName string) bool {
	tokens := strings.Fields(strings.ToUpper(shortName))
	if len(tokens) == 0 {
		return false
	}
	matches := 0
	for _, tok := range tokens {
		if strings.Contains(textUpper, tok) {
			matches++
		}
	}
	return matches*100 >= len(tokens)*60
}
