package constants

import "strings"

// Unit is the canonical unit code stored on products and invoice items.
type Unit string

const (
	UnitKg     Unit = "kg"
	UnitGram   Unit = "g"
	UnitLiter  Unit = "liter"
	UnitMl     Unit = "ml"
	UnitPcs    Unit = "pcs"
	UnitPack   Unit = "pack"
	UnitBox    Unit = "box"
	UnitBottle Unit = "bottle"
	UnitCan    Unit = "can"
)

var allUnits = []Unit{
	UnitKg,
	UnitGram,
	UnitLiter,
	UnitMl,
	UnitPcs,
	UnitPack,
	UnitBox,
	UnitBottle,
	UnitCan,
}

func UnitStrings() []string {
	result := make([]string, len(allUnits))
	for i, u := range allUnits {
		result[i] = string(u)
	}
	return result
}

// CanonicalizeUnit maps free-form input to a canonical unit code.
func CanonicalizeUnit(input string) (Unit, bool) {
	if input == "" {
		return UnitPcs, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map (English and Indonesian labels)
	synonyms := map[string]Unit{
		"kilo":     UnitKg,
		"kilogram": UnitKg,
		"gram":     UnitGram,
		"gr":       UnitGram,
		"l":        UnitLiter,
		"ltr":      UnitLiter,
		"mili":     UnitMl,
		"pc":       UnitPcs,
		"piece":    UnitPcs,
		"pak":      UnitPack,
		"kotak":    UnitBox,
		"btl":      UnitBottle,
		"kaleng":   UnitCan,
	}

	if u, ok := synonyms[normalized]; ok {
		return u, true
	}

	for _, u := range allUnits {
		if normalized == string(u) {
			return u, true
		}
	}

	return UnitPcs, false
}
