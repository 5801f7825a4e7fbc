package ocr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLineItems_TwoNumberRow(t *testing.T) {
	items := findLineItems([]string{"Tomatoes 5 15000"})
	require.Len(t, items, 1)
	assert.Equal(t, LineItem{Name: "Tomatoes", Quantity: 5, Unit: "pcs", UnitPrice: 15000}, items[0])
}

func TestFindLineItems_UnitTablePrecedence(t *testing.T) {
	// "BOTOL" would suggest a bottle, but the single-letter "L" entry sits
	// earlier in the unit table and matches the uppercased line first.
	items := findLineItems([]string{"Cooking Oil 2 botol 45000"})
	require.Len(t, items, 1)
	assert.Equal(t, "liter", items[0].Unit)
	assert.Equal(t, float64(2), items[0].Quantity)
	assert.Equal(t, float64(45000), items[0].UnitPrice)
}

func TestFindLineItems_Units(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Ayam Potong 2,5 kg 80.000", "kg"},
		{"Keju 2 pcs 30.000", "pcs"},
		{"Susu 3 kotak 18.000", "box"},
		{"Kecap 6 kaleng 12.000", "liter"}, // the "L" in KALENG wins over KALENG->can
		{"Sarden 2 can 12.000", "can"},
		{"Tepung 4 pak 9.000", "pack"},
		{"Tomat 5 15.000", "pcs"}, // default when nothing matches
	}
	for _, tt := range tests {
		items := findLineItems([]string{tt.line})
		require.Len(t, items, 1, "line %q", tt.line)
		assert.Equal(t, tt.want, items[0].Unit, "line %q", tt.line)
	}
}

func TestFindLineItems_QuantityParsing(t *testing.T) {
	// Comma reads as a decimal point for quantities, while dots in the price
	// are thousand separators.
	items := findLineItems([]string{"Ayam Potong 2,5 kg 80.000"})
	require.Len(t, items, 1)
	assert.Equal(t, 2.5, items[0].Quantity)
	assert.Equal(t, float64(80000), items[0].UnitPrice)
}

func TestFindLineItems_ThreeNumbersUseSecondAsPrice(t *testing.T) {
	// qty, unit price, row total: the middle number is the unit price.
	items := findLineItems([]string{"Wortel 4 12.000 48.000"})
	require.Len(t, items, 1)
	assert.Equal(t, float64(4), items[0].Quantity)
	assert.Equal(t, float64(12000), items[0].UnitPrice)
}

func TestFindLineItems_Rejections(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"quantity above bound", "Rice 99999 10000"},
		{"price above bound", "Saffron 2 99999999"},
		{"zero quantity", "Gratis 0 5000"},
		{"single number cannot be an item", "Tomatoes 5"},
		{"no numbers at all", "just a remark line"},
		{"name too short", "AB 5 15000"},
		{"residual header fragment in name", "Nomor 5 15000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, findLineItems([]string{tt.line}))
		})
	}
}

func TestFindLineItems_HeaderAndFooterRowsConsumed(t *testing.T) {
	lines := []string{
		"Description Harga Jumlah barang", // header, never a data row
		"Tomat 5 15.000",
		"Subtotal 15.000", // stop line, never a data row
		"TOTAL 15.000",
	}
	items := findLineItems(lines)
	require.Len(t, items, 1)
	assert.Equal(t, "Tomat", items[0].Name)
}

func TestFindLineItems_ItemsOutsideHeaderSectionStillParsed(t *testing.T) {
	// The section flag is tracked but does not gate extraction: a plausible
	// row before any table header is still accepted.
	items := findLineItems([]string{"Tomat 5 15.000", "Qty Description Price"})
	require.Len(t, items, 1)
}

func TestFindLineItems_NameTruncatedTo50(t *testing.T) {
	longName := strings.Repeat("x", 80)
	items := findLineItems([]string{longName + " 5 15000"})
	require.Len(t, items, 1)
	assert.Len(t, items[0].Name, 50)
}

func TestFindLineItems_NumbersCutFromNameByPosition(t *testing.T) {
	// The "5" inside "15000" must survive the name cut; only whole matched
	// tokens are removed.
	items := findLineItems([]string{"Tomatoes 5 15000"})
	require.Len(t, items, 1)
	assert.Equal(t, "Tomatoes", items[0].Name)
}

func TestFindLineItems_LabeledDateLineSlipsThrough(t *testing.T) {
	// A labeled date line carries three numeric tokens and a long enough
	// label, so it passes every row filter. The operator review screen is
	// the backstop for rows like this one.
	items := findLineItems([]string{"Tanggal: 15/03/2025"})
	require.Len(t, items, 1)
	assert.Equal(t, float64(15), items[0].Quantity)
	assert.Equal(t, float64(3), items[0].UnitPrice)
}

func TestFindLineItems_OrderPreserved(t *testing.T) {
	lines := []string{
		"Tomat 5 15.000",
		"Wortel 2 8.000",
	}
	items := findLineItems(lines)
	require.Len(t, items, 2)
	assert.Equal(t, "Tomat", items[0].Name)
	assert.Equal(t, "Wortel", items[1].Name)
}
