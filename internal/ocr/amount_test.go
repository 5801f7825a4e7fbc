package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindTotalAmount_KeywordBeatsSubtotal(t *testing.T) {
	lines := []string{
		"Subtotal 50000",
		"Grand Total 150000",
		"Account No 9999999999",
	}
	// The grand total line is keyword-boosted; the account number is filtered
	// by the skip list (and would fail the upper bound anyway).
	assert.Equal(t, int64(150000), findTotalAmount(lines))
}

func TestFindTotalAmount_Filters(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int64
	}{
		{
			name:  "below 5000 floor never qualifies",
			lines: []string{"Harga 4999"},
			want:  0,
		},
		{
			name:  "floor is inclusive",
			lines: []string{"Harga 5000"},
			want:  5000,
		},
		{
			name:  "ten-digit numbers are account numbers",
			lines: []string{"8888888888"},
			want:  0,
		},
		{
			name:  "bank line contributes nothing",
			lines: []string{"Bank Transfer 750000"},
			want:  0,
		},
		{
			name:  "phone line contributes nothing",
			lines: []string{"Telp 55555555"},
			want:  0,
		},
		{
			name:  "separators are stripped",
			lines: []string{"Total: Rp 250.000"},
			want:  250000,
		},
		{
			name:  "empty document",
			lines: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findTotalAmount(tt.lines))
		})
	}
}

func TestFindTotalAmount_TieBreakFirstSeen(t *testing.T) {
	// Both candidates score zero (early in the document, no keywords, below
	// the large-amount boost); the first one encountered must win.
	lines := []string{
		"Barang satu 60000",
		"Barang dua 70000",
		"",
		"",
		"",
		"",
	}
	assert.Equal(t, int64(60000), findTotalAmount(lines))
}

func TestFindTotalAmount_TailPositionBoost(t *testing.T) {
	// A modest number in the last 30% of the document (+50) outranks a large
	// one near the top (+10).
	lines := []string{
		"Barang mahal 150000",
		"a", "b", "c", "d", "e", "f", "g", "h",
		"9000",
	}
	assert.Equal(t, int64(9000), findTotalAmount(lines))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"150000", 150000, true},
		{"150.000", 150000, true},
		{"150,000", 150000, true},
		{"4999", 0, false},
		{"1000000000", 0, false},
		{"999999999", 999999999, true},
		{"123.456.789", 123456789, true},
		{"12.5.3", 0, false},
		{",,..", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseAmount(tt.in)
		assert.Equal(t, tt.wantOK, ok, "parseAmount(%q)", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "parseAmount(%q)", tt.in)
		}
	}
}
