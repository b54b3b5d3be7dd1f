package money

import "testing"

func TestNextInvoiceNumber(t *testing.T) {
	tests := []struct {
		previous string
		want     string
	}{
		{"INV-0059", "INV-0060"},
		{"2025-14", "2025-15"},
		{"214", "215"},
		{"INV", "INV1"},
		{"", "1"},
		{"INV-0099", "INV-0100"},
		{"99", "100"},
		{"A1B", "A1B1"},
		{"INV-", "INV-1"},
		{"0009", "0010"},
	}
	for _, tt := range tests {
		if got := NextInvoiceNumber(tt.previous); got != tt.want {
			t.Errorf("NextInvoiceNumber(%q) = %q, want %q", tt.previous, got, tt.want)
		}
	}
}

func TestNextInvoiceNumberOverflowSuffix(t *testing.T) {
	// A trailing run too long for int64 starts a fresh suffix instead of wrapping.
	in := "INV-99999999999999999999"
	if got := NextInvoiceNumber(in); got != in+"1" {
		t.Errorf("NextInvoiceNumber(%q) = %q, want %q", in, got, in+"1")
	}
}
