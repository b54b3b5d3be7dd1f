package money

import (
	"fmt"
	"strconv"
)

// NextInvoiceNumber increments the trailing numeric run of the previous
// invoice number, preserving its zero-padded width: "INV-0059" becomes
// "INV-0060", "2025-14" becomes "2025-15". A number without a trailing
// digit run gets "1" appended verbatim; an empty previous number starts
// the sequence at "1".
func NextInvoiceNumber(previous string) string {
	if previous == "" {
		return "1"
	}
	i := len(previous)
	for i > 0 && previous[i-1] >= '0' && previous[i-1] <= '9' {
		i--
	}
	digits := previous[i:]
	if digits == "" {
		return previous + "1"
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Trailing run too long for an int64; start a fresh suffix.
		return previous + "1"
	}
	return previous[:i] + fmt.Sprintf("%0*d", len(digits), n+1)
}
