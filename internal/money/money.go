// Package money implements the exact-decimal arithmetic behind invoice
// lines and totals. Every monetary value is base-10 decimal quantized to
// two places at each step, so the totals printed on a document always
// equal the sum of the printed line amounts.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount rejects unparsable or negative input on the strict
// calculation path. Lenient display parsing goes through OrZero instead.
var ErrInvalidAmount = errors.New("invalid_amount")

// Default tax rates applied when a product carries none.
var (
	DefaultSalesTaxPercent   = decimal.NewFromInt(18)
	DefaultAdvanceTaxPercent = decimal.New(5, -1) // 0.5
)

var hundred = decimal.NewFromInt(100)

// ItemCalc is the computed money breakdown for one invoice line.
type ItemCalc struct {
	Qty              decimal.Decimal
	UnitPrice        decimal.Decimal
	Value            decimal.Decimal
	SalesTaxAmount   decimal.Decimal
	AdvanceTaxAmount decimal.Decimal
	TotalAmount      decimal.Decimal
}

// Summary holds the invoice-level totals derived from a set of items.
type Summary struct {
	Subtotal        decimal.Decimal
	SalesTaxTotal   decimal.Decimal
	AdvanceTaxTotal decimal.Decimal
	GrandTotal      decimal.Decimal
	TotalQtyPieces  int64
}

// ComputeItem calculates one invoice line from the raw entered qty and unit
// price. Both must parse as non-negative numbers; anything else fails with
// ErrInvalidAmount rather than silently defaulting. The unit price is
// quantized to cents before multiplying, the quantity keeps its full
// precision. Each tax amount is computed from the rounded value and rounded
// independently (half up, not banker's).
func ComputeItem(qty, unitPrice string, salesTaxPercent, advanceTaxPercent decimal.Decimal) (ItemCalc, error) {
	q, err := parseStrict(qty)
	if err != nil {
		return ItemCalc{}, fmt.Errorf("qty %q: %w", qty, ErrInvalidAmount)
	}
	price, err := parseStrict(unitPrice)
	if err != nil {
		return ItemCalc{}, fmt.Errorf("unit price %q: %w", unitPrice, ErrInvalidAmount)
	}
	if salesTaxPercent.IsNegative() || advanceTaxPercent.IsNegative() {
		return ItemCalc{}, fmt.Errorf("tax percent: %w", ErrInvalidAmount)
	}
	price = price.Round(2)

	value := q.Mul(price).Round(2)
	salesTax := value.Mul(salesTaxPercent).Div(hundred).Round(2)
	advanceTax := value.Mul(advanceTaxPercent).Div(hundred).Round(2)

	return ItemCalc{
		Qty:              q,
		UnitPrice:        price,
		Value:            value,
		SalesTaxAmount:   salesTax,
		AdvanceTaxAmount: advanceTax,
		TotalAmount:      value.Add(salesTax).Add(advanceTax),
	}, nil
}

// Summarize computes the invoice totals for a list of computed items. Each
// money component is re-quantized before summation (summing pre-rounded
// cents, never rounding a raw sum). Quantity sums at full precision and is
// truncated to a whole piece count.
func Summarize(items []ItemCalc) Summary {
	subtotal := decimal.Zero
	salesTax := decimal.Zero
	advanceTax := decimal.Zero
	grand := decimal.Zero
	qty := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Value.Round(2))
		salesTax = salesTax.Add(it.SalesTaxAmount.Round(2))
		advanceTax = advanceTax.Add(it.AdvanceTaxAmount.Round(2))
		grand = grand.Add(it.TotalAmount.Round(2))
		qty = qty.Add(it.Qty)
	}
	return Summary{
		Subtotal:        subtotal.Round(2),
		SalesTaxTotal:   salesTax.Round(2),
		AdvanceTaxTotal: advanceTax.Round(2),
		GrandTotal:      grand.Round(2),
		TotalQtyPieces:  qty.IntPart(),
	}
}

// OrZero converts a raw literal into a 2-decimal money value, degrading
// malformed input to zero instead of failing. Display formatting only; the
// calculation path stays strict.
func OrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}

// FormatMoney renders a money value with exactly two decimal places and
// thousands separators, e.g. 168000 becomes "168,000.00".
func FormatMoney(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(2))
}

// FormatQty renders a quantity as a plain integer with thousands
// separators. Fractional precision is truncated for display only.
func FormatQty(d decimal.Decimal) string {
	return groupThousands(decimal.NewFromInt(d.IntPart()).String())
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	pos := len(intPart)
	for i := 0; i < len(intPart); i++ {
		b.WriteByte(intPart[i])
		pos--
		if pos > 0 && pos%3 == 0 {
			b.WriteByte(',')
		}
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func parseStrict(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errors.New("negative amount")
	}
	return d, nil
}
