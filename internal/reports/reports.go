// Package reports aggregates invoices over date ranges and produces
// period exports: merged PDF bundles, CSV and Excel summaries.
package reports

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/pdf"
	"invoicedesk/internal/store"
)

var ErrNoDataInRange = errors.New("no_invoices_in_range")

// Reporter runs period queries against the store and renders their
// results.
type Reporter struct {
	Store    *store.Store
	Renderer *pdf.Renderer
}

func NewReporter(st *store.Store, r *pdf.Renderer) *Reporter {
	return &Reporter{Store: st, Renderer: r}
}

// Totals aggregates one reporting period.
type Totals struct {
	PeriodStart     string
	PeriodEnd       string
	TotalSales      decimal.Decimal
	TotalSalesTax   decimal.Decimal
	TotalAdvanceTax decimal.Decimal
	TotalQty        decimal.Decimal
	InvoiceCount    int
}

// InvoiceLine is one invoice inside a period report.
type InvoiceLine struct {
	ID         uint
	InvoiceNo  string
	Date       string
	Subtotal   decimal.Decimal
	SalesTax   decimal.Decimal
	AdvanceTax decimal.Decimal
	Qty        decimal.Decimal
}

// Summary returns period totals plus the invoices behind them, ordered
// by date then invoice number. Both bounds are inclusive. An empty
// range is a valid, empty report.
func (r *Reporter) Summary(start, end string) (Totals, []InvoiceLine, error) {
	t := Totals{PeriodStart: start, PeriodEnd: end}

	var lines []InvoiceLine
	err := r.Store.DB.
		Table("invoices").
		Select("id, invoice_no, date, subtotal, sales_tax, advance_tax").
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC, invoice_no ASC").
		Scan(&lines).Error
	if err != nil {
		return t, nil, fmt.Errorf("load period invoices: %w", err)
	}
	if len(lines) == 0 {
		return t, nil, nil
	}

	qtyByInvoice, err := r.quantities(lines)
	if err != nil {
		return t, nil, err
	}

	for i := range lines {
		lines[i].Qty = qtyByInvoice[lines[i].ID]
		t.TotalSales = t.TotalSales.Add(lines[i].Subtotal)
		t.TotalSalesTax = t.TotalSalesTax.Add(lines[i].SalesTax)
		t.TotalAdvanceTax = t.TotalAdvanceTax.Add(lines[i].AdvanceTax)
		t.TotalQty = t.TotalQty.Add(lines[i].Qty)
	}
	t.InvoiceCount = len(lines)
	return t, lines, nil
}

func (r *Reporter) quantities(lines []InvoiceLine) (map[uint]decimal.Decimal, error) {
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	var rows []struct {
		InvoiceID uint
		QtySum    decimal.Decimal
	}
	err := r.Store.DB.
		Table("invoice_items").
		Select("invoice_id, COALESCE(SUM(qty), 0) AS qty_sum").
		Where("invoice_id IN ?", ids).
		Group("invoice_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load period quantities: %w", err)
	}
	out := make(map[uint]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.InvoiceID] = row.QtySum
	}
	return out, nil
}

// ProductStanding ranks one product by revenue within a period.
type ProductStanding struct {
	ProductName  string
	TotalQty     decimal.Decimal
	TotalRevenue decimal.Decimal
}

// TopProducts returns the best selling products by revenue. Lines whose
// product was removed have no current name and are left out.
func (r *Reporter) TopProducts(start, end string, limit int) ([]ProductStanding, error) {
	var out []ProductStanding
	err := r.Store.DB.
		Table("invoice_items AS ii").
		Select("p.name AS product_name, SUM(ii.qty) AS total_qty, SUM(ii.total_amount) AS total_revenue").
		Joins("JOIN invoices i ON i.id = ii.invoice_id").
		Joins("LEFT JOIN products p ON p.id = ii.product_id").
		Where("i.date BETWEEN ? AND ?", start, end).
		Group("ii.product_id, p.name").
		Having("p.name IS NOT NULL").
		Order("total_revenue DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load top products: %w", err)
	}
	return out, nil
}

// CustomerStanding ranks one customer by spend within a period.
type CustomerStanding struct {
	CustomerName string
	InvoiceCount int
	TotalSpent   decimal.Decimal
}

// TopCustomers returns the highest spending customers for a period.
func (r *Reporter) TopCustomers(start, end string, limit int) ([]CustomerStanding, error) {
	var out []CustomerStanding
	err := r.Store.DB.
		Table("invoices AS i").
		Select("c.name AS customer_name, COUNT(i.id) AS invoice_count, SUM(i.total_amount) AS total_spent").
		Joins("JOIN customers c ON c.id = i.customer_id").
		Where("i.date BETWEEN ? AND ?", start, end).
		Group("c.id").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load top customers: %w", err)
	}
	return out, nil
}
