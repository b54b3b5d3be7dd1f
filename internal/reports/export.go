package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteCSV writes a period report: heading, invoice detail rows, then
// the period totals.
func WriteCSV(path string, t Totals, lines []InvoiceLine) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Write([]string{"INVOICE REPORT"})
	w.Write([]string{fmt.Sprintf("Period: %s to %s", t.PeriodStart, t.PeriodEnd)})
	w.Write([]string{})
	w.Write([]string{"Invoice No", "Date", "Subtotal", "Sales Tax", "Advance Tax"})
	for _, l := range lines {
		w.Write([]string{
			l.InvoiceNo,
			l.Date,
			l.Subtotal.StringFixed(2),
			l.SalesTax.StringFixed(2),
			l.AdvanceTax.StringFixed(2),
		})
	}
	w.Write([]string{})
	w.Write([]string{"TOTAL SALES", t.TotalSales.StringFixed(2)})
	w.Write([]string{"TOTAL SALES TAX", t.TotalSalesTax.StringFixed(2)})
	w.Write([]string{"TOTAL ADVANCE TAX", t.TotalAdvanceTax.StringFixed(2)})
	w.Write([]string{"TOTAL QUANTITY (pcs)", t.TotalQty.String()})
	w.Write([]string{"NUMBER OF INVOICES", strconv.Itoa(t.InvoiceCount)})
	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv %s: %w", path, err)
	}
	return nil
}

// WriteExcel writes the same report as WriteCSV to an xlsx workbook,
// with money and quantity columns as numeric cells.
func WriteExcel(path string, t Totals, lines []InvoiceLine) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoice Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	var err error
	row := 0
	put := func(values ...interface{}) {
		row++
		if err != nil || len(values) == 0 {
			return
		}
		err = f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values)
	}

	put("INVOICE REPORT")
	put(fmt.Sprintf("Period: %s to %s", t.PeriodStart, t.PeriodEnd))
	put()
	put("Invoice No", "Date", "Subtotal", "Sales Tax", "Advance Tax")
	for _, l := range lines {
		put(l.InvoiceNo, l.Date, l.Subtotal.InexactFloat64(), l.SalesTax.InexactFloat64(), l.AdvanceTax.InexactFloat64())
	}
	put()
	put("TOTAL SALES", t.TotalSales.InexactFloat64())
	put("TOTAL SALES TAX", t.TotalSalesTax.InexactFloat64())
	put("TOTAL ADVANCE TAX", t.TotalAdvanceTax.InexactFloat64())
	put("TOTAL QUANTITY (pcs)", t.TotalQty.InexactFloat64())
	put("NUMBER OF INVOICES", t.InvoiceCount)
	if err != nil {
		return fmt.Errorf("build xlsx: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write xlsx %s: %w", path, err)
	}
	return nil
}
