package pdf

import (
	"fmt"
	"strconv"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"invoicedesk/internal/money"
)

// BundleSummary is the cover sheet of a monthly bundle.
type BundleSummary struct {
	Title        string
	TotalSales   decimal.Decimal
	SalesTax     decimal.Decimal
	AdvanceTax   decimal.Decimal
	QtyPieces    decimal.Decimal
	InvoiceCount int
}

// RenderSummaryPage writes a one page metric table used as the first
// sheet of a merged monthly report.
func (r *Renderer) RenderSummaryPage(s BundleSummary, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", r.FontsDir)
	pdf.SetMargins(14, 18, 14)
	pdf.SetAutoPageBreak(true, 14)
	family := r.resolveFont(pdf)
	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 10, s.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Metric", "Total"},
		{"Total Sales", money.FormatMoney(s.TotalSales)},
		{"Sales Tax Collected", money.FormatMoney(s.SalesTax)},
		{"Advance Tax Collected", money.FormatMoney(s.AdvanceTax)},
		{"Total Quantity (pcs)", money.FormatQty(s.QtyPieces)},
		{"Number of Invoices", strconv.Itoa(s.InvoiceCount)},
	}

	const colW, rowH = 42.0, 7.0
	pageW, _ := pdf.GetPageSize()
	x := (pageW - 2*colW) / 2
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(128, 128, 128)
	for i, row := range rows {
		pdf.SetX(x)
		if i == 0 {
			pdf.SetFont(family, "B", 10)
			pdf.SetFillColor(211, 211, 211)
			pdf.CellFormat(colW, rowH, row[0], "1", 0, "L", true, 0, "")
			pdf.CellFormat(colW, rowH, row[1], "1", 1, "L", true, 0, "")
			pdf.SetFont(family, "", 10)
			continue
		}
		pdf.CellFormat(colW, rowH, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW, rowH, row[1], "1", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("write summary pdf %s: %w", outputPath, err)
	}
	return nil
}
