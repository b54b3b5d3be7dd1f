// Package pdf renders sales tax invoices as A4 documents and bundles
// rendered files into monthly reports.
package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"invoicedesk/internal/money"
)

var ErrZeroTableWidth = errors.New("zero_table_width")

// Party identifies one side of an invoice.
type Party struct {
	Name    string
	Address string
	Contact string
	NTN     string
	STRN    string
}

// Item is one table row. Amounts arrive already rounded.
type Item struct {
	SNo              int
	Description      string
	Qty              decimal.Decimal
	UnitPrice        decimal.Decimal
	Value            decimal.Decimal
	SalesTaxAmount   decimal.Decimal
	AdvanceTaxAmount decimal.Decimal
	TotalAmount      decimal.Decimal
}

// Document carries everything RenderFile needs for one invoice.
type Document struct {
	InvoiceNo string
	Date      string
	Notes     string
	ShippedTo string
	Company   Party
	Customer  Party
	Items     []Item
}

func (d Document) shippedTo() string {
	if strings.TrimSpace(d.ShippedTo) != "" {
		return d.ShippedTo
	}
	return d.Customer.Address
}

// Page geometry in millimetres.
const (
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 18.0
	marginBottom = 18.0

	headerRowH = 10.0
	bodyLineH  = 4.5
	cellPad    = 1.0
)

var baseColWidths = []float64{10, 60, 12, 16, 22, 20, 18, 26}

var tableHeaders = []string{
	"S. No.",
	"Description",
	"Qty",
	"Unit\nPrice",
	"Value",
	"S/Tax\nAmount (18%)",
	"Adv Tax\nAmount (0.5%)",
	"Amount",
}

// Renderer draws invoice documents. FontsDir may hold Cambria.ttf and
// Cambria-Bold.ttf; when either is absent the built-in Times face is
// used instead.
type Renderer struct {
	FontsDir string
}

func NewRenderer(fontsDir string) *Renderer {
	return &Renderer{FontsDir: fontsDir}
}

// RenderFile draws one invoice and writes it to outputPath. Totals are
// recomputed from the items so the document always matches its rows.
func (r *Renderer) RenderFile(doc Document, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", r.FontsDir)
	pdf.SetTitle(doc.Company.Name, true)
	pdf.SetAuthor(doc.Company.Name, true)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	family := r.resolveFont(pdf)
	pageW, pageH := pdf.GetPageSize()
	printable := pageW - marginLeft - marginRight

	widths, err := scaleWidths(baseColWidths, printable)
	if err != nil {
		return err
	}

	pdf.AddPage()

	d := &drawer{pdf: pdf, family: family, widths: widths, pageH: pageH, printable: printable}
	d.headerBlock(doc)
	d.title()
	d.itemsTable(doc.Items)
	sum := summarize(doc.Items)
	d.quantityRow(sum)
	d.totalsBlock(sum)
	d.notes(doc.Notes)
	d.footerLine()

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("write invoice pdf %s: %w", outputPath, err)
	}
	return nil
}

// resolveFont registers the Cambria faces when both files are present
// and reports the family the document should use. A missing or broken
// font never fails the render.
func (r *Renderer) resolveFont(pdf *gofpdf.Fpdf) string {
	if r.FontsDir == "" {
		return "Times"
	}
	if _, err := os.Stat(filepath.Join(r.FontsDir, "Cambria.ttf")); err != nil {
		return "Times"
	}
	if _, err := os.Stat(filepath.Join(r.FontsDir, "Cambria-Bold.ttf")); err != nil {
		return "Times"
	}
	pdf.AddUTF8Font("Cambria", "", "Cambria.ttf")
	pdf.AddUTF8Font("Cambria", "B", "Cambria-Bold.ttf")
	if pdf.Err() {
		pdf.ClearError()
		return "Times"
	}
	return "Cambria"
}

// scaleWidths stretches the base column widths so they fill the
// printable width exactly.
func scaleWidths(base []float64, printable float64) ([]float64, error) {
	var total float64
	for _, w := range base {
		total += w
	}
	if total <= 0 {
		return nil, ErrZeroTableWidth
	}
	scale := printable / total
	out := make([]float64, len(base))
	for i, w := range base {
		out[i] = w * scale
	}
	return out, nil
}

func summarize(items []Item) money.Summary {
	calcs := make([]money.ItemCalc, len(items))
	for i, it := range items {
		calcs[i] = money.ItemCalc{
			Qty:              it.Qty,
			UnitPrice:        it.UnitPrice,
			Value:            it.Value,
			SalesTaxAmount:   it.SalesTaxAmount,
			AdvanceTaxAmount: it.AdvanceTaxAmount,
			TotalAmount:      it.TotalAmount,
		}
	}
	return money.Summarize(calcs)
}

type drawer struct {
	pdf       *gofpdf.Fpdf
	family    string
	widths    []float64
	pageH     float64
	printable float64
}

// line writes one wrapped line in a column and returns the y position
// below it.
func (d *drawer) line(x, w, y float64, style, text string) float64 {
	d.pdf.SetFont(d.family, style, 10)
	d.pdf.SetXY(x, y)
	d.pdf.MultiCell(w, 5, text, "", "L", false)
	return d.pdf.GetY()
}

// labeled writes a bold label followed by regular text, wrapping the
// text within the column.
func (d *drawer) labeled(x, w, y float64, label, value string) float64 {
	d.pdf.SetFont(d.family, "B", 10)
	d.pdf.SetXY(x, y)
	lw := d.pdf.GetStringWidth(label) + 1.5
	d.pdf.CellFormat(lw, 5, label, "", 0, "L", false, 0, "")
	d.pdf.SetFont(d.family, "", 10)
	d.pdf.MultiCell(w-lw, 5, value, "", "L", false)
	return d.pdf.GetY()
}

func (d *drawer) headerBlock(doc Document) {
	pdf := d.pdf
	pdf.SetFont(d.family, "B", 26)
	pdf.CellFormat(0, 11, doc.Company.Name, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	top := pdf.GetY()
	const leftW, rightW = 100.0, 80.0
	rightX := marginLeft + leftW

	y := top
	if doc.Company.Address != "" {
		y = d.line(marginLeft, leftW, y, "", doc.Company.Address)
	}
	y = d.line(marginLeft, leftW, y, "", "Contact: "+doc.Company.Contact)
	y = d.line(marginLeft, leftW, y, "", "NTN: "+doc.Company.NTN)
	if doc.Company.STRN != "" {
		y = d.line(marginLeft, leftW, y, "", "STRN: "+doc.Company.STRN)
	}
	leftBottom := y

	y = top
	y = d.labeled(rightX, rightW, y, "Invoice No:", doc.InvoiceNo)
	y += 2
	y = d.labeled(rightX, rightW, y, "Date:", doc.Date)
	y += 2
	y = d.line(rightX, rightW, y, "B", "Bill To:")
	y = d.line(rightX, rightW, y, "", doc.Customer.Name)
	y = d.line(rightX, rightW, y, "", "NTN: "+doc.Customer.NTN)
	y = d.line(rightX, rightW, y, "", "STRN: "+doc.Customer.STRN)
	y = d.labeled(rightX, rightW, y, "Shipped to:", doc.shippedTo())
	if doc.Customer.Contact != "" {
		y = d.line(rightX, rightW, y, "", "Contact: "+doc.Customer.Contact)
	}

	if leftBottom > y {
		y = leftBottom
	}
	pdf.SetY(y + 5)
}

func (d *drawer) title() {
	pdf := d.pdf
	pdf.SetFont(d.family, "BU", 12)
	pdf.CellFormat(0, 7, "Sales Tax Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(2)
}

// tableHeaderRow paints the column headings. It repeats at the top of
// every page the table spills onto.
func (d *drawer) tableHeaderRow() {
	pdf := d.pdf
	pdf.SetFont(d.family, "B", 7)
	pdf.SetFillColor(211, 211, 211)
	x := marginLeft
	y := pdf.GetY()
	for i, label := range tableHeaders {
		pdf.SetXY(x, y)
		pdf.CellFormat(d.widths[i], headerRowH, "", "1", 0, "", true, 0, "")
		lines := strings.Split(label, "\n")
		ty := y + (headerRowH-float64(len(lines))*3.5)/2
		for j, ln := range lines {
			pdf.SetXY(x, ty+float64(j)*3.5)
			pdf.CellFormat(d.widths[i], 3.5, ln, "", 0, "C", false, 0, "")
		}
		x += d.widths[i]
	}
	pdf.SetXY(marginLeft, y+headerRowH)
}

func (d *drawer) itemsTable(items []Item) {
	pdf := d.pdf
	pdf.SetLineWidth(0.1)
	pdf.SetDrawColor(128, 128, 128)
	d.tableHeaderRow()
	pdf.SetFont(d.family, "", 9)
	for _, it := range items {
		d.bodyRow([]string{
			strconv.Itoa(it.SNo),
			it.Description,
			money.FormatQty(it.Qty),
			money.FormatMoney(it.UnitPrice),
			money.FormatMoney(it.Value),
			money.FormatMoney(it.SalesTaxAmount),
			money.FormatMoney(it.AdvanceTaxAmount),
			money.FormatMoney(it.TotalAmount),
		})
	}
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Ln(4)
}

func (d *drawer) bodyRow(cells []string) {
	pdf := d.pdf
	descLines := len(pdf.SplitLines([]byte(cells[1]), d.widths[1]-2*cellPad))
	if descLines < 1 {
		descLines = 1
	}
	rowH := float64(descLines)*bodyLineH + 2*cellPad
	if pdf.GetY()+rowH > d.pageH-marginBottom {
		pdf.AddPage()
		d.tableHeaderRow()
		pdf.SetFont(d.family, "", 9)
	}
	x, y := marginLeft, pdf.GetY()
	for i, cell := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(d.widths[i], rowH, "", "1", 0, "", false, 0, "")
		pdf.SetXY(x+cellPad, y+cellPad)
		switch i {
		case 0:
			pdf.CellFormat(d.widths[i]-2*cellPad, bodyLineH, cell, "", 0, "L", false, 0, "")
		case 1:
			pdf.MultiCell(d.widths[i]-2*cellPad, bodyLineH, cell, "", "L", false)
		default:
			pdf.CellFormat(d.widths[i]-2*cellPad, bodyLineH, cell, "", 0, "R", false, 0, "")
		}
		x += d.widths[i]
	}
	pdf.SetXY(marginLeft, y+rowH)
}

// quantityRow prints the piece count under the table, label spanning
// the first two columns and the value sitting under the Qty column.
func (d *drawer) quantityRow(sum money.Summary) {
	pdf := d.pdf
	pdf.SetFont(d.family, "B", 10)
	pdf.CellFormat(d.widths[0]+d.widths[1], 6, "Total Quantity (pcs):", "B", 0, "R", false, 0, "")
	pdf.CellFormat(d.widths[2], 6, strconv.FormatInt(sum.TotalQtyPieces, 10), "B", 1, "R", false, 0, "")
	pdf.Ln(7)
}

func (d *drawer) totalsBlock(sum money.Summary) {
	pdf := d.pdf
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal:", sum.Subtotal},
		{"Sales Tax Total:", sum.SalesTaxTotal},
		{"Advance Tax Total:", sum.AdvanceTaxTotal},
		{"Grand Total:", sum.GrandTotal},
	}
	x := marginLeft + d.printable - 160
	pdf.SetFont(d.family, "", 10)
	for _, row := range rows {
		pdf.SetX(x)
		pdf.CellFormat(110, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, money.FormatMoney(row.value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(5)
}

func (d *drawer) notes(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	pdf := d.pdf
	pdf.SetFont(d.family, "B", 9)
	pdf.CellFormat(0, 5, "Notes:", "", 1, "L", false, 0, "")
	pdf.SetFont(d.family, "", 9)
	pdf.MultiCell(0, 5, text, "", "L", false)
}

// footerLine sits at the bottom of the last page, above the page
// number strip.
func (d *drawer) footerLine() {
	pdf := d.pdf
	lineY := d.pageH - marginBottom - 9
	if pdf.GetY() > lineY-2 {
		pdf.AddPage()
	}
	pdf.SetLineWidth(0.2)
	pdf.Line(marginLeft, lineY, marginLeft+d.printable, lineY)
	pdf.SetY(lineY + 2)
	pdf.SetFont(d.family, "", 8)
	pdf.CellFormat(0, 4, "This is a system generated document and does not require signature or company stamp.", "", 0, "C", false, 0, "")
}
