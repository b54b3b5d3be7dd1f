package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"invoicedesk/internal/pdf"
)

// monthRange returns the inclusive date bounds for a month. Dates are
// compared as text, so day 31 is a safe upper bound for every month.
func monthRange(year int, month time.Month) (string, string) {
	return fmt.Sprintf("%04d-%02d-01", year, int(month)),
		fmt.Sprintf("%04d-%02d-31", year, int(month))
}

// MonthlyBundle renders every invoice of a month into one merged PDF,
// prefixed with a summary cover when includeSummary is set. Each
// invoice is drawn fresh from the database, so the bundle reflects
// edits made after the originals were first rendered. Returns the
// merged file path.
func (r *Reporter) MonthlyBundle(year int, month time.Month, outputDir string, includeSummary bool) (string, error) {
	start, end := monthRange(year, month)
	totals, lines, err := r.Summary(start, end)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%s to %s: %w", start, end, ErrNoDataInRange)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	scratch, err := os.MkdirTemp("", "invoice-bundle-")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	company, err := r.Store.Company()
	if err != nil {
		return "", err
	}
	var seller pdf.Party
	if company != nil {
		seller = pdf.CompanyParty(*company)
	}

	parts := make([]string, 0, len(lines)+1)
	if includeSummary {
		cover := filepath.Join(scratch, "summary.pdf")
		err := r.Renderer.RenderSummaryPage(pdf.BundleSummary{
			Title:        fmt.Sprintf("%s %d Summary", month.String(), year),
			TotalSales:   totals.TotalSales,
			SalesTax:     totals.TotalSalesTax,
			AdvanceTax:   totals.TotalAdvanceTax,
			QtyPieces:    totals.TotalQty,
			InvoiceCount: totals.InvoiceCount,
		}, cover)
		if err != nil {
			return "", err
		}
		parts = append(parts, cover)
	}

	for i, line := range lines {
		doc, err := r.document(line.ID, seller)
		if err != nil {
			return "", err
		}
		part := filepath.Join(scratch, fmt.Sprintf("%04d_%s.pdf", i+1, pdf.SafeName(line.InvoiceNo)))
		if err := r.Renderer.RenderFile(doc, part); err != nil {
			return "", err
		}
		parts = append(parts, part)
	}

	merged := filepath.Join(outputDir, fmt.Sprintf("Invoices_%s_%d.pdf", month.String(), year))
	if err := pdf.MergeFiles(parts, merged); err != nil {
		return "", err
	}
	return merged, nil
}

// document loads one invoice with its joined customer fields and
// reshapes it for the renderer.
func (r *Reporter) document(id uint, seller pdf.Party) (pdf.Document, error) {
	det, err := r.Store.InvoiceByID(id)
	if err != nil {
		return pdf.Document{}, fmt.Errorf("invoice %d: %w", id, err)
	}
	items, err := r.Store.InvoiceItems(id)
	if err != nil {
		return pdf.Document{}, fmt.Errorf("invoice %d items: %w", id, err)
	}
	buyer := pdf.Party{
		Name:    det.CustomerName,
		Address: det.CustomerAddress,
		Contact: det.CustomerContact,
		NTN:     det.CustomerNTN,
		STRN:    det.CustomerSTRN,
	}
	return pdf.FromModels(det.Invoice, items, seller, buyer), nil
}
