package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invoicedesk/internal/models"
	"invoicedesk/internal/money"
	"invoicedesk/internal/pdf"
	"invoicedesk/internal/store"
)

var (
	// ErrCompanyMissing blocks invoice creation until the company
	// profile exists. The rendered header needs a seller.
	ErrCompanyMissing = errors.New("company_profile_missing")

	// ErrCustomerRequired rejects an invoice without a resolvable buyer.
	ErrCustomerRequired = errors.New("customer_required")

	// ErrInvalidDate rejects a date that is not YYYY-MM-DD. Anything
	// else would break lexical range queries over the ledger.
	ErrInvalidDate = errors.New("invalid_date")
)

// ItemInput is one invoice line as entered. Qty and UnitPrice are raw
// text and parse strictly. UnitPrice may be left empty when ProductID is
// set; the customer's price override, then the catalog price, fills it.
// Tax percents default to the product's rate (sales) and 0.5 (advance)
// unless overridden.
type ItemInput struct {
	ProductID         *uint
	Description       string
	Qty               string
	UnitPrice         string
	SalesTaxPercent   string
	AdvanceTaxPercent string
}

// CreateInvoiceInput is everything needed to commit one invoice. An
// empty InvoiceNo asks the numbering service for the next one; a blank
// Date means today.
type CreateInvoiceInput struct {
	InvoiceNo  string
	CustomerID uint
	Date       string
	Notes      string
	ShippedTo  string
	Items      []ItemInput
}

// CreateInvoiceResult reports a committed invoice. RenderErr carries a
// failure to produce or record the PDF; the invoice itself is already
// durable when it is set, so callers warn instead of aborting.
type CreateInvoiceResult struct {
	InvoiceID uint
	InvoiceNo string
	PDFPath   string
	RenderErr error
}

// InvoiceService drives the invoice workflow end to end: price and tax
// resolution, line arithmetic, atomic persistence, then rendering.
type InvoiceService struct {
	Store     *store.Store
	Renderer  *pdf.Renderer
	Numbering *NumberingService
	Prefs     *PreferenceService
}

func NewInvoiceService(st *store.Store, r *pdf.Renderer, numbering *NumberingService, prefs *PreferenceService) *InvoiceService {
	return &InvoiceService{Store: st, Renderer: r, Numbering: numbering, Prefs: prefs}
}

// Create validates and commits an invoice, then renders its PDF into the
// preferred directory as invoice_<no>.pdf and records the path. The
// write order is fixed: the invoice and its items land in one
// transaction before any file is touched, and a render or attach failure
// never rolls that back.
func (s *InvoiceService) Create(in CreateInvoiceInput) (*CreateInvoiceResult, error) {
	company, err := s.Store.Company()
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyMissing
	}
	if in.CustomerID == 0 {
		return nil, ErrCustomerRequired
	}
	customer, err := s.Store.CustomerByID(in.CustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerRequired
	}
	if err != nil {
		return nil, fmt.Errorf("load customer %d: %w", in.CustomerID, err)
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	// Reject an empty invoice here, before a number is consumed.
	if len(in.Items) == 0 {
		return nil, store.ErrNoItems
	}

	items, calcs, err := s.buildItems(in.CustomerID, in.Items)
	if err != nil {
		return nil, err
	}
	sum := money.Summarize(calcs)

	invoiceNo := strings.TrimSpace(in.InvoiceNo)
	if invoiceNo == "" {
		invoiceNo, err = s.Numbering.CommitNext()
		if err != nil {
			return nil, err
		}
	}

	inv := &models.Invoice{
		InvoiceNo:   invoiceNo,
		CustomerID:  in.CustomerID,
		CompanyID:   company.ID,
		Date:        date,
		Subtotal:    sum.Subtotal,
		SalesTax:    sum.SalesTaxTotal,
		AdvanceTax:  sum.AdvanceTaxTotal,
		TotalAmount: sum.GrandTotal,
		Notes:       strings.TrimSpace(in.Notes),
		ShippedTo:   strings.TrimSpace(in.ShippedTo),
	}
	id, err := s.Store.CreateInvoiceWithItems(inv, items)
	if err != nil {
		return nil, err
	}

	res := &CreateInvoiceResult{InvoiceID: id, InvoiceNo: invoiceNo}
	res.PDFPath, res.RenderErr = s.renderNew(inv, items, *company, *customer)
	return res, nil
}

// buildItems resolves each entered line against the catalog and computes
// its money breakdown.
func (s *InvoiceService) buildItems(customerID uint, lines []ItemInput) ([]models.InvoiceItem, []money.ItemCalc, error) {
	items := make([]models.InvoiceItem, 0, len(lines))
	calcs := make([]money.ItemCalc, 0, len(lines))
	for i, line := range lines {
		var product *models.Product
		if line.ProductID != nil {
			p, err := s.Store.ProductByID(*line.ProductID)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: product %d: %w", i+1, *line.ProductID, err)
			}
			product = p
		}

		unitPrice := strings.TrimSpace(line.UnitPrice)
		if unitPrice == "" && product != nil {
			override, err := s.Store.PriceFor(customerID, product.ID)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: price lookup: %w", i+1, err)
			}
			if override != nil {
				unitPrice = override.String()
			} else {
				unitPrice = product.UnitPrice.String()
			}
		}

		salesPct := money.DefaultSalesTaxPercent
		if product != nil {
			salesPct = product.TaxRate
		}
		if v := strings.TrimSpace(line.SalesTaxPercent); v != "" {
			pct, err := percent(v)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: sales tax percent: %w", i+1, err)
			}
			salesPct = pct
		}
		advPct := money.DefaultAdvanceTaxPercent
		if v := strings.TrimSpace(line.AdvanceTaxPercent); v != "" {
			pct, err := percent(v)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: advance tax percent: %w", i+1, err)
			}
			advPct = pct
		}

		calc, err := money.ComputeItem(line.Qty, unitPrice, salesPct, advPct)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		desc := strings.TrimSpace(line.Description)
		if desc == "" && product != nil {
			desc = product.Name
		}

		items = append(items, models.InvoiceItem{
			ProductID:        line.ProductID,
			Description:      desc,
			Qty:              calc.Qty,
			UnitPrice:        calc.UnitPrice,
			Value:            calc.Value,
			SalesTaxAmount:   calc.SalesTaxAmount,
			AdvanceTaxAmount: calc.AdvanceTaxAmount,
			TotalAmount:      calc.TotalAmount,
		})
		calcs = append(calcs, calc)
	}
	return items, calcs, nil
}

// renderNew writes the just-committed invoice as a PDF and records its
// path on the row.
func (s *InvoiceService) renderNew(inv *models.Invoice, items []models.InvoiceItem, company models.Company, customer models.Customer) (string, error) {
	prefs, err := s.Prefs.Get()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(prefs.DefaultPDFDir, 0o755); err != nil {
		return "", fmt.Errorf("create pdf dir %s: %w", prefs.DefaultPDFDir, err)
	}
	path := filepath.Join(prefs.DefaultPDFDir, fmt.Sprintf("invoice_%s.pdf", pdf.SafeName(inv.InvoiceNo)))

	doc := pdf.FromModels(*inv, items, pdf.CompanyParty(company), pdf.CustomerParty(customer))
	if err := s.Renderer.RenderFile(doc, path); err != nil {
		return "", err
	}
	if err := s.Store.AttachPDFPath(inv.ID, path); err != nil {
		return path, err
	}
	return path, nil
}

// Document loads a stored invoice and shapes it for the renderer. Buyer
// fields come from the invoice read's customer join, so an invoice whose
// customer row is gone still renders, with empty buyer fields.
func (s *InvoiceService) Document(id uint) (pdf.Document, error) {
	seller, err := s.seller()
	if err != nil {
		return pdf.Document{}, err
	}
	return s.document(id, seller)
}

// RegenerateAllPDFs re-renders every stored invoice into outputDir as
// Invoice_<no>.pdf and returns the written paths. Stored pdf_path values
// stay untouched; this is a bulk export after a layout or font change,
// not a replacement of the canonical files.
func (s *InvoiceService) RegenerateAllPDFs(outputDir string) ([]string, error) {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = "pdf_exports"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}
	rows, err := s.Store.Invoices()
	if err != nil {
		return nil, err
	}
	seller, err := s.seller()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(rows))
	for _, row := range rows {
		doc, err := s.document(row.ID, seller)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(outputDir, fmt.Sprintf("Invoice_%s.pdf", pdf.SafeName(row.InvoiceNo)))
		if err := s.Renderer.RenderFile(doc, path); err != nil {
			return paths, fmt.Errorf("regenerate %s: %w", row.InvoiceNo, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *InvoiceService) seller() (pdf.Party, error) {
	company, err := s.Store.Company()
	if err != nil {
		return pdf.Party{}, err
	}
	if company == nil {
		return pdf.Party{}, nil
	}
	return pdf.CompanyParty(*company), nil
}

func (s *InvoiceService) document(id uint, seller pdf.Party) (pdf.Document, error) {
	det, err := s.Store.InvoiceByID(id)
	if err != nil {
		return pdf.Document{}, fmt.Errorf("invoice %d: %w", id, err)
	}
	items, err := s.Store.InvoiceItems(id)
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

// normalizeDate returns today for blank input and insists on ISO
// YYYY-MM-DD otherwise. Reformatting canonicalizes single-digit months
// and days, which time.Parse tolerates but range queries do not.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("date %q: %w", s, ErrInvalidDate)
	}
	return t.Format("2006-01-02"), nil
}

func percent(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%q: %w", s, money.ErrInvalidAmount)
	}
	return d, nil
}
