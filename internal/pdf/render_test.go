package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func sampleItem(t *testing.T, sno int, desc string) Item {
	t.Helper()
	return Item{
		SNo:              sno,
		Description:      desc,
		Qty:              dec(t, "240"),
		UnitPrice:        dec(t, "700.00"),
		Value:            dec(t, "168000.00"),
		SalesTaxAmount:   dec(t, "30240.00"),
		AdvanceTaxAmount: dec(t, "840.00"),
		TotalAmount:      dec(t, "199080.00"),
	}
}

func sampleDocument(t *testing.T, itemCount int) Document {
	t.Helper()
	doc := Document{
		InvoiceNo: "INV-0214",
		Date:      "2025-06-14",
		Notes:     "Payment due within 30 days.",
		Company: Party{
			Name:    "Shaguftaz",
			Address: "Suite 4, Trade Centre, Multan Road, Lahore",
			Contact: "0300-1234567",
			NTN:     "1234567-8",
			STRN:    "32-77-8761-234-56",
		},
		Customer: Party{
			Name:    "Imtiaz Group",
			Address: "Main Boulevard, Gulberg III, Lahore",
			Contact: "042-35771234",
			NTN:     "7654321-0",
			STRN:    "32-00-1111-222-33",
		},
	}
	for i := 1; i <= itemCount; i++ {
		doc.Items = append(doc.Items, sampleItem(t, i, fmt.Sprintf("Maykey Mehndi Cone Carton %d", i)))
	}
	return doc
}

// pdfPageCount counts page objects in the raw file. The pages tree
// node also matches the marker, so one match is subtracted.
func pdfPageCount(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("%s does not start with a pdf header", path)
	}
	return bytes.Count(data, []byte("/Type /Page")) - 1
}

func TestRenderFileWritesPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "INV-0214.pdf")
	r := NewRenderer("")
	if err := r.RenderFile(sampleDocument(t, 2), out); err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("rendered pdf is empty")
	}
	if got := pdfPageCount(t, out); got != 1 {
		t.Fatalf("page count = %d, want 1", got)
	}
}

func TestRenderFileLongInvoicePaginates(t *testing.T) {
	out := filepath.Join(t.TempDir(), "long.pdf")
	r := NewRenderer("")
	if err := r.RenderFile(sampleDocument(t, 90), out); err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if got := pdfPageCount(t, out); got < 2 {
		t.Fatalf("page count = %d, want at least 2", got)
	}
}

func TestRenderFileNoItems(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	r := NewRenderer("")
	if err := r.RenderFile(sampleDocument(t, 0), out); err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if got := pdfPageCount(t, out); got != 1 {
		t.Fatalf("page count = %d, want 1", got)
	}
}

func TestRenderFileMissingOutputDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "inv.pdf")
	r := NewRenderer("")
	if err := r.RenderFile(sampleDocument(t, 1), out); err == nil {
		t.Fatal("expected error for missing output directory")
	}
}

func TestRenderFileMissingFontDirFallsBack(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fallback.pdf")
	r := NewRenderer(filepath.Join(t.TempDir(), "no-fonts-here"))
	if err := r.RenderFile(sampleDocument(t, 1), out); err != nil {
		t.Fatalf("RenderFile with missing fonts: %v", err)
	}
}

func TestShippedToFallsBackToCustomerAddress(t *testing.T) {
	doc := sampleDocument(t, 1)
	doc.ShippedTo = ""
	if got := doc.shippedTo(); got != doc.Customer.Address {
		t.Fatalf("shippedTo() = %q, want customer address", got)
	}
	doc.ShippedTo = "Warehouse 7, Industrial Estate"
	if got := doc.shippedTo(); got != "Warehouse 7, Industrial Estate" {
		t.Fatalf("shippedTo() = %q, want explicit value", got)
	}
}

func TestScaleWidths(t *testing.T) {
	widths, err := scaleWidths(baseColWidths, 180)
	if err != nil {
		t.Fatalf("scaleWidths: %v", err)
	}
	var total float64
	for _, w := range widths {
		total += w
	}
	if total < 179.999 || total > 180.001 {
		t.Fatalf("scaled widths sum to %f, want 180", total)
	}
	if ratio := widths[1] / widths[0]; ratio < 5.999 || ratio > 6.001 {
		t.Fatalf("description/serial ratio = %f, want 6", ratio)
	}
}

func TestScaleWidthsZeroTotal(t *testing.T) {
	if _, err := scaleWidths([]float64{0, 0, 0}, 180); !errors.Is(err, ErrZeroTableWidth) {
		t.Fatalf("err = %v, want ErrZeroTableWidth", err)
	}
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.pdf")
	second := filepath.Join(dir, "b.pdf")
	r := NewRenderer("")
	if err := r.RenderFile(sampleDocument(t, 1), first); err != nil {
		t.Fatalf("render first: %v", err)
	}
	if err := r.RenderFile(sampleDocument(t, 2), second); err != nil {
		t.Fatalf("render second: %v", err)
	}

	out := filepath.Join(dir, "merged.pdf")
	if err := MergeFiles([]string{first, second}, out); err != nil {
		t.Fatalf("MergeFiles: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read merged: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("merged file is not a pdf")
	}
}

func TestMergeFilesEmptyInput(t *testing.T) {
	err := MergeFiles(nil, filepath.Join(t.TempDir(), "out.pdf"))
	if !errors.Is(err, ErrNoInputFiles) {
		t.Fatalf("err = %v, want ErrNoInputFiles", err)
	}
}

func TestSafeName(t *testing.T) {
	if got := SafeName("INV-0042"); got != "INV-0042" {
		t.Fatalf("got %q, want unchanged", got)
	}
	if got := SafeName(`2025/06\14:B`); got != "2025-06-14-B" {
		t.Fatalf("got %q, want separators replaced", got)
	}
}
