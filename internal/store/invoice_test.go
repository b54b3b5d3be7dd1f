package store

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"invoicedesk/internal/models"
)

func TestCreateInvoiceWithItems(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Imtiaz Group")

	id, err := s.CreateInvoiceWithItems(testInvoice("INV-0001", "2025-07-01", c.ID, "268800.00", t), testItems(t, "240", "144"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected assigned invoice id")
	}

	items, err := s.InvoiceItems(id)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items got %d", len(items))
	}
	for _, it := range items {
		if it.InvoiceID != id {
			t.Errorf("item %d not linked to invoice %d", it.ID, id)
		}
	}

	detail, err := s.InvoiceByID(id)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.CustomerName != "Imtiaz Group" {
		t.Errorf("customer name = %q", detail.CustomerName)
	}
	if detail.Subtotal.StringFixed(2) != "268800.00" {
		t.Errorf("subtotal = %s", detail.Subtotal.StringFixed(2))
	}
}

func TestCreateInvoiceDuplicateNumber(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Metro")

	if _, err := s.CreateInvoiceWithItems(testInvoice("INV-0001", "2025-07-01", c.ID, "100.00", t), testItems(t, "1")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := s.CreateInvoiceWithItems(testInvoice("INV-0001", "2025-07-02", c.ID, "200.00", t), testItems(t, "2"))
	if !errors.Is(err, ErrDuplicateInvoiceNo) {
		t.Fatalf("want ErrDuplicateInvoiceNo, got %v", err)
	}

	var count int64
	s.DB.Model(&models.Invoice{}).Count(&count)
	if count != 1 {
		t.Fatalf("duplicate slipped through: %d invoices", count)
	}
}

func TestCreateInvoiceRejectsEmptyItems(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Metro")
	_, err := s.CreateInvoiceWithItems(testInvoice("INV-0001", "2025-07-01", c.ID, "0.00", t), nil)
	if !errors.Is(err, ErrNoItems) {
		t.Fatalf("want ErrNoItems, got %v", err)
	}
}

func TestCreateInvoiceRollsBackOnItemFailure(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Metro")

	// Sabotage the item insert so it fails after the header went in.
	if err := s.DB.Migrator().DropTable(&models.InvoiceItem{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := s.CreateInvoiceWithItems(testInvoice("INV-0042", "2025-07-01", c.ID, "100.00", t), testItems(t, "1"))
	if err == nil {
		t.Fatal("expected item insert failure")
	}

	var count int64
	s.DB.Model(&models.Invoice{}).Where("invoice_no = ?", "INV-0042").Count(&count)
	if count != 0 {
		t.Fatalf("headless invoice persisted after rollback: %d rows", count)
	}
}

func TestInvoiceListKeepsRowsWithMissingCustomer(t *testing.T) {
	s := New(setupTestDB(t))

	// Reference a customer id that does not exist; the outer join must
	// still return the invoice, with an empty name.
	if _, err := s.CreateInvoiceWithItems(testInvoice("INV-0009", "2025-07-01", 9999, "10.00", t), testItems(t, "1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := s.Invoices()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row got %d", len(rows))
	}
	if rows[0].CustomerName != "" {
		t.Errorf("expected empty customer name, got %q", rows[0].CustomerName)
	}
}

func TestSearchInvoices(t *testing.T) {
	s := New(setupTestDB(t))
	c1 := seedCustomer(t, s, "Imtiaz Group")
	c2 := seedCustomer(t, s, "Al Fatah Stores")

	for _, in := range []struct {
		no, date string
		cust     uint
	}{
		{"INV-0001", "2025-07-01", c1.ID},
		{"INV-0002", "2025-07-03", c2.ID},
		{"SG-0100", "2025-07-02", c1.ID},
	} {
		if _, err := s.CreateInvoiceWithItems(testInvoice(in.no, in.date, in.cust, "10.00", t), testItems(t, "1")); err != nil {
			t.Fatalf("create %s: %v", in.no, err)
		}
	}

	byNo, err := s.SearchInvoices("SG-")
	if err != nil || len(byNo) != 1 || byNo[0].InvoiceNo != "SG-0100" {
		t.Fatalf("search by number: %v %+v", err, byNo)
	}

	byCustomer, err := s.SearchInvoices("Imtiaz")
	if err != nil {
		t.Fatalf("search by customer: %v", err)
	}
	if len(byCustomer) != 2 {
		t.Fatalf("expected 2 matches got %d", len(byCustomer))
	}
	// Newest first.
	if byCustomer[0].InvoiceNo != "SG-0100" {
		t.Errorf("order wrong: %+v", byCustomer)
	}
}

func TestAttachPDFPath(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Metro")
	id, err := s.CreateInvoiceWithItems(testInvoice("INV-0001", "2025-07-01", c.ID, "10.00", t), testItems(t, "1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.AttachPDFPath(id, "/tmp/INV-0001.pdf"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	detail, err := s.InvoiceByID(id)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.PDFPath != "/tmp/INV-0001.pdf" {
		t.Errorf("pdf path = %q", detail.PDFPath)
	}
}

func TestDeleteInvoiceRemovesItemsFirst(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Metro")
	id, err := s.CreateInvoiceWithItems(testInvoice("INV-0001", "2025-07-01", c.ID, "10.00", t), testItems(t, "1", "2"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.DeleteInvoice(id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var itemCount, invCount int64
	s.DB.Model(&models.InvoiceItem{}).Where("invoice_id = ?", id).Count(&itemCount)
	s.DB.Model(&models.Invoice{}).Where("id = ?", id).Count(&invCount)
	if itemCount != 0 || invCount != 0 {
		t.Fatalf("delete incomplete: %d items %d invoices left", itemCount, invCount)
	}
}

func TestInvoiceByIDNotFound(t *testing.T) {
	s := New(setupTestDB(t))
	if _, err := s.InvoiceByID(12345); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}

func TestLatestInvoiceNo(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Metro")

	no, err := s.LatestInvoiceNo()
	if err != nil || no != "" {
		t.Fatalf("empty store: got %q err %v", no, err)
	}

	for _, n := range []string{"INV-0001", "INV-0002"} {
		if _, err := s.CreateInvoiceWithItems(testInvoice(n, "2025-07-01", c.ID, "10.00", t), testItems(t, "1")); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}
	no, err = s.LatestInvoiceNo()
	if err != nil || no != "INV-0002" {
		t.Fatalf("latest = %q err %v, want INV-0002", no, err)
	}

	exists, err := s.InvoiceNoExists("INV-0002")
	if err != nil || !exists {
		t.Fatalf("INV-0002 should exist: %v %v", exists, err)
	}
	exists, err = s.InvoiceNoExists("INV-9999")
	if err != nil || exists {
		t.Fatalf("INV-9999 should not exist: %v %v", exists, err)
	}
}
