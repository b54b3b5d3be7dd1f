package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"invoicedesk/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Company{}, &models.Customer{}, &models.Product{},
		&models.PriceOverride{}, &models.Invoice{}, &models.InvoiceItem{}, &models.Setting{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, s *Store, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name, Address: "Karachi", Contact: "0300-0000000"}
	if err := s.CreateCustomer(c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func seedProduct(t *testing.T, s *Store, name string, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:      name,
		UnitPrice: mustDec(t, price),
		TaxRate:   decimal.NewFromInt(18),
		Active:    true,
	}
	if err := s.CreateProduct(p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func testInvoice(no, date string, customerID uint, total string, t *testing.T) *models.Invoice {
	t.Helper()
	return &models.Invoice{
		InvoiceNo:   no,
		CustomerID:  customerID,
		CompanyID:   1,
		Date:        date,
		Subtotal:    mustDec(t, total),
		TotalAmount: mustDec(t, total),
	}
}

func testItems(t *testing.T, qtys ...string) []models.InvoiceItem {
	t.Helper()
	var items []models.InvoiceItem
	for i, q := range qtys {
		items = append(items, models.InvoiceItem{
			Description: fmt.Sprintf("line %d", i+1),
			Qty:         mustDec(t, q),
			UnitPrice:   mustDec(t, "700"),
			Value:       mustDec(t, q).Mul(mustDec(t, "700")).Round(2),
		})
	}
	return items
}

func TestSaveCompanySingleton(t *testing.T) {
	s := New(setupTestDB(t))

	if got, err := s.Company(); err != nil || got != nil {
		t.Fatalf("expected no company yet, got %+v err %v", got, err)
	}

	first, err := s.SaveCompany(models.Company{Name: " Shaguftaz ", Address: "Lahore", NTN: "1234567-8"})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if first.Name != "Shaguftaz" {
		t.Errorf("name not trimmed: %q", first.Name)
	}

	second, err := s.SaveCompany(models.Company{Name: "Shaguftaz Distributors", Address: "Lahore", STRN: "32-77-8888"})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("singleton violated: ids %d vs %d", first.ID, second.ID)
	}

	var count int64
	s.DB.Model(&models.Company{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 company row got %d", count)
	}

	got, err := s.Company()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "Shaguftaz Distributors" || got.STRN != "32-77-8888" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestSaveCompanyRequiresName(t *testing.T) {
	s := New(setupTestDB(t))
	if _, err := s.SaveCompany(models.Company{Name: "   "}); err != ErrCompanyNameRequired {
		t.Fatalf("want ErrCompanyNameRequired, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	s := New(setupTestDB(t))

	if v, err := s.GetSetting("invoice_prefix"); err != nil || v != "" {
		t.Fatalf("unset key: got %q err %v", v, err)
	}
	if err := s.SetSetting("invoice_prefix", "INV-"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetSetting("invoice_prefix", "SG-"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, err := s.GetSetting("invoice_prefix")
	if err != nil || v != "SG-" {
		t.Fatalf("got %q err %v, want SG-", v, err)
	}
	var count int64
	s.DB.Model(&models.Setting{}).Count(&count)
	if count != 1 {
		t.Fatalf("upsert created duplicate rows: %d", count)
	}
}

func TestDashboard(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Imtiaz Group")

	invoices := []struct{ no, date, total string }{
		{"INV-0001", "2024-12-31", "100.00"},
		{"INV-0002", "2025-01-10", "200.00"},
		{"INV-0003", "2025-10-05", "50.00"},
	}
	for _, in := range invoices {
		if _, err := s.CreateInvoiceWithItems(testInvoice(in.no, in.date, c.ID, in.total, t), testItems(t, "1")); err != nil {
			t.Fatalf("create %s: %v", in.no, err)
		}
	}

	today := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	stats, err := s.Dashboard(today)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.YTDRevenue.StringFixed(2) != "250.00" {
		t.Errorf("ytd = %s, want 250.00", stats.YTDRevenue.StringFixed(2))
	}
	if stats.MTDRevenue.StringFixed(2) != "50.00" {
		t.Errorf("mtd = %s, want 50.00", stats.MTDRevenue.StringFixed(2))
	}
	if stats.TotalInvoices != 3 || stats.TotalCustomers != 1 {
		t.Errorf("counts = %d invoices %d customers", stats.TotalInvoices, stats.TotalCustomers)
	}
	if len(stats.Recent) != 3 || stats.Recent[0].InvoiceNo != "INV-0003" {
		t.Errorf("recent order wrong: %+v", stats.Recent)
	}
}

func TestDashboardEmpty(t *testing.T) {
	s := New(setupTestDB(t))
	stats, err := s.Dashboard(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !stats.YTDRevenue.IsZero() || stats.TotalInvoices != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
