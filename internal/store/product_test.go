package store

import (
	"testing"

	"invoicedesk/internal/models"
)

func TestDeleteProductIsSoft(t *testing.T) {
	s := New(setupTestDB(t))
	p := seedProduct(t, s, "Maykey Hair Color Black 250ml", "700")
	seedProduct(t, s, "Maykey Hair Color Dark Brown 250ml", "700")

	if err := s.DeleteProduct(p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	active, err := s.Products(false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Maykey Hair Color Dark Brown 250ml" {
		t.Errorf("active listing wrong: %+v", active)
	}

	all, err := s.Products(true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 rows including inactive, got %d", len(all))
	}

	// The row itself survives for historical invoice lines.
	got, err := s.ProductByID(p.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Active {
		t.Error("product still active after soft delete")
	}
}

func TestSearchProductsActiveOnly(t *testing.T) {
	s := New(setupTestDB(t))
	p := &models.Product{Name: "Maykey Hair Color Black 250ml", Description: "HC250BK", SKU: "HC-250-BK", Barcode: "8964000123457", UnitPrice: mustDec(t, "700"), TaxRate: mustDec(t, "18"), Active: true}
	if err := s.CreateProduct(p); err != nil {
		t.Fatalf("create: %v", err)
	}
	inactive := &models.Product{Name: "Maykey Hair Color Burgundy 250ml", UnitPrice: mustDec(t, "700"), TaxRate: mustDec(t, "18"), Active: false}
	if err := s.CreateProduct(inactive); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	for _, q := range []string{"Black", "HC250", "HC-250", "896400"} {
		got, err := s.SearchProducts(q)
		if err != nil || len(got) != 1 || got[0].ID != p.ID {
			t.Errorf("search %q: err=%v rows=%+v", q, err, got)
		}
	}
	if got, _ := s.SearchProducts("Burgundy"); len(got) != 0 {
		t.Errorf("inactive product leaked into search: %+v", got)
	}
}

func TestPriceOverrideUpsertAndLookup(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Imtiaz Group")
	p := seedProduct(t, s, "Maykey Hair Color Black 250ml", "700")

	// No override yet: nil means fall back to list price.
	price, err := s.PriceFor(c.ID, p.ID)
	if err != nil || price != nil {
		t.Fatalf("expected nil override, got %v err %v", price, err)
	}
	// Anonymous customer never has overrides.
	if price, err := s.PriceFor(0, p.ID); err != nil || price != nil {
		t.Fatalf("customer 0: got %v err %v", price, err)
	}

	if err := s.UpsertPriceOverride(c.ID, p.ID, mustDec(t, "650")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertPriceOverride(c.ID, p.ID, mustDec(t, "640")); err != nil {
		t.Fatalf("replace: %v", err)
	}

	price, err = s.PriceFor(c.ID, p.ID)
	if err != nil || price == nil {
		t.Fatalf("lookup: %v %v", price, err)
	}
	if price.StringFixed(2) != "640.00" {
		t.Errorf("price = %s, want 640.00", price.StringFixed(2))
	}

	var count int64
	s.DB.Model(&models.PriceOverride{}).Count(&count)
	if count != 1 {
		t.Fatalf("upsert duplicated rows: %d", count)
	}
}

func TestPriceOverridesForCustomer(t *testing.T) {
	s := New(setupTestDB(t))
	c := seedCustomer(t, s, "Imtiaz Group")
	p1 := seedProduct(t, s, "Maykey Hair Color Black 250ml", "700")
	p2 := seedProduct(t, s, "Maykey Hair Color Dark Brown 30ml", "68.19")

	if err := s.UpsertPriceOverride(c.ID, p1.ID, mustDec(t, "650")); err != nil {
		t.Fatalf("upsert p1: %v", err)
	}
	if err := s.UpsertPriceOverride(c.ID, p2.ID, mustDec(t, "60")); err != nil {
		t.Fatalf("upsert p2: %v", err)
	}

	rows, err := s.PriceOverridesForCustomer(c.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	// Ordered by product name.
	if rows[0].ProductName != "Maykey Hair Color Black 250ml" {
		t.Errorf("order wrong: %+v", rows)
	}
	if rows[0].CustomPrice.StringFixed(2) != "650.00" || rows[0].DefaultPrice.StringFixed(2) != "700.00" {
		t.Errorf("prices wrong: %+v", rows[0])
	}

	if err := s.DeletePriceOverride(c.ID, p1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, err = s.PriceOverridesForCustomer(c.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("after delete: %v %+v", err, rows)
	}
}

func TestUpsertProductByName(t *testing.T) {
	s := New(setupTestDB(t))

	first := &models.Product{Name: "Maykey Hair Color Black 250ml", UnitPrice: mustDec(t, "700"), TaxRate: mustDec(t, "18"), Active: true}
	created, err := s.UpsertProductByName(first)
	if err != nil || !created {
		t.Fatalf("insert path: created=%v err=%v", created, err)
	}

	second := &models.Product{Name: "Maykey Hair Color Black 250ml", SKU: "HC-250-BK", UnitPrice: mustDec(t, "725"), TaxRate: mustDec(t, "18"), Active: true}
	created, err = s.UpsertProductByName(second)
	if err != nil || created {
		t.Fatalf("update path: created=%v err=%v", created, err)
	}

	got, err := s.ProductByID(first.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.SKU != "HC-250-BK" || got.UnitPrice.StringFixed(2) != "725.00" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestUpdateProductPrice(t *testing.T) {
	s := New(setupTestDB(t))
	p := seedProduct(t, s, "Maykey Hair Color Black 250ml", "700")
	if err := s.UpdateProductPrice(p.ID, mustDec(t, "735.50")); err != nil {
		t.Fatalf("update price: %v", err)
	}
	got, err := s.ProductByID(p.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.UnitPrice.StringFixed(2) != "735.50" {
		t.Errorf("price = %s", got.UnitPrice.StringFixed(2))
	}
	if got.Name != "Maykey Hair Color Black 250ml" {
		t.Errorf("name clobbered: %q", got.Name)
	}
}
