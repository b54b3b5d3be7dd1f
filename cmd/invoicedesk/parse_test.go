package main

import (
	"testing"
	"time"
)

func TestParseItem(t *testing.T) {
	in, err := parseItem("product=3, qty=240, price=650, salestax=18, advtax=0.5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.ProductID == nil || *in.ProductID != 3 {
		t.Fatalf("product = %v, want 3", in.ProductID)
	}
	if in.Qty != "240" || in.UnitPrice != "650" {
		t.Fatalf("qty/price = %q/%q", in.Qty, in.UnitPrice)
	}
	if in.SalesTaxPercent != "18" || in.AdvanceTaxPercent != "0.5" {
		t.Fatalf("tax = %q/%q", in.SalesTaxPercent, in.AdvanceTaxPercent)
	}
}

func TestParseItemFreeTextLine(t *testing.T) {
	in, err := parseItem("desc=Delivery charges,qty=1,price=1185")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.ProductID != nil {
		t.Fatal("free text line must not carry a product id")
	}
	if in.Description != "Delivery charges" {
		t.Fatalf("desc = %q", in.Description)
	}
}

func TestParseItemRejectsJunk(t *testing.T) {
	for _, bad := range []string{"qty", "product=x,qty=1", "flavour=mint"} {
		if _, err := parseItem(bad); err == nil {
			t.Errorf("parseItem(%q) accepted junk", bad)
		}
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in   string
		want time.Month
	}{
		{"6", time.June},
		{"12", time.December},
		{"June", time.June},
		{"june", time.June},
	}
	for _, tt := range tests {
		got, err := parseMonth(tt.in)
		if err != nil {
			t.Errorf("parseMonth(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMonth(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"0", "13", "Juneuary", ""} {
		if _, err := parseMonth(bad); err == nil {
			t.Errorf("parseMonth(%q) accepted junk", bad)
		}
	}
}
