package services

import (
	"os"
	"path/filepath"
	"testing"

	"invoicedesk/internal/models"
)

func TestPreferencesDefaults(t *testing.T) {
	st := setupStore(t)
	p, err := NewPreferenceService(st).Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.InvoicePrefix != "INV-" {
		t.Errorf("prefix = %q, want INV-", p.InvoicePrefix)
	}
	if p.InvoiceSequence != 1 {
		t.Errorf("sequence = %d, want 1", p.InvoiceSequence)
	}
	if p.DefaultPDFDir != "invoices" {
		t.Errorf("pdf dir = %q, want invoices", p.DefaultPDFDir)
	}
	if p.AutoOpenPDF {
		t.Error("auto open should default off")
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	st := setupStore(t)
	svc := NewPreferenceService(st)
	dir := filepath.Join(t.TempDir(), "exports", "pdf")

	err := svc.Save(Preferences{
		InvoicePrefix:   "STI-",
		InvoiceSequence: 12,
		DefaultPDFDir:   dir,
		AutoOpenPDF:     true,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("pdf dir not created: %v", err)
	}

	p, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.InvoicePrefix != "STI-" || p.InvoiceSequence != 12 || p.DefaultPDFDir != dir || !p.AutoOpenPDF {
		t.Fatalf("round trip mismatch: %+v", p)
	}
}

func TestPreferencesSaveClampsSequence(t *testing.T) {
	st := setupStore(t)
	svc := NewPreferenceService(st)
	err := svc.Save(Preferences{
		InvoiceSequence: -3,
		DefaultPDFDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	p, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.InvoiceSequence != 1 {
		t.Fatalf("sequence = %d, want clamp to 1", p.InvoiceSequence)
	}
	if p.InvoicePrefix != "INV-" {
		t.Fatalf("prefix = %q, want default on blank save", p.InvoicePrefix)
	}
}

func TestPreferencesGetIgnoresJunkSequence(t *testing.T) {
	st := setupStore(t)
	svc := NewPreferenceService(st)
	for _, junk := range []string{"abc", "0", "-5", ""} {
		if err := st.SetSetting(models.SettingInvoiceSequence, junk); err != nil {
			t.Fatalf("set %q: %v", junk, err)
		}
		p, err := svc.Get()
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if p.InvoiceSequence != 1 {
			t.Errorf("sequence for %q = %d, want 1", junk, p.InvoiceSequence)
		}
	}
}
