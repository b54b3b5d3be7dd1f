// Package services holds the application workflows between the CLI and
// the store: invoice numbering and creation, preferences, the app lock,
// data transfer and database backups.
package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"invoicedesk/internal/models"
	"invoicedesk/internal/store"
)

// Preference defaults applied when a key is unset or blank.
const (
	DefaultInvoicePrefix = "INV-"
	DefaultPDFDir        = "invoices"
)

// Preferences is the typed view over stored settings.
type Preferences struct {
	InvoicePrefix   string
	InvoiceSequence int
	DefaultPDFDir   string
	AutoOpenPDF     bool
}

// PreferenceService reads and writes application preferences in the
// settings table.
type PreferenceService struct{ Store *store.Store }

func NewPreferenceService(st *store.Store) *PreferenceService {
	return &PreferenceService{Store: st}
}

// Get returns stored preferences with defaults filled in. A sequence
// below one never comes back; the counter starts at one.
func (s *PreferenceService) Get() (Preferences, error) {
	p := Preferences{
		InvoicePrefix:   DefaultInvoicePrefix,
		InvoiceSequence: 1,
		DefaultPDFDir:   DefaultPDFDir,
	}
	prefix, err := s.Store.GetSetting(models.SettingInvoicePrefix)
	if err != nil {
		return p, err
	}
	if strings.TrimSpace(prefix) != "" {
		p.InvoicePrefix = prefix
	}
	seq, err := s.Store.GetSetting(models.SettingInvoiceSequence)
	if err != nil {
		return p, err
	}
	if n, convErr := strconv.Atoi(strings.TrimSpace(seq)); convErr == nil && n >= 1 {
		p.InvoiceSequence = n
	}
	dir, err := s.Store.GetSetting(models.SettingDefaultPDFDir)
	if err != nil {
		return p, err
	}
	if strings.TrimSpace(dir) != "" {
		p.DefaultPDFDir = dir
	}
	open, err := s.Store.GetSetting(models.SettingAutoOpenPDF)
	if err != nil {
		return p, err
	}
	p.AutoOpenPDF = open == "1"
	return p, nil
}

// Save persists preferences, clamping the sequence to one and filling
// blanks with defaults. The PDF directory is created if needed.
func (s *PreferenceService) Save(p Preferences) error {
	prefix := strings.TrimSpace(p.InvoicePrefix)
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	if p.InvoiceSequence < 1 {
		p.InvoiceSequence = 1
	}
	dir := strings.TrimSpace(p.DefaultPDFDir)
	if dir == "" {
		dir = DefaultPDFDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create pdf dir %s: %w", dir, err)
	}
	autoOpen := "0"
	if p.AutoOpenPDF {
		autoOpen = "1"
	}
	pairs := [][2]string{
		{models.SettingInvoicePrefix, prefix},
		{models.SettingInvoiceSequence, strconv.Itoa(p.InvoiceSequence)},
		{models.SettingDefaultPDFDir, dir},
		{models.SettingAutoOpenPDF, autoOpen},
	}
	for _, kv := range pairs {
		if err := s.Store.SetSetting(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}
