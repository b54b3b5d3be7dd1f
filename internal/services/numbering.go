package services

import (
	"fmt"
	"strconv"

	"invoicedesk/internal/models"
	"invoicedesk/internal/money"
	"invoicedesk/internal/store"
)

// NumberingService is the single authority for the next invoice number.
// The stored sequence counter is canonical; when no counter has been
// saved yet the sequence bootstraps from the most recent invoice on
// file, so databases that predate the counter keep their trail intact.
type NumberingService struct {
	Store *store.Store
	Prefs *PreferenceService
}

func NewNumberingService(st *store.Store, prefs *PreferenceService) *NumberingService {
	return &NumberingService{Store: st, Prefs: prefs}
}

// PeekNext reports the number the next invoice would get, without
// moving the counter. Numbers already taken by manual entries are
// skipped over.
func (s *NumberingService) PeekNext() (string, error) {
	no, _, err := s.next()
	return no, err
}

// CommitNext returns the next number and durably advances the counter
// past it.
func (s *NumberingService) CommitNext() (string, error) {
	no, seq, err := s.next()
	if err != nil {
		return "", err
	}
	if err := s.Store.SetSetting(models.SettingInvoiceSequence, strconv.Itoa(seq+1)); err != nil {
		return "", fmt.Errorf("advance invoice sequence: %w", err)
	}
	return no, nil
}

func (s *NumberingService) next() (string, int, error) {
	prefs, err := s.Prefs.Get()
	if err != nil {
		return "", 0, err
	}
	seq := prefs.InvoiceSequence

	stored, err := s.Store.GetSetting(models.SettingInvoiceSequence)
	if err != nil {
		return "", 0, err
	}
	if stored == "" {
		latest, err := s.Store.LatestInvoiceNo()
		if err != nil {
			return "", 0, err
		}
		if latest != "" {
			if n, ok := trailingNumber(money.NextInvoiceNumber(latest)); ok && n > seq {
				seq = n
			}
		}
	}

	for {
		candidate := fmt.Sprintf("%s%04d", prefs.InvoicePrefix, seq)
		taken, err := s.Store.InvoiceNoExists(candidate)
		if err != nil {
			return "", 0, err
		}
		if !taken {
			return candidate, seq, nil
		}
		seq++
	}
}

// trailingNumber parses the digit run at the end of a number string.
func trailingNumber(s string) (int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}
